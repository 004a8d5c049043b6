package testing

import (
	"github.com/Alia5/PSXPAD/psx"
)

// Step is one scripted transaction outcome: either a canned response frame
// or an error.
type Step struct {
	Frame []byte
	Err   error
}

// ScriptTransport replays a fixed sequence of transaction outcomes and
// records every command it was handed. Once the script is exhausted it
// repeats the last step when Loop is set, otherwise it fails like an
// unplugged pad.
type ScriptTransport struct {
	Steps    []Step
	Loop     bool
	Commands [][]byte

	pos int
}

// Transact implements psx.Transport.
func (s *ScriptTransport) Transact(cmd []byte) ([]byte, error) {
	recorded := make([]byte, len(cmd))
	copy(recorded, cmd)
	s.Commands = append(s.Commands, recorded)

	if s.pos >= len(s.Steps) {
		if !s.Loop || len(s.Steps) == 0 {
			return nil, psx.ErrNoAcknowledge
		}
		s.pos = len(s.Steps) - 1
	}
	step := s.Steps[s.pos]
	s.pos++
	if step.Err != nil {
		return nil, step.Err
	}
	return step.Frame, nil
}

// Frame builds a response frame: ready byte, mode byte, 0x5A header, data.
func Frame(mode uint8, data ...byte) []byte {
	out := []byte{psx.ReadyByte, mode, psx.HeaderByte}
	return append(out, data...)
}
