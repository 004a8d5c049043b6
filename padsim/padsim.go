// Package padsim is a software DualShock that answers at the frame level. It
// backs the "sim" transport backend so the CLI and the stream server run
// without wiring, and it gives protocol tests a pad with scriptable state.
package padsim

import (
	"sync"

	"github.com/Alia5/PSXPAD/psx"
)

func init() {
	psx.RegisterBackend("sim", func(cfg psx.BackendConfig) (psx.Transport, error) {
		return New(), nil
	})
}

// Pad simulates one controller. The zero-value wiring is a DualShock with
// nothing pressed and both sticks centered; Identity can be lowered to
// simulate a plain analog pad. Safe for concurrent use so tests can poke
// state while a poll loop runs.
type Pad struct {
	mu sync.Mutex

	buttons   uint16 // pressed bitmap, host view
	rx, ry    uint8
	lx, ly    uint8
	pressures [psx.PressureCount]uint8

	identity     uint8
	inConfig     bool
	analog       bool
	pressureMode bool
	rumbleMapped bool

	smallMotor uint8
	largeMotor uint8

	unplugged bool
}

// New returns a simulated DualShock in digital mode.
func New() *Pad {
	return &Pad{
		identity: psx.IdentityDualShock,
		rx:       psx.StickNeutral, ry: psx.StickNeutral,
		lx: psx.StickNeutral, ly: psx.StickNeutral,
	}
}

// SetIdentity overrides the config-mode identity byte (0x03 DualShock,
// 0x01 plain analog).
func (p *Pad) SetIdentity(id uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.identity = id
}

// SetUnplugged makes every transaction fail with ErrNoAcknowledge, as if the
// plug were pulled. Re-plugging keeps the pad's mode state cleared.
func (p *Pad) SetUnplugged(unplugged bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unplugged = unplugged
	if unplugged {
		p.inConfig = false
		p.analog = false
		p.pressureMode = false
		p.rumbleMapped = false
	}
}

// Press marks a button down.
func (p *Pad) Press(b psx.Button) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buttons |= 1 << uint(b)
}

// Release marks a button up.
func (p *Pad) Release(b psx.Button) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buttons &^= 1 << uint(b)
}

// SetButtons replaces the whole pressed bitmap.
func (p *Pad) SetButtons(pressed uint16) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buttons = pressed
}

// SetSticks positions both sticks.
func (p *Pad) SetSticks(lx, ly, rx, ry uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lx, p.ly, p.rx, p.ry = lx, ly, rx, ry
}

// SetPressures replaces the pressure byte array.
func (p *Pad) SetPressures(values [psx.PressureCount]uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pressures = values
}

// Motors returns the last motor bytes seen in a poll command, valid only
// after rumble has been mapped in config mode.
func (p *Pad) Motors() (small, large uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.smallMotor, p.largeMotor
}

// InAnalogMode reports whether negotiation switched the pad to analog.
func (p *Pad) InAnalogMode() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.analog
}

// Transact implements psx.Transport.
func (p *Pad) Transact(cmd []byte) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.unplugged || len(cmd) < 2 || cmd[0] != 0x01 {
		return nil, psx.ErrNoAcknowledge
	}

	// Mode/config commands answer in the mode that was active when ATT
	// dropped; the change applies from the next transaction.
	mode := p.modeByte()

	switch cmd[1] {
	case 0x42:
		if p.rumbleMapped && p.analog && len(cmd) > 4 {
			p.smallMotor = cmd[3]
			p.largeMotor = cmd[4]
		}
		return p.frame(mode, p.pollData(mode)), nil
	case 0x43:
		if len(cmd) > 3 && cmd[3] == 0x01 {
			p.inConfig = true
		} else {
			p.inConfig = false
		}
		return p.frame(mode, p.pollData(mode)), nil
	case 0x44:
		if p.inConfig && len(cmd) > 3 {
			p.analog = cmd[3] == 0x01
		}
		return p.frame(mode, make([]byte, dataLen(mode))), nil
	case 0x45:
		if !p.inConfig {
			return p.frame(mode, p.pollData(mode)), nil
		}
		data := make([]byte, dataLen(mode))
		data[0] = p.identity
		data[1] = 0x02
		if p.analog {
			data[2] = 0x01
		}
		data[5] = 0x01
		return p.frame(mode, data), nil
	case 0x4D:
		if p.inConfig {
			p.rumbleMapped = true
		}
		return p.frame(mode, make([]byte, dataLen(mode))), nil
	case 0x4F:
		if p.inConfig {
			p.pressureMode = true
		}
		return p.frame(mode, make([]byte, dataLen(mode))), nil
	default:
		// Unknown commands are treated as a poll, like real pads do.
		return p.frame(mode, p.pollData(mode)), nil
	}
}

func (p *Pad) modeByte() uint8 {
	switch {
	case p.inConfig:
		return psx.ModeConfig
	case p.analog && p.pressureMode:
		return psx.ModeDualShock2
	case p.analog:
		return psx.ModeAnalogRed
	default:
		return psx.ModeDigital
	}
}

func dataLen(mode uint8) int {
	return 2 * int(mode&psx.ModeWordCountMask)
}

// pollData builds the data section for the current mode: button bytes, then
// sticks, then pressures, truncated to the mode's advertised length.
func (p *Pad) pollData(mode uint8) []byte {
	lo, hi := psx.EncodeButtons(p.buttons)
	full := make([]byte, 0, psx.ButtonBytes+psx.StickBytes+psx.PressureCount)
	full = append(full, lo, hi, p.rx, p.ry, p.lx, p.ly)
	full = append(full, p.pressures[:]...)
	n := dataLen(mode)
	if n > len(full) {
		n = len(full)
	}
	return full[:n]
}

func (p *Pad) frame(mode uint8, data []byte) []byte {
	out := make([]byte, 0, psx.HeaderLen+len(data))
	out = append(out, psx.ReadyByte, mode, psx.HeaderByte)
	return append(out, data...)
}
