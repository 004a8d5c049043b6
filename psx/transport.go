package psx

import "github.com/Alia5/PSXPAD/gpio"

// Transport runs one attention-framed transaction against the controller:
// the command bytes are shifted out while the response is shifted in, and the
// response is extended to the length advertised by the frame's word-count
// nibble. Implementations must keep ATT asserted for the whole frame and
// never run two transactions concurrently.
type Transport interface {
	Transact(command []byte) ([]byte, error)
}

// FrameLogger receives every raw frame moved over the wire. in=false is the
// outgoing command (host to pad), in=true the captured response.
// internal/log.RawLogger satisfies this.
type FrameLogger interface {
	Log(in bool, data []byte)
}

// BitBang drives the four-wire synchronous link directly over GPIO lines.
// All timing is busy-waited; see gpio.BusyWait.
type BitBang struct {
	pins   gpio.Pins
	delay  gpio.DelayFunc
	frames FrameLogger
}

// NewBitBang builds a transport over the given pins. delay may be nil
// (gpio.BusyWait is used); frames may be nil.
func NewBitBang(pins gpio.Pins, delay gpio.DelayFunc, frames FrameLogger) *BitBang {
	if delay == nil {
		delay = gpio.BusyWait
	}
	b := &BitBang{pins: pins, delay: delay, frames: frames}
	// Idle levels: clock and command high, attention deasserted.
	b.pins.Clock.Set(true)
	b.pins.Command.Set(true)
	b.pins.Attention.Set(true)
	return b
}

// Transact implements Transport. The exchange length starts at len(command)
// and is widened once the mode byte (byte 1) arrives: a response is always
// HeaderLen + 2*words bytes, whichever of that and the command is longer.
// A missing ACK aborts the whole transaction; no partial frame is returned.
func (b *BitBang) Transact(command []byte) ([]byte, error) {
	if b.frames != nil {
		b.frames.Log(false, command)
	}

	b.pins.Command.Set(true)
	b.pins.Clock.Set(true)
	b.pins.Attention.Set(false)
	defer b.pins.Attention.Set(true)
	b.delay(AttentionSettleMicros)

	total := len(command)
	if total < HeaderLen {
		total = HeaderLen
	}
	response := make([]byte, 0, MaxFrameLen)
	for i := 0; i < total; i++ {
		out := uint8(0x00)
		if i < len(command) {
			out = command[i]
		}
		response = append(response, b.exchangeByte(out))

		if i == 1 {
			words := int(response[1] & ModeWordCountMask)
			if n := HeaderLen + 2*words; n > total {
				total = n
			}
		}

		// The controller acks every byte it expects more traffic after;
		// there is no pulse following the final byte of the frame. Bytes
		// stay spaced by the settle delay even when the ack is immediate.
		if i < total-1 {
			if !b.waitAck() {
				return nil, ErrNoAcknowledge
			}
			b.delay(ByteSettleMicros)
		}
	}
	b.delay(ByteSettleMicros)

	if b.frames != nil {
		b.frames.Log(true, response)
	}
	return response, nil
}

// exchangeByte shifts one byte out on CMD, LSB first, while sampling DAT.
// The outgoing bit is presented before the falling edge; DAT is sampled at
// the end of the low half period, just before the rising edge.
func (b *BitBang) exchangeByte(out uint8) uint8 {
	var in uint8
	for bit := 0; bit < 8; bit++ {
		b.pins.Command.Set(out&(1<<bit) != 0)
		b.pins.Clock.Set(false)
		b.delay(ClockHalfPeriodMicros)
		if b.pins.Data.Get() {
			in |= 1 << bit
		}
		b.pins.Clock.Set(true)
		b.delay(ClockHalfPeriodMicros)
	}
	b.pins.Command.Set(true)
	return in
}

// waitAck polls for the active-low acknowledge pulse, bounded by
// AckTimeoutMicros.
func (b *BitBang) waitAck() bool {
	for waited := 0; waited < AckTimeoutMicros; waited += AckPollStepMicros {
		if !b.pins.Ack.Get() {
			return true
		}
		b.delay(AckPollStepMicros)
	}
	return false
}
