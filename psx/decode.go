package psx

// Reading is the decoded content of one response frame. Optional sections are
// flagged rather than zero-filled: whether an absent stick pair means
// "neutral" is the state engine's decision, not the decoder's.
type Reading struct {
	Type    ControllerType
	Mode    uint8
	Buttons uint16 // inverted from the wire: bit set means pressed

	HasSticks      bool
	RightX, RightY uint8
	LeftX, LeftY   uint8

	HasPressures bool
	Pressures    [PressureCount]uint8
}

// Decode validates and interprets one captured frame.
//
// Byte 0 must be the 0xFF ready byte. Byte 1 carries the type code in its
// high nibble and the data word count in its low nibble; the frame must hold
// HeaderLen + 2*words bytes or the read is short and decoding fails with
// ErrProtocol. An unknown type code yields ErrUnknownControllerType together
// with a Reading whose button bitmap is still populated when present.
func Decode(frame []byte) (Reading, error) {
	var r Reading
	if len(frame) < HeaderLen || frame[0] != ReadyByte {
		return r, ErrProtocol
	}

	r.Mode = frame[1]
	words := int(r.Mode & ModeWordCountMask)
	if len(frame) < HeaderLen+2*words {
		return r, ErrProtocol
	}
	data := frame[HeaderLen : HeaderLen+2*words]

	typ, known := typeForMode[r.Mode]
	r.Type = typ
	if !known {
		r.Type = TypeUnknown
	}

	if len(data) >= ButtonBytes {
		// Active low on the wire; invert so a set bit means pressed.
		r.Buttons = ^(uint16(data[0]) | uint16(data[1])<<8)
	}
	if !known {
		return r, ErrUnknownControllerType
	}

	if len(data) >= ButtonBytes+StickBytes {
		r.HasSticks = true
		r.RightX = data[2]
		r.RightY = data[3]
		r.LeftX = data[4]
		r.LeftY = data[5]
	}
	if len(data) >= ButtonBytes+StickBytes+PressureCount {
		r.HasPressures = true
		copy(r.Pressures[:], data[ButtonBytes+StickBytes:])
	}
	return r, nil
}

// InAnalogMode reports whether a mode byte belongs to the analog family.
func InAnalogMode(mode uint8) bool {
	return mode&ModeFamilyMask == ModeNibbleAnalog
}

// EncodeButtons is the inverse of the bitmap decode, used by the simulated
// pad: pressed=true becomes the active-low wire pair.
func EncodeButtons(pressed uint16) (lo, hi uint8) {
	raw := ^pressed
	return uint8(raw), uint8(raw >> 8)
}
