package psx

// Response mode bytes (byte 1 of every frame). High nibble is the controller
// family, low nibble the number of 16-bit data words that follow byte 2.
const (
	ModeDigital       uint8 = 0x41
	ModeNegCon        uint8 = 0x23
	ModeAnalogRed     uint8 = 0x73
	ModeDualShock2    uint8 = 0x79
	ModeJogCon        uint8 = 0xE3
	ModeConfig        uint8 = 0xF3
	ModeNibbleAnalog  uint8 = 0x70
	ModeNibbleDigital uint8 = 0x40
	ModeFamilyMask    uint8 = 0xF0
	ModeWordCountMask uint8 = 0x0F
)

const (
	// ReadyByte is the first byte of every response while the data line sits
	// at its pulled-up idle level.
	ReadyByte uint8 = 0xFF
	// HeaderByte is byte 2 of every valid response.
	HeaderByte uint8 = 0x5A
)

// Type-read (0x45) identity bytes returned inside config mode.
const (
	IdentityAnalog    uint8 = 0x01
	IdentityDualShock uint8 = 0x03
)

// Frame geometry.
const (
	HeaderLen     = 3  // ready byte, mode byte, 0x5A
	ButtonBytes   = 2  // active-low bitmap, little-endian on the wire
	StickBytes    = 4  // RX RY LX LY
	PressureCount = 12 // DualShock2 pressure bytes
	MaxFrameLen   = HeaderLen + ButtonBytes + StickBytes + PressureCount
)

// Neutral values reported for fields the negotiated type does not return.
const (
	StickNeutral    uint8 = 0x80
	PressureNeutral uint8 = 0x00
)

// Protocol timing. These are properties of the wire, not tunables: the
// controller samples CMD on the falling clock edge and shifts DAT out for the
// host to sample before the rising edge.
const (
	ClockHalfPeriodMicros = 5
	ByteSettleMicros      = 4
	AttentionSettleMicros = 4
	AckTimeoutMicros      = 100
	AckPollStepMicros     = 1
)

// Negotiation pacing, from the reference hardware behaviour: the inter-command
// delay starts at 1ms and grows by 1ms for every failed attempt.
const (
	DefaultNegotiationAttempts = 10
	baseCommandDelayMillis     = 1
)

// ControllerType is the negotiated capability profile, fixed for the lifetime
// of one physical connection.
type ControllerType uint8

const (
	TypeUnconfigured ControllerType = iota
	TypeDigital
	TypeAnalogRed
	TypeDualShock
	TypeDualShock2
	TypeNegCon
	TypeJogCon
	TypeUnknown
)

var typeNames = map[ControllerType]string{
	TypeUnconfigured: "Unconfigured",
	TypeDigital:      "Digital",
	TypeAnalogRed:    "AnalogRed",
	TypeDualShock:    "DualShock",
	TypeDualShock2:   "DualShock2",
	TypeNegCon:       "NegCon",
	TypeJogCon:       "JogCon",
	TypeUnknown:      "Unknown",
}

func (t ControllerType) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "Unknown"
}

// HasSticks reports whether the type returns the four analog stick bytes.
func (t ControllerType) HasSticks() bool {
	switch t {
	case TypeAnalogRed, TypeDualShock, TypeDualShock2, TypeNegCon, TypeJogCon:
		return true
	}
	return false
}

// HasRumble reports whether the type honors motor bytes in the poll command.
func (t ControllerType) HasRumble() bool {
	return t == TypeDualShock || t == TypeDualShock2
}

// HasPressures reports whether the type returns pressure-sensitive button
// bytes.
func (t ControllerType) HasPressures() bool {
	return t == TypeDualShock2
}

// typeForMode maps a response mode byte to a ControllerType. Mode bytes not
// in the table decode as TypeUnknown; the button bitmap is still extracted.
var typeForMode = map[uint8]ControllerType{
	ModeDigital:    TypeDigital,
	ModeAnalogRed:  TypeAnalogRed,
	ModeDualShock2: TypeDualShock2,
	ModeNegCon:     TypeNegCon,
	ModeJogCon:     TypeJogCon,
	ModeConfig:     TypeUnconfigured,
}

// ConnectionStatus tracks the link state across polling cycles.
type ConnectionStatus uint8

const (
	Disconnected ConnectionStatus = iota
	Negotiating
	Connected
)

func (s ConnectionStatus) String() string {
	switch s {
	case Negotiating:
		return "Negotiating"
	case Connected:
		return "Connected"
	default:
		return "Disconnected"
	}
}
