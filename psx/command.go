package psx

// Command packets. Every packet starts with the address byte 0x01; the second
// byte selects the operation. The 0x43/0x44/0x45/0x4D/0x4F commands are only
// meaningful inside config mode.
const (
	cmdAddress        uint8 = 0x01
	cmdPoll           uint8 = 0x42
	cmdConfigMode     uint8 = 0x43
	cmdSetAnalogMode  uint8 = 0x44
	cmdReadType       uint8 = 0x45
	cmdEnableRumble   uint8 = 0x4D
	cmdEnablePressure uint8 = 0x4F
)

var (
	enterConfig    = []byte{cmdAddress, cmdConfigMode, 0x00, 0x01, 0x00}
	exitConfig     = []byte{cmdAddress, cmdConfigMode, 0x00, 0x00, 0x5A, 0x5A, 0x5A, 0x5A, 0x5A}
	setAnalogMode  = []byte{cmdAddress, cmdSetAnalogMode, 0x00, 0x01, 0x03, 0x00, 0x00, 0x00, 0x00}
	readType       = []byte{cmdAddress, cmdReadType, 0x00, 0x5A, 0x5A, 0x5A, 0x5A, 0x5A, 0x5A}
	enableRumble   = []byte{cmdAddress, cmdEnableRumble, 0x00, 0x00, 0x01, 0xFF, 0xFF, 0xFF, 0xFF}
	enablePressure = []byte{cmdAddress, cmdEnablePressure, 0x00, 0xFF, 0xFF, 0x03, 0x00, 0x00, 0x00}
)

// EnterConfigCommand returns the packet that switches the controller into
// config mode (response mode byte becomes 0xF3).
func EnterConfigCommand() []byte { return clone(enterConfig) }

// ExitConfigCommand returns the packet that leaves config mode.
func ExitConfigCommand() []byte { return clone(exitConfig) }

// SetAnalogModeCommand returns the packet that enables analog reporting and
// locks the mode button (0x01 = analog, 0x03 = locked).
func SetAnalogModeCommand() []byte { return clone(setAnalogMode) }

// ReadTypeCommand returns the config-mode identity request; byte 3 of the
// response distinguishes DualShock (0x03) from a plain analog pad (0x01).
func ReadTypeCommand() []byte { return clone(readType) }

// EnableRumbleCommand returns the packet mapping the motor bytes into the
// poll command.
func EnableRumbleCommand() []byte { return clone(enableRumble) }

// EnablePressureCommand returns the packet enabling the DualShock2
// pressure-sensitive button bytes.
func EnablePressureCommand() []byte { return clone(enablePressure) }

// PollCommand builds the periodic state request for the negotiated type.
// Digital pads get the bare three-byte request; analog-capable types get the
// full nine-byte form with the motor bytes at positions 3 and 4. Motor bytes
// are only placed for types that honor them.
func PollCommand(t ControllerType, smallMotor bool, largeMotor uint8) []byte {
	if !t.HasSticks() {
		return []byte{cmdAddress, cmdPoll, 0x00}
	}
	var m1, m2 uint8
	if t.HasRumble() {
		if smallMotor {
			m1 = 0xFF
		}
		m2 = largeMotor
	}
	return []byte{cmdAddress, cmdPoll, 0x00, m1, m2, 0x00, 0x00, 0x00, 0x00}
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
