package psx_test

import (
	"testing"

	"github.com/Alia5/PSXPAD/psx"
	"github.com/stretchr/testify/assert"
)

func TestConfigCommandBytes(t *testing.T) {
	assert.Equal(t, []byte{0x01, 0x43, 0x00, 0x01, 0x00}, psx.EnterConfigCommand())
	assert.Equal(t, []byte{0x01, 0x43, 0x00, 0x00, 0x5A, 0x5A, 0x5A, 0x5A, 0x5A}, psx.ExitConfigCommand())
	assert.Equal(t, []byte{0x01, 0x44, 0x00, 0x01, 0x03, 0x00, 0x00, 0x00, 0x00}, psx.SetAnalogModeCommand())
	assert.Equal(t, []byte{0x01, 0x45, 0x00, 0x5A, 0x5A, 0x5A, 0x5A, 0x5A, 0x5A}, psx.ReadTypeCommand())
	assert.Equal(t, []byte{0x01, 0x4D, 0x00, 0x00, 0x01, 0xFF, 0xFF, 0xFF, 0xFF}, psx.EnableRumbleCommand())
	assert.Equal(t, []byte{0x01, 0x4F, 0x00, 0xFF, 0xFF, 0x03, 0x00, 0x00, 0x00}, psx.EnablePressureCommand())
}

func TestCommandAccessorsReturnCopies(t *testing.T) {
	first := psx.EnterConfigCommand()
	first[1] = 0xAA
	assert.Equal(t, []byte{0x01, 0x43, 0x00, 0x01, 0x00}, psx.EnterConfigCommand())
}

func TestPollCommand(t *testing.T) {
	type testCase struct {
		name       string
		typ        psx.ControllerType
		smallMotor bool
		largeMotor uint8
		expected   []byte
	}

	cases := []testCase{
		{
			name:     "digital is three bytes",
			typ:      psx.TypeDigital,
			expected: []byte{0x01, 0x42, 0x00},
		},
		{
			name:     "analog without rumble ignores motors",
			typ:      psx.TypeAnalogRed,
			expected: []byte{0x01, 0x42, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:       "dualshock motors placed",
			typ:        psx.TypeDualShock,
			smallMotor: true,
			largeMotor: 0x40,
			expected:   []byte{0x01, 0x42, 0x00, 0xFF, 0x40, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:       "small motor is on or off only",
			typ:        psx.TypeDualShock2,
			smallMotor: false,
			largeMotor: 0xFF,
			expected:   []byte{0x01, 0x42, 0x00, 0x00, 0xFF, 0x00, 0x00, 0x00, 0x00},
		},
		{
			name:       "analog red never rumbles",
			typ:        psx.TypeAnalogRed,
			smallMotor: true,
			largeMotor: 0xFF,
			expected:   []byte{0x01, 0x42, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, psx.PollCommand(tc.typ, tc.smallMotor, tc.largeMotor))
		})
	}
}
