package psx_test

import (
	"testing"

	psxtesting "github.com/Alia5/PSXPAD/internal/testing"
	"github.com/Alia5/PSXPAD/psx"
	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	type testCase struct {
		name        string
		frame       []byte
		expected    psx.Reading
		expectedErr error
	}

	cases := []testCase{
		{
			name:  "digital nothing pressed",
			frame: psxtesting.Frame(0x41, 0xFF, 0xFF),
			expected: psx.Reading{
				Type: psx.TypeDigital,
				Mode: 0x41,
			},
		},
		{
			name:  "digital cross pressed",
			frame: psxtesting.Frame(0x41, 0xFF, 0xBF),
			expected: psx.Reading{
				Type:    psx.TypeDigital,
				Mode:    0x41,
				Buttons: 1 << uint(psx.ButtonCross),
			},
		},
		{
			name:  "analog sticks",
			frame: psxtesting.Frame(0x73, 0xFF, 0xFF, 0xFF, 0x7F, 0x80, 0x00),
			expected: psx.Reading{
				Type:      psx.TypeAnalogRed,
				Mode:      0x73,
				HasSticks: true,
				RightX:    255,
				RightY:    127,
				LeftX:     128,
				LeftY:     0,
			},
		},
		{
			name: "dualshock2 pressures",
			frame: psxtesting.Frame(0x79,
				0xFF, 0xF7, // R1 pressed
				0x80, 0x80, 0x80, 0x80,
				0, 0, 0, 0, 0, 0, 0, 0, 0, 0xC0, 0, 0),
			expected: psx.Reading{
				Type:         psx.TypeDualShock2,
				Mode:         0x79,
				Buttons:      1 << uint(psx.ButtonR1),
				HasSticks:    true,
				RightX:       128,
				RightY:       128,
				LeftX:        128,
				LeftY:        128,
				HasPressures: true,
				Pressures:    [psx.PressureCount]uint8{9: 0xC0},
			},
		},
		{
			name:  "config mode",
			frame: psxtesting.Frame(0xF3, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00),
			expected: psx.Reading{
				Type:      psx.TypeUnconfigured,
				Mode:      0xF3,
				HasSticks: true,
				LeftX:     0, LeftY: 0, RightX: 0, RightY: 0,
			},
		},
		{
			name:  "unknown type keeps buttons",
			frame: psxtesting.Frame(0x12, 0xFF, 0xBF, 0x00, 0x00),
			expected: psx.Reading{
				Type:    psx.TypeUnknown,
				Mode:    0x12,
				Buttons: 1 << uint(psx.ButtonCross),
			},
			expectedErr: psx.ErrUnknownControllerType,
		},
		{
			name:        "short read",
			frame:       psxtesting.Frame(0x73, 0xFF, 0xFF),
			expectedErr: psx.ErrProtocol,
		},
		{
			name:        "missing ready byte",
			frame:       []byte{0x41, 0x5A, 0xFF, 0xFF},
			expectedErr: psx.ErrProtocol,
		},
		{
			name:        "empty frame",
			frame:       nil,
			expectedErr: psx.ErrProtocol,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reading, err := psx.Decode(tc.frame)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				if tc.expectedErr == psx.ErrProtocol {
					return
				}
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.expected, reading)
		})
	}
}

func TestButtonBitmapRoundTrip(t *testing.T) {
	patterns := []uint16{0x0000, 0xFFFF, 0x5A5A, 0x8001}
	for b := 0; b < psx.ButtonCount; b++ {
		patterns = append(patterns, 1<<uint(b))
	}
	for _, pressed := range patterns {
		lo, hi := psx.EncodeButtons(pressed)
		reading, err := psx.Decode(psxtesting.Frame(0x41, lo, hi))
		assert.NoError(t, err)
		assert.Equal(t, pressed, reading.Buttons, "pattern %04x", pressed)
	}
}

func TestControllerTypeNames(t *testing.T) {
	assert.Equal(t, "DualShock2", psx.TypeDualShock2.String())
	assert.Equal(t, "Unknown", psx.ControllerType(0xAA).String())
	assert.True(t, psx.TypeDualShock.HasRumble())
	assert.False(t, psx.TypeAnalogRed.HasRumble())
	assert.False(t, psx.TypeDigital.HasSticks())
	assert.True(t, psx.TypeDualShock2.HasPressures())
}
