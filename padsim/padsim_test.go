package padsim_test

import (
	"testing"

	"github.com/Alia5/PSXPAD/padsim"
	"github.com/Alia5/PSXPAD/psx"
	"github.com/stretchr/testify/assert"
)

func TestPadStartsDigital(t *testing.T) {
	pad := padsim.New()
	frame, err := pad.Transact([]byte{0x01, 0x42, 0x00})
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0x41, 0x5A, 0xFF, 0xFF}, frame)
}

func TestConfigEntryAnswersInOldMode(t *testing.T) {
	pad := padsim.New()

	// The frame carrying the mode change still reports the previous mode;
	// the change is visible from the next transaction on.
	frame, err := pad.Transact(psx.EnterConfigCommand())
	assert.NoError(t, err)
	assert.Equal(t, psx.ModeDigital, frame[1])

	frame, err = pad.Transact(psx.ReadTypeCommand())
	assert.NoError(t, err)
	assert.Equal(t, psx.ModeConfig, frame[1])
	assert.Equal(t, psx.IdentityDualShock, frame[3])
}

func TestAnalogModeOnlyInsideConfig(t *testing.T) {
	pad := padsim.New()

	_, err := pad.Transact(psx.SetAnalogModeCommand())
	assert.NoError(t, err)
	assert.False(t, pad.InAnalogMode())

	_, err = pad.Transact(psx.EnterConfigCommand())
	assert.NoError(t, err)
	_, err = pad.Transact(psx.SetAnalogModeCommand())
	assert.NoError(t, err)
	assert.True(t, pad.InAnalogMode())
}

func TestUnpluggedFailsEveryTransaction(t *testing.T) {
	pad := padsim.New()
	pad.SetUnplugged(true)

	_, err := pad.Transact([]byte{0x01, 0x42, 0x00})
	assert.ErrorIs(t, err, psx.ErrNoAcknowledge)
}

func TestBadAddressByteIgnored(t *testing.T) {
	pad := padsim.New()
	_, err := pad.Transact([]byte{0x00, 0x42, 0x00})
	assert.ErrorIs(t, err, psx.ErrNoAcknowledge)
}
