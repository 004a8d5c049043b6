package psx_test

import (
	"testing"

	psxtesting "github.com/Alia5/PSXPAD/internal/testing"
	"github.com/Alia5/PSXPAD/padsim"
	"github.com/Alia5/PSXPAD/psx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, pad *padsim.Pad, opts *psx.Options) *psx.Controller {
	t.Helper()
	c := psx.New(pad, opts)
	events := c.Update()
	require.True(t, c.IsConnected(), "pad did not negotiate")
	require.Empty(t, events)
	return c
}

func TestNegotiateDualShock(t *testing.T) {
	pad := padsim.New()
	c := psx.New(pad, nil)

	assert.Equal(t, psx.Disconnected, c.Status())
	assert.Equal(t, psx.TypeUnconfigured, c.Type())

	events := c.Update()
	assert.Empty(t, events)
	assert.Equal(t, psx.Connected, c.Status())
	assert.Equal(t, psx.TypeDualShock, c.Type())
	assert.True(t, pad.InAnalogMode())
}

func TestNegotiatePlainAnalog(t *testing.T) {
	pad := padsim.New()
	pad.SetIdentity(psx.IdentityAnalog)

	c := connect(t, pad, nil)
	assert.Equal(t, psx.TypeAnalogRed, c.Type())
}

func TestNegotiatePressures(t *testing.T) {
	pad := padsim.New()
	c := connect(t, pad, &psx.Options{EnablePressure: true})
	assert.Equal(t, psx.TypeDualShock2, c.Type())

	var pressures [psx.PressureCount]uint8
	pressures[6] = 0xC0 // cross cell
	pad.SetPressures(pressures)
	pad.Press(psx.ButtonCross)
	c.Update()

	assert.Equal(t, uint8(0xC0), c.Pressure(psx.ButtonCross))
	assert.Equal(t, uint8(0), c.Pressure(psx.ButtonCircle))
	// No pressure cell behind SELECT.
	assert.Equal(t, uint8(0), c.Pressure(psx.ButtonSelect))
}

func TestEventEdges(t *testing.T) {
	pad := padsim.New()
	c := connect(t, pad, nil)

	pad.Press(psx.ButtonCross)
	events := c.Update()
	assert.Equal(t, []psx.Event{{Button: psx.ButtonCross, Pressed: true}}, events)

	// Holding a button produces no further events.
	assert.Empty(t, c.Update())
	assert.True(t, c.State().IsPressed(psx.ButtonCross))

	pad.Release(psx.ButtonCross)
	events = c.Update()
	assert.Equal(t, []psx.Event{{Button: psx.ButtonCross, Pressed: false}}, events)
}

func TestEveryButtonFiresExactlyOneEvent(t *testing.T) {
	pad := padsim.New()
	c := connect(t, pad, nil)

	for b := psx.Button(0); b < psx.ButtonCount; b++ {
		pad.Press(b)
		events := c.Update()
		require.Len(t, events, 1, "press %s", b)
		assert.Equal(t, psx.Event{Button: b, Pressed: true}, events[0])

		pad.Release(b)
		events = c.Update()
		require.Len(t, events, 1, "release %s", b)
		assert.Equal(t, psx.Event{Button: b, Pressed: false}, events[0])
	}
}

func TestSimultaneousEventsInBitOrder(t *testing.T) {
	pad := padsim.New()
	c := connect(t, pad, nil)

	pad.Press(psx.ButtonSquare)
	pad.Press(psx.ButtonSelect)
	events := c.Update()
	assert.Equal(t, []psx.Event{
		{Button: psx.ButtonSelect, Pressed: true},
		{Button: psx.ButtonSquare, Pressed: true},
	}, events)
}

func TestAnalogSticks(t *testing.T) {
	pad := padsim.New()
	c := connect(t, pad, nil)

	pad.SetSticks(10, 20, 30, 40)
	assert.Empty(t, c.Update())

	lx, ly := c.AnalogLeft()
	assert.Equal(t, [2]uint8{10, 20}, [2]uint8{lx, ly})
	rx, ry := c.AnalogRight()
	assert.Equal(t, [2]uint8{30, 40}, [2]uint8{rx, ry})
}

func TestRumbleReachesMotors(t *testing.T) {
	pad := padsim.New()
	c := connect(t, pad, &psx.Options{EnableRumble: true})

	c.SetRumble(true, 0x80)
	c.Update()

	small, large := pad.Motors()
	assert.Equal(t, uint8(0xFF), small)
	assert.Equal(t, uint8(0x80), large)

	c.SetRumble(false, 0)
	c.Update()
	small, large = pad.Motors()
	assert.Equal(t, uint8(0), small)
	assert.Equal(t, uint8(0), large)
}

func TestUnplugKeepsLastState(t *testing.T) {
	pad := padsim.New()
	c := connect(t, pad, nil)

	pad.Press(psx.ButtonCross)
	c.Update()

	pad.SetUnplugged(true)
	events := c.Update()
	assert.Nil(t, events)
	assert.False(t, c.IsConnected())
	assert.Equal(t, psx.TypeUnconfigured, c.Type())
	// Last good reading stays visible; no synthetic release events.
	assert.True(t, c.State().IsPressed(psx.ButtonCross))

	pad.SetUnplugged(false)
	events = c.Update()
	assert.True(t, c.IsConnected())
	assert.Equal(t, psx.TypeDualShock, c.Type())
	// The button was already down when the connection came back, so no edge.
	assert.Empty(t, events)
}

func TestModeFallbackTriggersRenegotiation(t *testing.T) {
	pad := padsim.New()
	c := connect(t, pad, nil)

	// A power glitch resets the pad to digital mode without breaking the
	// wire; the very next poll answers 0x41.
	pad.SetUnplugged(true)
	pad.SetUnplugged(false)

	events := c.Update()
	assert.Nil(t, events)
	assert.False(t, c.IsConnected())

	assert.Empty(t, c.Update())
	assert.True(t, c.IsConnected())
	assert.Equal(t, psx.TypeDualShock, c.Type())
}

func TestDigitalOnlyPadConnects(t *testing.T) {
	// A pad with no config mode keeps answering 0x41 to everything.
	tr := &psxtesting.ScriptTransport{
		Steps: []psxtesting.Step{{Frame: psxtesting.Frame(0x41, 0xFF, 0xFF)}},
		Loop:  true,
	}
	c := psx.New(tr, &psx.Options{Attempts: 2})

	assert.Empty(t, c.Update())
	assert.True(t, c.IsConnected())
	assert.Equal(t, psx.TypeDigital, c.Type())

	// Digital pads report neutral sticks.
	lx, ly := c.AnalogLeft()
	assert.Equal(t, psx.StickNeutral, lx)
	assert.Equal(t, psx.StickNeutral, ly)

	// The probe is the bare three-byte poll.
	assert.Equal(t, []byte{0x01, 0x42, 0x00}, tr.Commands[0])
}

func TestNoPadMeansDisconnected(t *testing.T) {
	tr := &psxtesting.ScriptTransport{}
	c := psx.New(tr, &psx.Options{Attempts: 2})

	assert.Nil(t, c.Update())
	assert.Equal(t, psx.Disconnected, c.Status())
	assert.Equal(t, psx.TypeUnconfigured, c.Type())

	// Retried from scratch on every cycle.
	assert.Nil(t, c.Update())
	assert.Equal(t, psx.Disconnected, c.Status())
}

func TestFailureDuringNegotiation(t *testing.T) {
	// The probe answers, then the pad vanishes mid-sequence.
	tr := &psxtesting.ScriptTransport{
		Steps: []psxtesting.Step{{Frame: psxtesting.Frame(0x41, 0xFF, 0xFF)}},
	}
	c := psx.New(tr, &psx.Options{Attempts: 2})

	assert.Nil(t, c.Update())
	assert.Equal(t, psx.Disconnected, c.Status())
}
