package psx

import (
	"errors"
	"log/slog"
	"time"
)

// Options tunes controller construction. The zero value is a plain poll-only
// driver; rumble and pressure reporting are opt-in because both cost extra
// bytes on every cycle.
type Options struct {
	EnableRumble   bool
	EnablePressure bool
	// Attempts bounds the negotiation retry loop; 0 means
	// DefaultNegotiationAttempts.
	Attempts int
	Logger   *slog.Logger
}

// Controller is the driver for one physical pad. It owns the previous/current
// state pair and the connection status; multiple instances on separate
// transports are fully independent. Not safe for concurrent use: one polling
// cycle runs to completion before the next may start.
type Controller struct {
	tr     Transport
	logger *slog.Logger
	opts   Options

	typ    ControllerType
	status ConnectionStatus
	state  State

	// Pacing between config-mode commands, bumped 1ms per failed
	// negotiation attempt.
	commandDelay time.Duration

	rumbleSmall bool
	rumbleLarge uint8
}

// New builds a controller over the given transport. opts may be nil.
func New(tr Transport, opts *Options) *Controller {
	c := &Controller{
		tr:     tr,
		typ:    TypeUnconfigured,
		status: Disconnected,
		state:  NeutralState(),
	}
	if opts != nil {
		c.opts = *opts
	}
	if c.opts.Attempts <= 0 {
		c.opts.Attempts = DefaultNegotiationAttempts
	}
	c.logger = c.opts.Logger
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Type returns the negotiated controller type.
func (c *Controller) Type() ControllerType { return c.typ }

// Status returns the current connection status.
func (c *Controller) Status() ConnectionStatus { return c.status }

// IsConnected reports whether the last polling cycle decoded a valid frame.
func (c *Controller) IsConnected() bool { return c.status == Connected }

// State returns the latest decoded reading. On a failed cycle the previous
// state is retained unchanged.
func (c *Controller) State() State { return c.state }

// AnalogLeft returns the left stick position, 128 centered.
func (c *Controller) AnalogLeft() (x, y uint8) { return c.state.LeftX, c.state.LeftY }

// AnalogRight returns the right stick position, 128 centered.
func (c *Controller) AnalogRight() (x, y uint8) { return c.state.RightX, c.state.RightY }

// Pressure returns the 0-255 pressure reading for a button, 0 unless the
// negotiated type reports pressures and the button has a pressure cell.
func (c *Controller) Pressure(b Button) uint8 {
	idx, ok := pressureIndex[b]
	if !ok {
		return PressureNeutral
	}
	return c.state.Pressures[idx]
}

// SetRumble caches the motor command for the next poll cycle. The values only
// reach the wire when the negotiated type honors them; on anything else the
// call is accepted and has no effect.
func (c *Controller) SetRumble(smallMotor bool, largeMotor uint8) {
	c.rumbleSmall = smallMotor
	c.rumbleLarge = largeMotor
}

// Update runs one polling cycle and returns the press/release events since
// the previous cycle. Negotiation runs first when the connection is new or
// was lost; every failure is absorbed into Disconnected status and retried on
// the next call, never returned to the caller.
func (c *Controller) Update() []Event {
	if c.status != Connected {
		if err := c.negotiate(); err != nil {
			c.logger.Debug("controller negotiation failed", "error", err)
			c.disconnect()
			return nil
		}
	}

	frame, err := c.tr.Transact(PollCommand(c.typ, c.rumbleSmall, c.rumbleLarge))
	if err != nil {
		c.logger.Debug("poll transaction failed", "error", err)
		c.disconnect()
		return nil
	}
	reading, err := Decode(frame)
	if err != nil && !errors.Is(err, ErrUnknownControllerType) {
		c.logger.Debug("poll response invalid", "error", err)
		c.disconnect()
		return nil
	}

	// A controller that negotiated analog but answers in another mode has
	// been reset or swapped; drop the connection and renegotiate next cycle.
	if c.typ.HasSticks() && !InAnalogMode(reading.Mode) {
		c.logger.Debug("controller left analog mode", "mode", reading.Mode)
		c.disconnect()
		return nil
	}

	prev := c.state.Buttons
	c.state.apply(reading)
	c.status = Connected
	return diffButtons(prev, c.state.Buttons)
}

func (c *Controller) disconnect() {
	// The stored state is kept as-is (stale); no synthetic release events.
	c.status = Disconnected
	c.typ = TypeUnconfigured
}

// negotiate walks the config-mode sequence: probe, enter config, read the
// identity byte, enable analog (plus rumble/pressure when requested), exit
// config, then verify the controller actually reports in analog mode. Pads
// that never leave the digital family after all attempts are accepted as
// plain digital controllers.
func (c *Controller) negotiate() error {
	c.status = Negotiating
	c.commandDelay = baseCommandDelayMillis * time.Millisecond

	probe, err := c.tr.Transact(PollCommand(TypeUnconfigured, false, 0))
	if err != nil {
		return err
	}
	reading, err := Decode(probe)
	if err != nil && !errors.Is(err, ErrUnknownControllerType) {
		return err
	}

	var lastMode uint8
	for attempt := 1; attempt <= c.opts.Attempts; attempt++ {
		if err := c.transactSettle(EnterConfigCommand()); err != nil {
			return err
		}

		dualshock := false
		if identity, err := c.tr.Transact(ReadTypeCommand()); err == nil && len(identity) > 3 {
			dualshock = identity[3] == IdentityDualShock
		}

		if err := c.transactSettle(SetAnalogModeCommand()); err != nil {
			return err
		}
		if c.opts.EnableRumble {
			if err := c.transactSettle(EnableRumbleCommand()); err != nil {
				return err
			}
		}
		if c.opts.EnablePressure {
			if err := c.transactSettle(EnablePressureCommand()); err != nil {
				return err
			}
		}
		if err := c.transactSettle(ExitConfigCommand()); err != nil {
			return err
		}

		frame, err := c.tr.Transact(PollCommand(TypeAnalogRed, false, 0))
		if err != nil {
			return err
		}
		reading, err = Decode(frame)
		if err != nil && !errors.Is(err, ErrUnknownControllerType) {
			return err
		}
		lastMode = reading.Mode

		if InAnalogMode(reading.Mode) {
			typ := reading.Type
			if typ == TypeAnalogRed && dualshock {
				typ = TypeDualShock
			}
			c.connect(typ, reading)
			return nil
		}

		c.commandDelay += time.Millisecond
		c.logger.Debug("analog mode not active yet",
			"attempt", attempt,
			"mode", reading.Mode)
	}

	// Original digital pads have no config mode at all; a steady 0x4X answer
	// is a working connection, not a failure.
	if lastMode&ModeFamilyMask == ModeNibbleDigital {
		c.connect(TypeDigital, reading)
		return nil
	}
	return ErrNegotiationFailed
}

func (c *Controller) connect(typ ControllerType, r Reading) {
	c.typ = typ
	c.state = NeutralState()
	// Seed the state so buttons held during negotiation do not fire a burst
	// of events on the first Update.
	c.state.apply(r)
	c.status = Connected
	c.logger.Info("controller connected", "type", typ)
}

// transactSettle issues one config command and waits the inter-command delay
// before the next. The delay is millisecond scale, so plain sleeping is fine
// here; only the bit-level timing inside a transaction must busy-wait.
func (c *Controller) transactSettle(cmd []byte) error {
	if _, err := c.tr.Transact(cmd); err != nil {
		return err
	}
	time.Sleep(c.commandDelay)
	return nil
}

// pressureIndex maps buttons to their DualShock2 pressure byte position.
// SELECT, START, L3 and R3 have no pressure cell.
var pressureIndex = map[Button]int{
	ButtonRight:    0,
	ButtonLeft:     1,
	ButtonUp:       2,
	ButtonDown:     3,
	ButtonTriangle: 4,
	ButtonCircle:   5,
	ButtonCross:    6,
	ButtonSquare:   7,
	ButtonL1:       8,
	ButtonR1:       9,
	ButtonL2:       10,
	ButtonR2:       11,
}
