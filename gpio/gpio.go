// Package gpio defines the pin-level capability the psx transport is built
// on. Implementations live in subpackages (gpio/gpiochip for the Linux
// character device); tests substitute in-memory lines.
package gpio

import "time"

// Output is a single GPIO line driven by the host.
type Output interface {
	// Set drives the line high (true) or low (false).
	Set(high bool)
}

// Input is a single GPIO line read by the host.
type Input interface {
	// Get returns true when the line reads high.
	Get() bool
}

// Pins fixes the four wire roles of the controller link plus the acknowledge
// line. Roles are assigned at construction and never change.
type Pins struct {
	Clock     Output // CLK, idles high
	Command   Output // CMD, host to controller data
	Attention Output // ATT, active low chip select
	Data      Input  // DAT, controller to host data, pulled up
	Ack       Input  // ACK, active low pulse after each byte, pulled up
}

// DelayFunc waits for at least the given number of microseconds.
type DelayFunc func(micros int)

// BusyWait spins until the duration has elapsed. The protocol's clock half
// periods are single-digit microseconds; handing the interval to the
// scheduler would stretch edges far past what the controller tolerates.
func BusyWait(micros int) {
	d := time.Duration(micros) * time.Microsecond
	start := time.Now()
	for time.Since(start) < d {
	}
}
