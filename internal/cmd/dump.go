package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alia5/PSXPAD/internal/log"
	"github.com/Alia5/PSXPAD/psx"
)

type Dump struct {
	BackendFlags `embed:""`

	Interval time.Duration `help:"Polling interval" default:"50ms"`
	Count    int           `help:"Number of cycles to dump, 0 runs until interrupted" default:"0"`
}

// Run polls the controller and hex-dumps every raw frame to stdout, plus a
// one-line decoded summary per cycle.
func (d *Dump) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Frames always go to stdout here; that is the whole point of dump.
	rawLogger := log.NewRaw(os.Stdout)

	controller, tr, err := d.openController(logger, rawLogger)
	if err != nil {
		return err
	}
	defer func() { _ = psx.CloseTransport(tr) }()

	ticker := time.NewTicker(d.Interval)
	defer ticker.Stop()

	for cycle := 0; d.Count == 0 || cycle < d.Count; cycle++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		events := controller.Update()
		state := controller.State()
		fmt.Printf("cycle %d: status=%s type=%s events=%d buttons=%04x L=(%d,%d) R=(%d,%d)\n",
			cycle,
			controller.Status(),
			controller.Type(),
			len(events),
			state.Buttons,
			state.LeftX, state.LeftY,
			state.RightX, state.RightY)
	}
	return nil
}
