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

	"golang.org/x/term"
)

type Monitor struct {
	BackendFlags `embed:""`

	Interval time.Duration `help:"Polling interval" default:"10ms" env:"PSXPAD_POLL_INTERVAL"`
	Analog   bool          `help:"Print analog readings when they change" default:"true" negatable:""`
}

// Run is called by kong when the monitor command is executed.
func (m *Monitor) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	controller, tr, err := m.openController(logger, rawLogger)
	if err != nil {
		return err
	}
	defer func() { _ = psx.CloseTransport(tr) }()

	// Interactive quit when we own a terminal; otherwise run until signalled.
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Println("monitoring, press q + enter to quit")
		go func() {
			buf := make([]byte, 1)
			for {
				if _, err := os.Stdin.Read(buf); err != nil {
					return
				}
				if buf[0] == 'q' || buf[0] == 'Q' {
					stop()
					return
				}
			}
		}()
	}

	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	wasConnected := false
	var lastLX, lastLY, lastRX, lastRY uint8 = psx.StickNeutral, psx.StickNeutral, psx.StickNeutral, psx.StickNeutral

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		events := controller.Update()

		if connected := controller.IsConnected(); connected != wasConnected {
			wasConnected = connected
			if connected {
				logger.Info("controller connected", "type", controller.Type())
			} else {
				logger.Warn("controller disconnected")
			}
		}

		for _, e := range events {
			fmt.Println(e)
		}

		if m.Analog && wasConnected && controller.Type().HasSticks() {
			lx, ly := controller.AnalogLeft()
			rx, ry := controller.AnalogRight()
			if lx != lastLX || ly != lastLY || rx != lastRX || ry != lastRY {
				lastLX, lastLY, lastRX, lastRY = lx, ly, rx, ry
				fmt.Printf("analog L=(%d,%d) R=(%d,%d)\n", lx, ly, rx, ry)
			}
		}
	}
}
