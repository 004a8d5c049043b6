package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"

	"github.com/Alia5/PSXPAD/apiclient"
	"github.com/Alia5/PSXPAD/apitypes"
	"github.com/Alia5/PSXPAD/internal/configpaths"
)

type Watch struct {
	Addr     string `arg:"" help:"Server address (host:port)" default:"localhost:3252"`
	Password string `help:"Stream password; falls back to the local key file" env:"PSXPAD_STREAM_PASSWORD"`
}

// Run subscribes to a running psxpad server and prints its messages.
func (w *Watch) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	password := w.Password
	if password == "" {
		if dir, err := configpaths.DefaultConfigDir(); err == nil {
			if pwd, err := os.ReadFile(path.Join(dir, keyFileName)); err == nil {
				password = strings.TrimSpace(string(pwd))
			}
		}
	}
	if password == "" {
		return errors.New("no password given and no local key file found; pass --password")
	}

	client := apiclient.New(w.Addr, password)
	streamConn, hello, err := client.Connect(ctx)
	if err != nil {
		return err
	}
	defer streamConn.Close()
	go func() {
		<-ctx.Done()
		_ = streamConn.Close()
	}()

	logger.Info("connected", "server", hello.Server, "version", hello.Version, "controller", hello.Controller)

	for {
		msg, err := streamConn.Next()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		printMessage(msg)
	}
}

func printMessage(msg apitypes.StreamMessage) {
	switch msg.Type {
	case apitypes.MessageEvent:
		action := "released"
		if msg.Pressed != nil && *msg.Pressed {
			action = "pressed"
		}
		fmt.Printf("%s %s\n", msg.Button, action)
	case apitypes.MessageAnalog:
		fmt.Printf("analog L=(%d,%d) R=(%d,%d)\n", deref(msg.LeftX), deref(msg.LeftY), deref(msg.RightX), deref(msg.RightY))
	case apitypes.MessageStatus:
		connected := msg.Connected != nil && *msg.Connected
		fmt.Printf("status connected=%t controller=%s\n", connected, msg.Controller)
	default:
		fmt.Printf("%s message\n", msg.Type)
	}
}

func deref(v *uint8) uint8 {
	if v == nil {
		return 0
	}
	return *v
}
