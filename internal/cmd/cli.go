// Package cmd holds the kong command structs of the psxpad CLI, one file per
// subcommand.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/Alia5/PSXPAD/internal/log"
	"github.com/Alia5/PSXPAD/psx"
)

// CLI is the root command tree parsed by kong.
type CLI struct {
	ConfigFile string   `name:"config" help:"Path to config file" env:"PSXPAD_CONFIG"`
	Log        LogFlags `embed:"" prefix:"log."`

	Monitor Monitor       `cmd:"" help:"Poll a controller and print events and analog readings"`
	Dump    Dump          `cmd:"" help:"Poll a controller and hex-dump the raw frames"`
	Serve   Serve         `cmd:"" help:"Serve controller events over the network"`
	Watch   Watch         `cmd:"" help:"Subscribe to a running psxpad server and print its events"`
	Config  ConfigCommand `cmd:"" help:"Configuration file helpers"`
}

// LogFlags mirrors the logger setup flags shared by every command.
type LogFlags struct {
	Level   string `help:"Log level (trace, debug, info, warn, error)" enum:"trace,debug,info,warn,error" default:"info" env:"PSXPAD_LOG_LEVEL"`
	File    string `help:"Log file path; stdout/stderr when empty" env:"PSXPAD_LOG_FILE"`
	RawFile string `help:"Raw frame log file path" env:"PSXPAD_RAW_LOG_FILE"`
}

// BackendFlags selects and wires a transport backend. The line defaults
// follow the usual Raspberry Pi SPI header wiring (CLK=GPIO11, CMD=MOSI,
// DAT=MISO, ATT=CE0).
type BackendFlags struct {
	Backend   string `help:"Transport backend (gpiochip, sim)" default:"gpiochip" env:"PSXPAD_BACKEND"`
	Device    string `help:"GPIO chip device path" default:"/dev/gpiochip0" env:"PSXPAD_GPIO_DEVICE"`
	Clock     int    `help:"CLK line offset" default:"11"`
	Command   int    `help:"CMD line offset" default:"10"`
	Attention int    `help:"ATT line offset" default:"8"`
	Data      int    `help:"DAT line offset" default:"9"`
	Ack       int    `help:"ACK line offset" default:"25"`

	Rumble   bool `help:"Map the rumble motors during negotiation"`
	Pressure bool `help:"Enable DualShock2 pressure-sensitive buttons"`
}

// openController opens the selected backend and builds a controller on it.
// The caller owns the returned transport and must close it via
// psx.CloseTransport.
func (b *BackendFlags) openController(logger *slog.Logger, rawLogger log.RawLogger) (*psx.Controller, psx.Transport, error) {
	tr, err := psx.OpenBackend(b.Backend, psx.BackendConfig{
		Device:        b.Device,
		ClockLine:     b.Clock,
		CommandLine:   b.Command,
		AttentionLine: b.Attention,
		DataLine:      b.Data,
		AckLine:       b.Ack,
		Frames:        rawLogger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open backend: %w", err)
	}
	controller := psx.New(tr, &psx.Options{
		EnableRumble:   b.Rumble,
		EnablePressure: b.Pressure,
		Logger:         logger,
	})
	return controller, tr, nil
}
