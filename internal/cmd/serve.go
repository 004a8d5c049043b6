package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"

	"github.com/Alia5/PSXPAD/internal/configpaths"
	"github.com/Alia5/PSXPAD/internal/log"
	"github.com/Alia5/PSXPAD/internal/server/auth"
	"github.com/Alia5/PSXPAD/internal/server/stream"
	"github.com/Alia5/PSXPAD/psx"
)

const keyFileName = "psxpad.key.txt"

type Serve struct {
	BackendFlags `embed:""`

	StreamConfig stream.ServerConfig `embed:"" prefix:"stream."`
}

// Run is called by kong when the serve command is executed.
func (s *Serve) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.StartServer(ctx, logger, rawLogger)
}

func (s *Serve) StartServer(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	if s.StreamConfig.Password == "" {
		pwd, err := loadOrCreateKey(logger)
		if err != nil {
			return err
		}
		s.StreamConfig.Password = pwd
	}

	controller, tr, err := s.openController(logger, rawLogger)
	if err != nil {
		return err
	}
	defer func() { _ = psx.CloseTransport(tr) }()

	srv := stream.New(s.StreamConfig, controller, logger)
	if err := srv.Start(); err != nil {
		return err
	}
	defer srv.Close()

	logger.Info("psxpad serving controller events", "addr", srv.Addr(), "backend", s.Backend)

	<-ctx.Done()
	return nil
}

// loadOrCreateKey reads the stream password from the config dir, generating
// and persisting a fresh one on first run.
func loadOrCreateKey(logger *slog.Logger) (string, error) {
	keyFileDir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve key file path: %w", err)
	}
	keyFilePath := path.Join(keyFileDir, keyFileName)
	if pwd, err := os.ReadFile(keyFilePath); err == nil {
		return strings.TrimSpace(string(pwd)), nil
	}

	newPwd, err := auth.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate new stream password: %w", err)
	}
	if err := os.MkdirAll(keyFileDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config dir for key file: %w", err)
	}
	if err := os.WriteFile(keyFilePath, []byte(newPwd), 0o600); err != nil {
		return "", fmt.Errorf("failed to write new stream password to file: %w", err)
	}
	logger.Info("Generated stream password", "path", keyFilePath)
	logger.Info("-------------------------------------")
	logger.Info("Your psxpad stream password is:")
	logger.Info("-------------------------------------")
	logger.Info(newPwd)
	logger.Info("-------------------------------------")
	logger.Info("You can change this password at any time by editing the file")
	return newPwd, nil
}
