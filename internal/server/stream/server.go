// Package stream serves decoded controller events over TCP. Connections
// authenticate with the HMAC handshake and are wrapped in ChaCha20-Poly1305
// framing; after that the server pushes newline-delimited JSON messages.
package stream

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/Alia5/PSXPAD/apitypes"
	"github.com/Alia5/PSXPAD/internal/server/auth"
	"github.com/Alia5/PSXPAD/psx"
)

// Version is reported in the hello message.
const Version = "0.1.0"

type ServerConfig struct {
	Addr     string        `help:"Stream listen address" default:":3252" env:"PSXPAD_STREAM_ADDR"`
	Password string        `help:"Stream password; generated and stored in the config dir when empty" env:"PSXPAD_STREAM_PASSWORD"`
	Interval time.Duration `help:"Controller polling interval" default:"10ms" env:"PSXPAD_POLL_INTERVAL"`
}

// Server owns one controller and fans its events out to subscribers. The
// controller itself is only ever touched from the single poll loop; the
// driver stays single-threaded.
type Server struct {
	cfg        ServerConfig
	controller *psx.Controller
	logger     *slog.Logger
	ln         net.Listener
	key        []byte

	mu     sync.Mutex
	subs   map[chan apitypes.StreamMessage]struct{}
	closed bool
	// typ is the hello/status snapshot of the negotiated controller type,
	// maintained by the poll loop so connection goroutines never touch the
	// controller itself.
	typ string

	done chan struct{}
}

// New creates a stream server around an already negotiable controller.
func New(cfg ServerConfig, controller *psx.Controller, logger *slog.Logger) *Server {
	return &Server{
		cfg:        cfg,
		controller: controller,
		logger:     logger,
		subs:       make(map[chan apitypes.StreamMessage]struct{}),
		done:       make(chan struct{}),
	}
}

// Start derives the session key, binds the listener and launches the accept
// and poll loops.
func (s *Server) Start() error {
	key, err := auth.DeriveKey(s.cfg.Password)
	if err != nil {
		return fmt.Errorf("derive stream key: %w", err)
	}
	s.key = key
	s.typ = s.controller.Type().String()

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.logger.Info("stream listening", "addr", ln.Addr().String())
	go s.serve()
	go s.pollLoop()
	return nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.cfg.Addr
	}
	return s.ln.Addr().String()
}

// Close stops the server and disconnects all subscribers.
func (s *Server) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for ch := range s.subs {
		close(ch)
	}
	s.subs = nil
	s.mu.Unlock()

	close(s.done)
	if s.ln != nil {
		_ = s.ln.Close()
	}
}

func (s *Server) serve() {
	for {
		c, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || strings.Contains(strings.ToLower(err.Error()), "use of closed network connection") {
				s.logger.Info("stream server stopped")
				return
			}
			s.logger.Info("stream accept error", "error", err)
			return
		}
		go s.handleConn(c)
	}
}

// pollLoop is the only goroutine that touches the controller. It runs one
// polling cycle per tick and broadcasts the derived messages.
func (s *Server) pollLoop() {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	wasConnected := s.controller.IsConnected()
	var lastLX, lastLY, lastRX, lastRY uint8 = psx.StickNeutral, psx.StickNeutral, psx.StickNeutral, psx.StickNeutral

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}

		events := s.controller.Update()

		if connected := s.controller.IsConnected(); connected != wasConnected {
			wasConnected = connected
			typ := s.controller.Type().String()
			s.setControllerType(typ)
			s.broadcast(apitypes.Status(connected, typ))
		}
		for _, e := range events {
			s.broadcast(apitypes.Event(e.Button.String(), e.Pressed))
		}
		if wasConnected {
			lx, ly := s.controller.AnalogLeft()
			rx, ry := s.controller.AnalogRight()
			if lx != lastLX || ly != lastLY || rx != lastRX || ry != lastRY {
				lastLX, lastLY, lastRX, lastRY = lx, ly, rx, ry
				s.broadcast(apitypes.Analog(lx, ly, rx, ry))
			}
		}
	}
}

func (s *Server) setControllerType(typ string) {
	s.mu.Lock()
	s.typ = typ
	s.mu.Unlock()
}

func (s *Server) controllerType() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typ
}

func (s *Server) subscribe() chan apitypes.StreamMessage {
	ch := make(chan apitypes.StreamMessage, 64)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch
	}
	s.subs[ch] = struct{}{}
	return ch
}

func (s *Server) unsubscribe(ch chan apitypes.StreamMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(ch)
	}
}

// broadcast delivers to every subscriber, dropping messages for slow readers
// rather than stalling the poll loop.
func (s *Server) broadcast(msg apitypes.StreamMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (s *Server) writeError(w io.Writer, err error) {
	streamErr := &apitypes.StreamError{}
	if !errors.As(err, &streamErr) {
		streamErr = &apitypes.StreamError{Status: 500, Title: "Internal Server Error", Detail: err.Error()}
	}
	problemJSON, _ := json.Marshal(streamErr)
	fmt.Fprintf(w, "%s\n", string(problemJSON))
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	connLogger := s.logger.With("remote", conn.RemoteAddr().String())

	r := bufio.NewReader(conn)
	clientNonce, serverNonce, err := auth.HandleAuthHandshake(r, conn, s.key, false)
	if err != nil {
		connLogger.Warn("stream handshake failed", "error", err)
		s.writeError(conn, err)
		return
	}

	sessionKey := auth.DeriveSessionKey(s.key, serverNonce, clientNonce)
	enc, err := auth.WrapConn(conn, sessionKey)
	if err != nil {
		connLogger.Error("wrap connection", "error", err)
		return
	}

	sub := s.subscribe()
	defer s.unsubscribe(sub)
	connLogger.Info("stream subscriber connected")

	encoder := json.NewEncoder(enc)
	if err := encoder.Encode(apitypes.Hello(Version, s.controllerType())); err != nil {
		return
	}
	for msg := range sub {
		if err := encoder.Encode(msg); err != nil {
			connLogger.Debug("stream subscriber dropped", "error", err)
			return
		}
	}
}
