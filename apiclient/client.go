// Package apiclient connects to a psxpad stream server and decodes its
// event stream.
package apiclient

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/Alia5/PSXPAD/apitypes"
	"github.com/Alia5/PSXPAD/internal/server/auth"
)

// Client dials a stream server. The zero Timeout means no dial timeout.
type Client struct {
	addr     string
	password string
	Timeout  time.Duration
}

// New creates a client for the given address and password.
func New(addr, password string) *Client {
	return &Client{addr: addr, password: password, Timeout: 10 * time.Second}
}

// Stream is one authenticated, decrypted subscription.
type Stream struct {
	conn    net.Conn
	decoder *json.Decoder
}

// Connect dials, authenticates and returns the decrypted stream. The first
// message on the wire is the server's hello, returned alongside the stream.
func (c *Client) Connect(ctx context.Context) (*Stream, apitypes.StreamMessage, error) {
	var hello apitypes.StreamMessage

	key, err := auth.DeriveKey(c.password)
	if err != nil {
		return nil, hello, fmt.Errorf("derive key: %w", err)
	}

	d := net.Dialer{Timeout: c.Timeout}
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, hello, err
	}

	r := bufio.NewReader(conn)
	clientNonce, serverNonce, err := auth.HandleAuthHandshake(r, conn, key, true)
	if err != nil {
		_ = conn.Close()
		return nil, hello, fmt.Errorf("handshake: %w", err)
	}

	sessionKey := auth.DeriveSessionKey(key, serverNonce, clientNonce)
	enc, err := auth.WrapConn(conn, sessionKey)
	if err != nil {
		_ = conn.Close()
		return nil, hello, err
	}

	s := &Stream{conn: enc, decoder: json.NewDecoder(enc)}
	if err := s.decoder.Decode(&hello); err != nil {
		_ = conn.Close()
		return nil, hello, fmt.Errorf("read hello: %w", err)
	}
	if hello.Type != apitypes.MessageHello {
		_ = conn.Close()
		return nil, hello, fmt.Errorf("unexpected first message %q", hello.Type)
	}
	return s, hello, nil
}

// Next blocks until the server pushes the next message.
func (s *Stream) Next() (apitypes.StreamMessage, error) {
	var msg apitypes.StreamMessage
	err := s.decoder.Decode(&msg)
	return msg, err
}

// SetReadDeadline bounds the next Next call.
func (s *Stream) SetReadDeadline(t time.Time) error {
	return s.conn.SetReadDeadline(t)
}

// Close tears down the connection.
func (s *Stream) Close() error {
	return s.conn.Close()
}
