package auth_test

import (
	"bufio"
	"net"
	"testing"

	"github.com/Alia5/PSXPAD/apitypes"
	"github.com/Alia5/PSXPAD/internal/server/auth"
	"github.com/stretchr/testify/assert"
)

// runHandshake runs client and server halves over an in-memory pipe and
// returns both results.
func runHandshake(t *testing.T, clientKey, serverKey []byte) (clientErr, serverErr error, clientSession, serverSession []byte) {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	type result struct {
		clientNonce, serverNonce []byte
		err                      error
	}
	serverCh := make(chan result, 1)
	go func() {
		r := bufio.NewReader(serverConn)
		cn, sn, err := auth.HandleAuthHandshake(r, serverConn, serverKey, false)
		serverCh <- result{cn, sn, err}
	}()

	r := bufio.NewReader(clientConn)
	cn, sn, err := auth.HandleAuthHandshake(r, clientConn, clientKey, true)
	srv := <-serverCh

	if err == nil {
		clientSession = auth.DeriveSessionKey(clientKey, sn, cn)
	}
	if srv.err == nil {
		serverSession = auth.DeriveSessionKey(serverKey, srv.serverNonce, srv.clientNonce)
	}
	return err, srv.err, clientSession, serverSession
}

func TestHandshakeMatchingKeys(t *testing.T) {
	key, err := auth.DeriveKey("pads123")
	assert.NoError(t, err)

	clientErr, serverErr, clientSession, serverSession := runHandshake(t, key, key)
	assert.NoError(t, clientErr)
	assert.NoError(t, serverErr)
	assert.Len(t, clientSession, 32)
	assert.Equal(t, serverSession, clientSession)
}

func TestHandshakeWrongPassword(t *testing.T) {
	serverKey, err := auth.DeriveKey("pads123")
	assert.NoError(t, err)
	clientKey, err := auth.DeriveKey("wrong")
	assert.NoError(t, err)

	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	serverCh := make(chan error, 1)
	go func() {
		r := bufio.NewReader(serverConn)
		_, _, err := auth.HandleAuthHandshake(r, serverConn, serverKey, false)
		if err != nil {
			// The server reports the rejection the same way the stream
			// server does: problem+json followed by close.
			streamErr, ok := err.(*apitypes.StreamError)
			if assert.True(t, ok) {
				assert.Equal(t, 401, streamErr.Status)
			}
		}
		serverCh <- err
		serverConn.Close()
	}()

	r := bufio.NewReader(clientConn)
	_, _, clientErr := auth.HandleAuthHandshake(r, clientConn, clientKey, true)
	assert.Error(t, clientErr)
	assert.Error(t, <-serverCh)
}

func TestHandshakeMissingKey(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	r := bufio.NewReader(clientConn)
	_, _, err := auth.HandleAuthHandshake(r, clientConn, nil, true)
	assert.ErrorContains(t, err, "missing key")
}
