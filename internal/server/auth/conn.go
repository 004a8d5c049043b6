package auth

import (
	"bytes"
	"crypto/cipher"
	"encoding/binary"
	"io"
	"net"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
)

// Conn is a net.Conn carrying length-prefixed ChaCha20-Poly1305 frames:
// a 4-byte big-endian length, a 12-byte counter nonce, then the ciphertext.
type Conn struct {
	net.Conn
	aead    cipher.AEAD
	sendCtr uint64
	recvBuf bytes.Buffer
	mu      sync.Mutex
}

// Stream payloads are single JSON lines; a frame longer than this is a
// corrupt or hostile length header, not a message.
const maxFrameSize = 64 * 1024

const nonceSize = chacha20poly1305.NonceSize

func WrapConn(conn net.Conn, sessionKey []byte) (net.Conn, error) {
	aead, err := chacha20poly1305.New(sessionKey)
	if err != nil {
		return nil, err
	}
	return &Conn{Conn: conn, aead: aead}, nil
}

func (s *Conn) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frame := make([]byte, 4+nonceSize, 4+nonceSize+len(p)+s.aead.Overhead())
	binary.BigEndian.PutUint64(frame[4+nonceSize-8:], s.sendCtr)
	s.sendCtr++

	frame = s.aead.Seal(frame, frame[4:4+nonceSize], p, nil)
	binary.BigEndian.PutUint32(frame[:4], uint32(len(frame)-4))

	if _, err := s.Conn.Write(frame); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *Conn) Read(p []byte) (int, error) {
	if s.recvBuf.Len() == 0 {
		var hdr [4]byte
		if i, err := io.ReadFull(s.Conn, hdr[:]); err != nil {
			return i, err
		}
		length := binary.BigEndian.Uint32(hdr[:])
		if length < nonceSize || length > maxFrameSize {
			return 0, io.ErrUnexpectedEOF
		}

		pkt := make([]byte, length)
		if i, err := io.ReadFull(s.Conn, pkt); err != nil {
			return i, err
		}

		pt, err := s.aead.Open(nil, pkt[:nonceSize], pkt[nonceSize:], nil)
		if err != nil {
			return 0, err
		}
		s.recvBuf.Write(pt)
	}
	return s.recvBuf.Read(p)
}
