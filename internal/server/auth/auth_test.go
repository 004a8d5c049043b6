package auth_test

import (
	"errors"
	"testing"

	"github.com/Alia5/PSXPAD/internal/server/auth"
	"github.com/stretchr/testify/assert"
)

func TestGenKey(t *testing.T) {

	key, err := auth.GenerateKey()
	assert.NoError(t, err)
	assert.Len(t, key, auth.AutoGenKeyLength)
	assert.Regexp(t, "^[0-9A-Za-z]{16}$", key)

}

func TestDeriveKey(t *testing.T) {

	type testCase struct {
		name        string
		password    string
		expectedKey []byte
		expectedErr error
	}

	testCases := []testCase{
		{
			name:        "normal password",
			password:    "pads123",
			expectedKey: []byte{0xbd, 0x1e, 0xb0, 0x2, 0xba, 0x4d, 0x6b, 0x3a, 0x1f, 0x58, 0x53, 0x4, 0x2c, 0x88, 0x68, 0xf7, 0x58, 0x3b, 0x32, 0xbe, 0xe0, 0x39, 0xc3, 0x44, 0x5, 0x21, 0x5, 0xe5, 0xd4, 0x14, 0xc4, 0xcb},
		},
		{
			name:        "single char password",
			password:    "1",
			expectedKey: []byte{0x2f, 0xe2, 0x90, 0x11, 0xea, 0x6c, 0xb2, 0x73, 0x76, 0x63, 0xd6, 0xcc, 0xbf, 0x3a, 0xe2, 0xef, 0xd, 0x74, 0x2, 0x88, 0x5d, 0x83, 0x97, 0x9e, 0x79, 0xd6, 0xb7, 0xe7, 0xe6, 0x3a, 0x82, 0xa4},
		},
		{
			name:        "empty password",
			password:    "",
			expectedKey: []byte{},
			expectedErr: errors.New("Password cannot be empty"),
		},
		{
			name:        "passphrase",
			password:    "correct horse battery staple",
			expectedKey: []byte{0xca, 0xe8, 0xfd, 0x4b, 0x98, 0xcd, 0x62, 0x2, 0xf1, 0x1e, 0xed, 0xd2, 0xcf, 0xa7, 0x31, 0xa6, 0x8, 0xc3, 0x95, 0xe0, 0x94, 0xb7, 0x80, 0x9f, 0x34, 0x89, 0x86, 0x6d, 0x97, 0x35, 0xb3, 0x65},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			derivedKey, err := auth.DeriveKey(tc.password)
			if tc.expectedErr != nil {
				assert.Equal(t, tc.expectedErr, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedKey, derivedKey)
		})
	}
}

func TestDeriveSessionKey(t *testing.T) {
	key := make([]byte, 32)
	serverNonce := make([]byte, 32)
	clientNonce := make([]byte, 32)

	for i := range key {
		key[i] = byte(i)
		serverNonce[i] = byte(i + 10)
		clientNonce[i] = byte(i + 20)
	}

	sessionKey := auth.DeriveSessionKey(key, serverNonce, clientNonce)
	assert.Len(t, sessionKey, 32)

	sessionKey2 := auth.DeriveSessionKey(key, serverNonce, clientNonce)
	assert.Equal(t, sessionKey, sessionKey2)

	serverNonce[0] = 99
	sessionKey3 := auth.DeriveSessionKey(key, serverNonce, clientNonce)
	assert.NotEqual(t, sessionKey, sessionKey3)
}
