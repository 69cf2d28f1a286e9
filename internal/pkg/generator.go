package pkg

import (
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // mandated by RFC 6455
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// GenerateGameID returns a short hex code players share to join a game.
func GenerateGameID() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// GenerateNewSessionID returns an opaque identifier for a player session.
func GenerateNewSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Errorf("failed to read random bytes: %w", err))
	}

	return hex.EncodeToString(buf)
}

// GenerateAcceptKey derives the Sec-WebSocket-Accept value for a handshake
// key per RFC 6455.
func GenerateAcceptKey(key string) string {
	h := sha1.New() //nolint:gosec // mandated by RFC 6455
	h.Write([]byte(key + websocketGUID))

	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
