package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// DefaultKey is the development fallback. Production sets SEALER_KEY.
const DefaultKey = "tqYn0hQdLkNAkzH2cVV3Zq7p4m1xJ9sUfB6iR8wEgAo="

// Sealer mints and opens opaque invitation tokens. The token carries
// the booking id and invitee id so an invitation link can be answered
// without an authenticated session.
type Sealer struct {
	aead cipher.AEAD
}

func New(base64Key string) (*Sealer, error) {
	if base64Key == "" {
		base64Key = DefaultKey
	}

	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return nil, fmt.Errorf("sealer key is not valid base64: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("sealer key has invalid length: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Sealer{aead: aead}, nil
}

func (s *Sealer) CreateInvitationToken(bookingID, userID string) (string, error) {
	plaintext := []byte(bookingID + ":" + userID)

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ct := s.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

func (s *Sealer) ParseInvitationToken(token string) (string, string, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", "", fmt.Errorf("invalid token encoding")
	}

	nonceSize := s.aead.NonceSize()
	if len(data) <= nonceSize {
		return "", "", fmt.Errorf("invalid token length")
	}

	nonce := data[:nonceSize]
	ciphertext := data[nonceSize:]

	pt, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", "", fmt.Errorf("token verification failed")
	}

	parts := strings.SplitN(string(pt), ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid token format")
	}

	return parts[0], parts[1], nil
}
