package sealer

import (
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	s, err := New("")
	if err != nil {
		t.Fatalf("failed to create sealer: %v", err)
	}

	token, err := s.CreateInvitationToken("65a0b1c2d3e4f5a6b7c8d9e0", "friend-1")
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}

	bookingID, userID, err := s.ParseInvitationToken(token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if bookingID != "65a0b1c2d3e4f5a6b7c8d9e0" || userID != "friend-1" {
		t.Errorf("round trip returned (%s, %s)", bookingID, userID)
	}
}

func TestTokensAreUnique(t *testing.T) {
	s, err := New("")
	if err != nil {
		t.Fatalf("failed to create sealer: %v", err)
	}

	a, _ := s.CreateInvitationToken("booking", "user")
	b, _ := s.CreateInvitationToken("booking", "user")
	if a == b {
		t.Error("tokens for the same payload must differ by nonce")
	}
}

func TestParse_Rejections(t *testing.T) {
	s, err := New("")
	if err != nil {
		t.Fatalf("failed to create sealer: %v", err)
	}

	token, err := s.CreateInvitationToken("booking", "user")
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}

	// Flip the first character so the nonce no longer matches.
	flipped := byte('A')
	if token[0] == 'A' {
		flipped = 'B'
	}
	tampered := string(flipped) + token[1:]

	tests := []struct {
		name  string
		token string
	}{
		{"garbage encoding", "not%valid%base64"},
		{"too short", "AAAA"},
		{"tampered ciphertext", tampered},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := s.ParseInvitationToken(tt.token); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParse_WrongKey(t *testing.T) {
	mint, err := New("")
	if err != nil {
		t.Fatalf("failed to create sealer: %v", err)
	}
	// Same length, different key bytes.
	other, err := New(strings.Repeat("A", 43) + "=")
	if err != nil {
		t.Fatalf("failed to create second sealer: %v", err)
	}

	token, err := mint.CreateInvitationToken("booking", "user")
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}

	if _, _, err := other.ParseInvitationToken(token); err == nil {
		t.Error("a token must not open under a different key")
	}
}

func TestNew_BadKeys(t *testing.T) {
	if _, err := New("not base64!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	if _, err := New("c2hvcnQ="); err == nil {
		t.Error("expected error for a key with invalid length")
	}
}
