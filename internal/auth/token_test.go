package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestTokenService() *TokenService {
	return NewTokenService([]byte("test-secret"), 30*time.Minute)
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestTokenService()

	for _, subject := range []string{"u1", "141add05-4415-4938-b5a1-17e0d3171aff", "42"} {
		tok, err := s.Issue(subject)
		if err != nil {
			t.Fatalf("Issue(%q): %v", subject, err)
		}
		got, err := s.Verify(tok)
		if err != nil {
			t.Fatalf("Verify(Issue(%q)): %v", subject, err)
		}
		if got != subject {
			t.Fatalf("Verify = %q; want %q", got, subject)
		}
	}
}

func TestTokenExpiry(t *testing.T) {
	s := newTestTokenService()
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return t0 }

	tok, err := s.IssueWithTTL("u1", 10*time.Minute)
	if err != nil {
		t.Fatalf("IssueWithTTL: %v", err)
	}

	// Still valid just before the boundary.
	s.Now = func() time.Time { return t0.Add(9 * time.Minute) }
	if _, err := s.Verify(tok); err != nil {
		t.Fatalf("Verify before expiry: %v", err)
	}

	// Invalid after the window elapses.
	s.Now = func() time.Time { return t0.Add(11 * time.Minute) }
	if _, err := s.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify after expiry = %v; want ErrInvalidToken", err)
	}
}

func TestTokenTamperIsUniformlyInvalid(t *testing.T) {
	s := newTestTokenService()
	tok, err := s.Issue("u1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Flip one character in each segment; every corruption must yield the
	// same outcome as an expired token.
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(parts))
	}
	for i := range parts {
		mutated := make([]string, 3)
		copy(mutated, parts)
		seg := []byte(mutated[i])
		mid := len(seg) / 2
		if seg[mid] == 'A' {
			seg[mid] = 'B'
		} else {
			seg[mid] = 'A'
		}
		mutated[i] = string(seg)

		if _, err := s.Verify(strings.Join(mutated, ".")); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("segment %d tampered: err = %v; want ErrInvalidToken", i, err)
		}
	}
}

func TestTokenWrongSecret(t *testing.T) {
	s := newTestTokenService()
	tok, err := s.Issue("u1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other := NewTokenService([]byte("a-different-secret"), 30*time.Minute)
	if _, err := other.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify with wrong secret = %v; want ErrInvalidToken", err)
	}
}

func TestTokenGarbageInput(t *testing.T) {
	s := newTestTokenService()
	for _, tok := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		if _, err := s.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Verify(%q) = %v; want ErrInvalidToken", tok, err)
		}
	}
}

func TestIssueDefaultTTLFallback(t *testing.T) {
	s := NewTokenService([]byte("k"), 0)
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return t0 }

	tok, err := s.Issue("u1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Default window is 30 minutes; 29 minutes in it still verifies.
	s.Now = func() time.Time { return t0.Add(29 * time.Minute) }
	if _, err := s.Verify(tok); err != nil {
		t.Fatalf("Verify inside default TTL: %v", err)
	}
	s.Now = func() time.Time { return t0.Add(31 * time.Minute) }
	if _, err := s.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify outside default TTL = %v; want ErrInvalidToken", err)
	}
}
