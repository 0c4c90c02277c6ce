package resettoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGenerator_RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	gen := NewGenerator("secret", 72*time.Hour).WithClock(fixedClock(now))
	subject := Subject{ID: 7, Email: "ann@example.com", PasswordHash: "hash-1"}

	token := gen.Make(subject)

	assert.True(t, gen.Check(subject, token))
	assert.Contains(t, token, "-")
}

func TestGenerator_InvalidatedByStateChange(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	gen := NewGenerator("secret", 72*time.Hour).WithClock(fixedClock(now))
	subject := Subject{ID: 7, Email: "ann@example.com", PasswordHash: "hash-1"}
	token := gen.Make(subject)

	login := now.Add(time.Minute)
	tests := []struct {
		name   string
		mutate func(s Subject) Subject
	}{
		{"password changed", func(s Subject) Subject { s.PasswordHash = "hash-2"; return s }},
		{"logged in", func(s Subject) Subject { s.LastLogin = &login; return s }},
		{"email changed", func(s Subject) Subject { s.Email = "other@example.com"; return s }},
		{"other user", func(s Subject) Subject { s.ID = 8; return s }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, gen.Check(tt.mutate(subject), token))
		})
	}
}

func TestGenerator_Expiry(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	subject := Subject{ID: 1, Email: "a@b.co", PasswordHash: "h"}
	token := NewGenerator("secret", time.Hour).WithClock(fixedClock(issued)).Make(subject)

	within := NewGenerator("secret", time.Hour).WithClock(fixedClock(issued.Add(59 * time.Minute)))
	after := NewGenerator("secret", time.Hour).WithClock(fixedClock(issued.Add(61 * time.Minute)))

	assert.True(t, within.Check(subject, token))
	assert.False(t, after.Check(subject, token))
}

func TestGenerator_Malformed(t *testing.T) {
	gen := NewGenerator("secret", time.Hour)
	subject := Subject{ID: 1, Email: "a@b.co", PasswordHash: "h"}
	other := NewGenerator("another-secret", time.Hour).Make(subject)

	for _, token := range []string{"", "-", "abc", "zz!-deadbeef", other} {
		assert.False(t, gen.Check(subject, token), token)
	}
}
