package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		attrs    []string
		wantErr  string
	}{
		{"valid", "Corvid-Lantern-42", []string{"ann", "ann_smith"}, ""},
		{"too short", "Ab1!x", nil, "at least 8"},
		{"too long", strings.Repeat("a1", 65), nil, "must not exceed"},
		{"numeric", "8675309123", nil, "entirely numeric"},
		{"common", "Password123", nil, "too common"},
		{"contains email local part", "annsmith-rocks", []string{"annsmith"}, "too similar"},
		{"contained in username", "longusern", []string{"alongusername"}, "too similar"},
		{"short attribute ignored", "ab-very-strong", []string{"ab"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password, tt.attrs...)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	got, err := NormalizeEmail("  Ann@Example.COM ")
	assert.NoError(t, err)
	assert.Equal(t, "ann@example.com", got)

	for _, bad := range []string{"", "ann", "ann@", "ann@localhost", "Ann <ann@example.com>"} {
		_, err := NormalizeEmail(bad)
		assert.Error(t, err, bad)
	}
}

func TestEmailLocalPart(t *testing.T) {
	assert.Equal(t, "ann", EmailLocalPart("ann@example.com"))
	assert.Equal(t, "noat", EmailLocalPart("noat"))
}

func TestUsernameFromEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"ann@example.com", "ann"},
		{"o'brien@example.com", "obrien"},
		{"a!b@example.com", "ab"},
		{"first.last+art@example.com", "first.last+art"},
		{"!#$@example.com", "user"},
	}
	for _, tt := range tests {
		got := UsernameFromEmail(tt.email)
		assert.Equal(t, tt.want, got, tt.email)
		assert.NoError(t, ValidateUsername(got))
	}
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("ann.lee+art@studio"))
	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername("has space"))
	assert.Error(t, ValidateUsername(strings.Repeat("a", 151)))
}
