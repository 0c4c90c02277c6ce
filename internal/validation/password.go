// Package validation holds input rules shared by the HTTP layer and the CLI.
package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {},
	"123456789": {}, "1234567890": {}, "qwerty123": {}, "qwertyuiop": {},
	"iloveyou": {}, "sunshine": {}, "princess": {}, "football": {},
	"baseball": {}, "welcome1": {}, "admin123": {}, "letmein1": {},
	"abc12345": {}, "trustno1": {}, "passw0rd": {}, "superman": {},
	"11111111": {}, "00000000": {}, "dragon123": {}, "monkey123": {},
	"starwars": {}, "whatever": {}, "computer": {}, "internet": {},
	"changeme": {}, "qwerty12": {},
}

// ValidatePassword applies the password policy. attrs are user attributes
// (email local part, username) the password must not resemble.
func ValidatePassword(password string, attrs ...string) error {
	n := utf8.RuneCountInString(password)
	if n < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}
	if n > MaxPasswordLength {
		return fmt.Errorf("password must not exceed %d characters", MaxPasswordLength)
	}

	if strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		return errors.New("password is entirely numeric")
	}

	lower := strings.ToLower(password)
	if _, ok := commonPasswords[lower]; ok {
		return errors.New("password is too common")
	}

	for _, attr := range attrs {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if utf8.RuneCountInString(attr) < 3 {
			continue
		}
		if strings.Contains(lower, attr) || strings.Contains(attr, lower) {
			return errors.New("password is too similar to your account details")
		}
	}
	return nil
}

// NormalizeEmail lower-cases and validates an address.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", errors.New("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", errors.New("enter a valid email address")
	}
	return email, nil
}

// EmailLocalPart returns the part before '@'.
func EmailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// ValidateUsername accepts up to 150 letters, digits and @.+-_ characters.
// UsernameFromEmail derives a username from the email local part, dropping
// characters ValidateUsername would reject. An empty result becomes "user".
func UsernameFromEmail(email string) string {
	var b strings.Builder
	for _, r := range EmailLocalPart(email) {
		if isUsernameRune(r) {
			b.WriteRune(r)
		}
	}
	username := b.String()
	if username == "" {
		return "user"
	}
	return username
}

func ValidateUsername(username string) error {
	if username == "" {
		return errors.New("username is required")
	}
	if utf8.RuneCountInString(username) > 150 {
		return errors.New("username must not exceed 150 characters")
	}
	for _, r := range username {
		if isUsernameRune(r) {
			continue
		}
		return errors.New("username may contain only letters, numbers, and @/./+/-/_ characters")
	}
	return nil
}

func isUsernameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("@.+-_", r)
}
