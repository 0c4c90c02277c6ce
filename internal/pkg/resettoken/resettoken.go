// Package resettoken builds stateless password-reset tokens.
//
// A token is "<base36 unix timestamp>-<hex hmac>". The HMAC covers the user's
// id, password hash, last login, email and the timestamp, so any of those
// changing invalidates every outstanding token.
package resettoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const keySalt = "artflight.auth.password_reset"

// Subject is the mutable user state a token is bound to.
type Subject struct {
	ID           uint
	Email        string
	PasswordHash string
	LastLogin    *time.Time
}

type Generator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewGenerator(secret string, ttl time.Duration) *Generator {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &Generator{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

func (g *Generator) Make(s Subject) string {
	return g.makeAt(s, g.now().Unix())
}

// Check reports whether token is valid for s and younger than the TTL.
func (g *Generator) Check(s Subject, token string) bool {
	tsPart, _, ok := strings.Cut(token, "-")
	if !ok || tsPart == "" {
		return false
	}
	ts, err := strconv.ParseInt(tsPart, 36, 64)
	if err != nil || ts < 0 {
		return false
	}

	expected := g.makeAt(s, ts)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(token)) != 1 {
		return false
	}

	age := g.now().Sub(time.Unix(ts, 0))
	return age >= 0 && age <= g.ttl
}

func (g *Generator) makeAt(s Subject, ts int64) string {
	key := sha256.Sum256(append([]byte(keySalt), g.secret...))
	mac := hmac.New(sha256.New, key[:])

	lastLogin := ""
	if s.LastLogin != nil {
		lastLogin = s.LastLogin.UTC().Truncate(time.Second).Format(time.RFC3339)
	}
	fmt.Fprintf(mac, "%d|%s|%s|%d|%s", s.ID, s.PasswordHash, lastLogin, ts, s.Email)

	return strconv.FormatInt(ts, 36) + "-" + hex.EncodeToString(mac.Sum(nil))
}
