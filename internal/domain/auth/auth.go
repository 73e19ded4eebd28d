// Package auth verifies caller tokens.
package auth

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/okian/scoring/internal/domain/model"
)

// Defaults for the credential material.
const (
	DefaultSalt       = "Otus"
	DefaultAdminLogin = "admin"
	DefaultAdminSalt  = "42"

	// hourLayout renders the current hour as YYYYMMDDHH.
	hourLayout = "2006010215"
)

// Option configures a Checker.
type Option func(*Checker)

// WithSalt sets the salt of user tokens.
func WithSalt(salt string) Option {
	return func(c *Checker) {
		c.salt = salt
	}
}

// WithAdminSalt sets the salt of admin tokens.
func WithAdminSalt(salt string) Option {
	return func(c *Checker) {
		c.adminSalt = salt
	}
}

// WithAdminLogin sets the login treated as admin.
func WithAdminLogin(login string) Option {
	return func(c *Checker) {
		if login != "" {
			c.adminLogin = login
		}
	}
}

// WithClock overrides the time source used for admin tokens.
func WithClock(now func() time.Time) Option {
	return func(c *Checker) {
		if now != nil {
			c.now = now
		}
	}
}

// Checker computes and verifies tokens.
type Checker struct {
	salt       string
	adminSalt  string
	adminLogin string
	now        func() time.Time
}

// NewChecker creates a checker with the given options.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		salt:       DefaultSalt,
		adminSalt:  DefaultAdminSalt,
		adminLogin: DefaultAdminLogin,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsAdmin reports whether login is the admin login.
func (c *Checker) IsAdmin(login string) bool {
	return login == c.adminLogin
}

// ExpectedToken returns the token the envelope must carry right now.
func (c *Checker) ExpectedToken(env model.Envelope) string {
	if c.IsAdmin(env.Login) {
		return AdminToken(c.now(), c.adminSalt)
	}
	return UserToken(env.Account, env.Login, c.salt)
}

// Authenticate reports whether env carries the expected token. The comparison
// is exact and case sensitive.
func (c *Checker) Authenticate(env model.Envelope) bool {
	expected := c.ExpectedToken(env)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(env.Token)) == 1
}

// UserToken is the SHA-512 hex digest of account+login+salt.
func UserToken(account, login, salt string) string {
	return digest(account + login + salt)
}

// AdminToken is the SHA-512 hex digest of the hour of at (YYYYMMDDHH) plus the
// admin salt. It changes at every hour boundary.
func AdminToken(at time.Time, adminSalt string) string {
	return digest(at.Format(hourLayout) + adminSalt)
}

func digest(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}
