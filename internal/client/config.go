// Package client is a Go client for the scoring API: it signs envelopes,
// calls methods, drives concurrent load and renders results as tables.
package client

import (
	"runtime"
	"time"

	"github.com/okian/scoring/internal/domain/auth"
)

// Defaults used by DefaultConfig.
const (
	DefaultBaseURL = "http://localhost:8080"
	DefaultAccount = "horns&hoofs"
	DefaultLogin   = "h&f"
	DefaultTimeout = 10 * time.Second
)

// Config holds caller identity and transport settings.
type Config struct {
	BaseURL    string        // Base URL of the service
	Account    string        // Envelope account
	Login      string        // Envelope login
	Salt       string        // User token salt
	AdminLogin string        // Login treated as admin
	AdminSalt  string        // Admin token salt
	Timeout    time.Duration // HTTP request timeout
}

// DefaultConfig returns a Config matching the service defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		Account:    DefaultAccount,
		Login:      DefaultLogin,
		Salt:       auth.DefaultSalt,
		AdminLogin: auth.DefaultAdminLogin,
		AdminSalt:  auth.DefaultAdminSalt,
		Timeout:    DefaultTimeout,
	}
}

// LoadConfig drives a concurrent load run.
type LoadConfig struct {
	Requests int    // Total number of calls
	Workers  int    // Number of concurrent workers
	Method   string // online_score, clients_interests or empty for a mix
	MaxID    int    // Highest client id used by clients_interests calls
}

// DefaultLoadConfig returns a modest mixed load.
func DefaultLoadConfig() LoadConfig {
	return LoadConfig{
		Requests: 1000,
		Workers:  runtime.NumCPU() * workerMultiplier,
		MaxID:    defaultMaxID,
	}
}

const (
	workerMultiplier = 2
	defaultMaxID     = 100
)
