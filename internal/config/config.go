// Package config reads server settings from the environment, with an
// optional .env file, and watches override files for changes.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	DefaultPort          = "8080"
	DefaultContactEmail  = "peerzadagebran@gmail.com"
	defaultAdminUsername = "admin"
	defaultAdminPassword = "changeme"
)

// Config holds everything the server reads from its environment.
type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	ContactEmail string

	// Optional overrides of the embedded choreography and catalog.
	ChoreographyFile string
	ContentFile      string
	// ContentDB enables the SQLite-backed catalog and the admin editor.
	ContentDB string

	AdminUsername string
	AdminPassword string
	// DefaultCredentials is set when either admin credential fell back to
	// its development default.
	DefaultCredentials bool
}

// Load reads the given .env files (".env" when none are named; missing
// files are skipped) and then the process environment. Variables already
// set in the environment win over the files.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv), nil
}

// FromEnv builds a Config from getenv, applying defaults.
func FromEnv(getenv func(string) string) *Config {
	cfg := &Config{
		Port:             or(getenv("PORT"), DefaultPort),
		GinMode:          getenv("GIN_MODE"),
		LogLevel:         or(getenv("LOG_LEVEL"), "info"),
		ContactEmail:     or(getenv("CONTACT_EMAIL"), DefaultContactEmail),
		ChoreographyFile: getenv("CHOREOGRAPHY_FILE"),
		ContentFile:      getenv("CONTENT_FILE"),
		ContentDB:        getenv("CONTENT_DB"),
		AdminUsername:    getenv("ADMIN_USERNAME"),
		AdminPassword:    getenv("ADMIN_PASSWORD"),
	}
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = defaultAdminUsername
		cfg.DefaultCredentials = true
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = defaultAdminPassword
		cfg.DefaultCredentials = true
	}
	return cfg
}

// Addr is the listen address for Port.
func (c *Config) Addr() string { return ":" + c.Port }

// Development reports whether gin runs outside release mode.
func (c *Config) Development() bool { return c.GinMode != "release" }

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
