// Package config centralizes simulation engine and server configuration.
package config

import "time"

// Config holds engine configuration.
// All configuration options are centralized here for easy management and validation.
type Config struct {
	// Resource limits on workspace documents
	MaxPayloadSize int // Maximum size of a workspace document (bytes)
	MaxNodes       int // Maximum number of nodes in a workspace
	MaxEdges       int // Maximum number of edges in a workspace
	MaxActions     int // Maximum number of actions in a workspace

	// History retention
	MaxHistoryEvents int // Maximum retained history events (0 = unbounded)

	// HTTP surface
	AllowedOrigin   string        // Single development origin allowed by CORS
	ReadTimeout     time.Duration // HTTP read timeout
	WriteTimeout    time.Duration // HTTP write timeout
	ShutdownTimeout time.Duration // Graceful shutdown timeout
}

// Default returns a Config with production-ready default values.
func Default() *Config {
	return &Config{
		MaxPayloadSize:   10 * 1024 * 1024, // 10MB
		MaxNodes:         10000,
		MaxEdges:         50000,
		MaxActions:       1000,
		MaxHistoryEvents: 0, // unbounded
		AllowedOrigin:    "http://localhost:5173",
		ReadTimeout:      30 * time.Second,
		WriteTimeout:     30 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// Development returns a Config for local work. Its values equal Default's,
// including unbounded history retention.
func Development() *Config {
	cfg := Default()
	cfg.MaxHistoryEvents = 0
	return cfg
}

// Testing returns a Config with small limits suitable for tests.
func Testing() *Config {
	cfg := Default()
	cfg.MaxNodes = 100
	cfg.MaxEdges = 500
	cfg.MaxActions = 50
	cfg.ReadTimeout = 5 * time.Second
	cfg.WriteTimeout = 5 * time.Second
	return cfg
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if c.MaxPayloadSize < 0 {
		return ErrInvalidPayloadSize
	}
	if c.MaxNodes < 0 {
		return ErrInvalidMaxNodes
	}
	if c.MaxEdges < 0 {
		return ErrInvalidMaxEdges
	}
	if c.MaxActions < 0 {
		return ErrInvalidMaxActions
	}
	if c.MaxHistoryEvents < 0 {
		return ErrInvalidHistoryCap
	}
	return nil
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
