package lz

import "github.com/nuclio/errors"

// Config tunes the match finder. None of the values affect correctness,
// only speed and ratio.
type Config struct {

	// bytes hashed per lookup key, 2 or 3
	KeySize int

	// number of most recent positions kept in the window
	WindowCapacity int

	// most recent candidates compared at each position
	MaxCandidates int
}

func DefaultConfig() Config {
	return Config{
		KeySize:        3,
		WindowCapacity: 20_000,
		MaxCandidates:  10,
	}
}

func (c Config) Validate() error {
	if c.KeySize != 2 && c.KeySize != 3 {
		return errors.Errorf("Key size must be 2 or 3, got %d", c.KeySize)
	}
	if c.WindowCapacity < 1 {
		return errors.Errorf("Window capacity must be positive, got %d", c.WindowCapacity)
	}
	if c.MaxCandidates < 1 {
		return errors.Errorf("Candidate count must be positive, got %d", c.MaxCandidates)
	}
	return nil
}
