// Package config loads, normalizes, and validates episodic configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from the standard locations. The Config
// type centralizes every knob the daemon and CLI need, so packages receive an
// explicit configuration value instead of reaching for globals.
package config
