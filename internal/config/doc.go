// Package config loads, normalizes, and validates imgprep configuration data.
//
// It supplies repository defaults (the five-entry breakpoint table, encoder
// qualities, placeholder settings), expands user paths including tilde
// shortcuts, and reads TOML or YAML files depending on the file extension.
// Per-file quality overrides are keyed by source file name.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical format names, and clear validation errors.
package config
