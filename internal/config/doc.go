// Package config loads, normalizes, and validates clawbot configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads an optional .env file and honours
// environment fallbacks such as OPENAI_API_KEY. The Config type centralizes
// every knob the CLI needs: library and publish directories, matcher markers,
// the metadata version stamp, and reasoning-service credentials.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical extensions, and clear validation errors.
package config
