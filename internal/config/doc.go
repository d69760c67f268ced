// Package config loads the service settings from defaults, an optional
// config.yaml and BOUQUET_-prefixed environment variables, and validates them
// before any client is built.
package config
