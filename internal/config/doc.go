// Package config loads, normalizes, and validates aivideorename configuration.
//
// Configuration is read from TOML (defaulting to ~/.config/aivideorename/config.toml),
// with tilde-expanded paths and sane defaults so the CLI can run without
// a file at all. Normalization lower-cases and dot-prefixes the extension
// allow-list, trims the stop-word list, and falls back to environment variables
// for the vision model API key.
//
// Use Load to obtain a ready-to-use Config and CreateSample to write the
// annotated sample file behind `aivideorename config init`.
package config
