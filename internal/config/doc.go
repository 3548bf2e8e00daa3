// Package config loads, normalizes, and validates shortcast configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SHORTCAST_GENERATOR. The Config type centralizes every knob the daemon and
// CLI need, from the upload page URL and its per-language submit labels to
// dispatch cadence and directory layout.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
