// Package config loads, normalizes, and validates cdrip configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CDRIP_DEVICE. The Config type centralizes every knob the CLIs need, so
// staging/library directories and external tool settings are discovered in
// one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
