// Package config loads, normalizes, and validates slidecast configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// SLIDECAST_DATA_DIR. The Config type centralizes every render constant the
// composition engine needs so jobs are built from one validated source.
package config
