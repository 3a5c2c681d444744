// Package config is deliberately thin: plain structs plus a YAML decode
// step. Defaulting and validation belong to whatever external builder
// produced the config, not here.
package config
