// Package config handles loading, validation, and access to wallshift
// configuration from TOML files.
//
// Configuration resolves through three levels: built-in defaults, the
// [defaults] section, and per-output [outputs."NAME"] sections. Call
// Config.OutputSettings to get the merged result for one output.
package config
