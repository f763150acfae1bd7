// Package fixturegen provides embedded assets for the fixturegen command.
//
// The root package exists solely to embed config.default.toml via
// [DefaultConfigTOML]. The command writes it out when asked to initialize a
// configuration file.
package fixturegen

import _ "embed"

// DefaultConfigTOML holds the raw bytes of config.default.toml, generated by
// cmd/genconfig and embedded at build time.
//
//go:embed config.default.toml
var DefaultConfigTOML []byte
