// Package cli implements the tokenlogo command-line interface.
//
// # Commands
//
//   - generate: Write the logo for a name and symbol to a PNG file
//   - inspect: Show the chunk layout of a PNG and verify its checksums
//   - preview: Interactive terminal preview with live name/symbol editing
//   - serve: Run the HTTP API
//   - banners: Resolve AI banners for a list of agents
//   - cache: Manage the output cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Configuration
//
// Commands read an optional TOML file (--config or TOKENLOGO_CONFIG) and
// environment overrides; see package config.
package cli
