// Package commands defines the sail CLI and wires dependencies for subcommands.
//
// Commands
//
//   - status     Show the active network mode and identity
//   - mode       Switch between standard and tor, wiping the old namespace
//   - identity   Set the identity for the active mode
//   - wipe       Securely wipe the active namespace
//   - features   List what the active mode enables
//
// # Implementation
//
// The root command loads config.yaml from the home directory, applies flag
// overrides and builds an app.Wire before any subcommand runs. The wire is
// closed after the command returns, which also flushes metrics when a
// textfile path is configured.
package commands
