// Package app wires application dependencies for the CLI.
//
// It loads Config from YAML, builds the logger, metrics registry and
// network manager, and exposes them via the Wire struct for commands to use.
package app
