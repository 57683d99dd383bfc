// Package main hosts the aivideorename CLI entrypoint and command graph.
//
// The root command takes a file or directory and drives the rename pipeline
// over it; subcommands scaffold and validate configuration and report whether
// the external tools are installed. This package resolves configuration,
// builds the structured logger, takes the run lock, and wires collaborators
// into the renamer so the internal packages stay free of terminal concerns.
package main
