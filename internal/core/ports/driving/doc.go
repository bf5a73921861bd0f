// Package driving defines the interfaces through which external actors
// (CLI commands, the MCP tool server) drive the core services.
package driving
