// Package mcpserver exposes the dev environment over the Model Context
// Protocol so AI assistants can start, stop, restart, and inspect the
// servers without shelling out.
//
// The server speaks stdio only: the devstack process is launched by the
// MCP client (an editor or assistant runtime) and stays in the foreground
// for the lifetime of the stream. Tool errors are reported as MCP tool
// results, not protocol errors, so the client can show them to the user.
package mcpserver
