// Package mcp provides a Model Context Protocol (MCP) server for vfsutil using mcp-go.
//
// The server exposes vfsutil's location and file operations as MCP tools so
// that AI assistants can copy files safely, compare them and inspect the
// volumes they live on.
//
// # Implementation
//
// The package uses the mcp-go library (github.com/mark3labs/mcp-go). Requests
// are read from stdin and responses written to stdout as JSON-RPC 2.0.
//
// # Tools
//
//   - copy_file: partial-safe copy of a single file
//   - free_space: used and free space of the volume holding a location
//   - compare_checksum: whether two files have identical contents
//   - display_name: the name a file manager would show for a location
//   - is_descendant: whether one location is inside another
//   - guess_device_type: the kind of device a location is stored on
//
// # Security
//
// Tools that touch the filesystem only accept locations inside the configured
// allowed roots (allowed_roots in the config file). An empty list leaves the
// server unrestricted. Arguments with URI schemes outside supported_schemes
// are rejected for every tool.
//
// # Usage
//
// The MCP server is typically started as a subprocess by AI assistants that support
// MCP integration. It can also be started manually for testing:
//
//	vfsutil mcp
//
// The server will read JSON-RPC requests from stdin and write responses to stdout
// until it receives EOF or is terminated.
//
// # References
//
// - MCP Specification: https://modelcontextprotocol.io/specification
// - mcp-go Library: https://github.com/mark3labs/mcp-go
package mcp
