// Package server implements the MCP (Model Context Protocol) server for form
// digit extraction.
//
// The server exposes the corner detection, rectification and digit
// extraction pipeline as tools, so an MCP client can inspect why a scan
// fails and re-run the steps on a single form.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - form_load: Image metadata and the form region searched for the box
//   - form_detect_corners: Box corners, boundary lines and candidate lines
//   - form_rectify: Rectified canvas as base64 PNG
//   - form_debug_overlay: Form region with lines and corners drawn on it
//   - form_extract_digits: Save the labelled digit cells of one scan
//
// Coordinates in results are relative to the form region reported by
// form_load.
//
// # Image Caching
//
// Scans are cached by path and reused across tool calls. The cache persists
// for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, prefixed with the failure reason for
//     pipeline failures
//
// # Usage
//
//	srv := server.New(cfg, cfg.NewLogger())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
