// Package askd exposes a locally installed AI assistant CLI as an HTTP
// and MCP service.
package askd

// Version is the current askd release.
const Version = "1.0.0"
