// Package mcpquic carries MCP JSON-RPC sessions over a QUIC stream. The
// chassis demuxes connections to it by ALPN on the shared UDP socket.
package mcpquic

import (
	"time"

	"github.com/quic-go/quic-go"
)

const (
	// ALPNProtocolMCP is the ALPN token MCP clients must negotiate.
	ALPNProtocolMCP = "ecboard-mcp-v1"
	// MagicBytes must be sent by the client immediately after opening the
	// stream. Defense-in-depth against ALPN confusion.
	MagicBytes = "MCP1"

	DefaultIdleTimeout = 5 * time.Minute
	DefaultKeepAlive   = 30 * time.Second
)

// QUICConfig returns the server-side QUIC tuning shared with the chassis.
func QUICConfig() *quic.Config {
	return &quic.Config{
		MaxStreamReceiveWindow:     10 * 1024 * 1024,
		MaxConnectionReceiveWindow: 50 * 1024 * 1024,
		MaxIdleTimeout:             DefaultIdleTimeout,
		KeepAlivePeriod:            DefaultKeepAlive,
	}
}
