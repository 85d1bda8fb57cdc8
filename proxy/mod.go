// Package proxy defines the client-facing server that exposes the contract
// queries to external applications.
//
// Documentation Last Review: 16.10.2026
package proxy

import (
	"net"
	"net/http"
)

// Proxy defines the primitives to implement an http server that handles
// client side requests.
type Proxy interface {
	// Listen starts the proxy server. This call is assumed to be blocking.
	Listen()

	// Stop stops the proxy server.
	Stop()

	// GetAddr returns the address the server is bound to, or nil if it is not
	// listening yet.
	GetAddr() net.Addr

	// RegisterHandler registers a new handler.
	RegisterHandler(path string, handler func(http.ResponseWriter, *http.Request))
}
