package transport

import (
	"net"
)

// DatagramHandler processes one received datagram.
// The data slice is owned by the handler.
type DatagramHandler func(data []byte, addr net.Addr)

// Transport defines the datagram transport used by the tile stream.
// This abstraction lets the stream layer run over UDP in production and
// over in-memory mocks in tests.
type Transport interface {
	// Send sends one datagram to the specified address.
	Send(data []byte, addr net.Addr) error

	// Close shuts down the transport.
	Close() error

	// LocalAddr returns the local address the transport is listening on.
	LocalAddr() net.Addr

	// RegisterHandler sets the handler for incoming datagrams.
	RegisterHandler(handler DatagramHandler)
}
