// Package transport carries tile datagrams between a sender and a receiver.
//
// The Transport interface is deliberately small: one datagram in, one
// datagram out, and a single handler for everything received.
//
//	type Transport interface {
//	    Send(data []byte, addr net.Addr) error
//	    Close() error
//	    LocalAddr() net.Addr
//	    RegisterHandler(handler DatagramHandler)
//	}
//
// # UDP Transport
//
//	tr, err := transport.NewUDPTransport("0.0.0.0:25000")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tr.Close()
//
//	tr.RegisterHandler(func(data []byte, addr net.Addr) {
//	    // decode data with rtp.Unmarshal
//	})
//
// The read loop uses a limits.MaxDatagramSize buffer with a short read
// deadline so Close stops it promptly. Each datagram is copied before it is
// handed to the handler, and handlers run on the read goroutine in arrival
// order.
//
// The package works with net.Addr and net.PacketConn interfaces throughout;
// NewPacketConnTransport accepts any packet connection.
package transport
