package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/opd-ai/tilertp/limits"
	"github.com/sirupsen/logrus"
)

// readTimeout bounds each blocking read so the loop notices cancellation.
const readTimeout = 100 * time.Millisecond

// UDPTransport implements Transport over a net.PacketConn.
type UDPTransport struct {
	conn      net.PacketConn
	handler   DatagramHandler
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewUDPTransport creates a UDP transport listening on listenAddr.
// Use "127.0.0.1:0" to pick a free port.
func NewUDPTransport(listenAddr string) (*UDPTransport, error) {
	conn, err := net.ListenPacket("udp", listenAddr)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":    "NewUDPTransport",
			"listen_addr": listenAddr,
			"error":       err.Error(),
		}).Error("Failed to listen")
		return nil, fmt.Errorf("failed to listen on %s: %w", listenAddr, err)
	}

	return NewPacketConnTransport(conn), nil
}

// NewPacketConnTransport wraps an existing packet connection and starts its read loop.
// The transport takes ownership of conn.
func NewPacketConnTransport(conn net.PacketConn) *UDPTransport {
	ctx, cancel := context.WithCancel(context.Background())

	t := &UDPTransport{
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
	}

	t.wg.Add(1)
	go t.processPackets()

	logrus.WithFields(logrus.Fields{
		"function":   "NewPacketConnTransport",
		"local_addr": conn.LocalAddr().String(),
	}).Info("UDP transport started")

	return t
}

// RegisterHandler sets the handler for incoming datagrams.
func (t *UDPTransport) RegisterHandler(handler DatagramHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.handler = handler
}

// Send sends one datagram to the specified address.
func (t *UDPTransport) Send(data []byte, addr net.Addr) error {
	if addr == nil {
		return fmt.Errorf("address cannot be nil")
	}
	if err := limits.ValidateDatagram(data); err != nil {
		return err
	}

	_, err := t.conn.WriteTo(data, addr)
	if err != nil {
		return fmt.Errorf("failed to send datagram to %s: %w", addr, err)
	}
	return nil
}

// Close shuts down the transport and waits for the read loop to exit.
func (t *UDPTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		t.cancel()
		err = t.conn.Close()
		t.wg.Wait()

		logrus.WithFields(logrus.Fields{
			"function": "UDPTransport.Close",
		}).Info("UDP transport closed")
	})
	return err
}

// LocalAddr returns the local address the transport is listening on.
func (t *UDPTransport) LocalAddr() net.Addr {
	return t.conn.LocalAddr()
}

// processPackets reads datagrams until the transport is closed.
func (t *UDPTransport) processPackets() {
	defer t.wg.Done()

	buffer := make([]byte, limits.MaxDatagramSize)

	for {
		select {
		case <-t.ctx.Done():
			return
		default:
			if err := t.processIncomingPacket(buffer); err != nil && errors.Is(err, net.ErrClosed) {
				return
			}
		}
	}
}

// processIncomingPacket reads and dispatches a single datagram.
func (t *UDPTransport) processIncomingPacket(buffer []byte) error {
	data, addr, err := t.readPacketData(buffer)
	if err != nil {
		return err
	}

	t.dispatchPacketToHandler(data, addr)
	return nil
}

// readPacketData reads data from the connection with timeout handling.
// The returned slice is a copy; buffer is reused by the next read.
func (t *UDPTransport) readPacketData(buffer []byte) ([]byte, net.Addr, error) {
	_ = t.conn.SetReadDeadline(time.Now().Add(readTimeout))

	n, addr, err := t.conn.ReadFrom(buffer)
	if err != nil {
		return nil, nil, t.handleReadError(err)
	}

	data := make([]byte, n)
	copy(data, buffer[:n])
	return data, addr, nil
}

// handleReadError logs unexpected read errors; timeouts are part of the loop.
func (t *UDPTransport) handleReadError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return err
	}
	if errors.Is(err, net.ErrClosed) {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function": "UDPTransport.handleReadError",
		"error":    err.Error(),
	}).Warn("Datagram read failed")
	return err
}

// dispatchPacketToHandler passes the datagram to the registered handler.
// Datagrams are handled on the read goroutine, in arrival order.
func (t *UDPTransport) dispatchPacketToHandler(data []byte, addr net.Addr) {
	t.mu.RLock()
	handler := t.handler
	t.mu.RUnlock()

	if handler == nil {
		logrus.WithFields(logrus.Fields{
			"function":  "UDPTransport.dispatchPacketToHandler",
			"data_size": len(data),
			"addr":      addr.String(),
		}).Debug("No handler registered, dropping datagram")
		return
	}

	handler(data, addr)
}
