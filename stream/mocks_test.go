package stream

import (
	"net"
	"sync"

	"github.com/opd-ai/tilertp/transport"
)

// MockTransport records sent datagrams and optionally delivers them to a peer.
type MockTransport struct {
	mu        sync.Mutex
	sent      [][]byte
	handler   transport.DatagramHandler
	localAddr net.Addr
	peer      *MockTransport
	sendErr   error
}

func NewMockTransport(port int) *MockTransport {
	return &MockTransport{
		localAddr: &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port},
	}
}

// ConnectMockTransports makes each transport deliver to the other.
func ConnectMockTransports(a, b *MockTransport) {
	a.peer = b
	b.peer = a
}

func (mt *MockTransport) Send(data []byte, addr net.Addr) error {
	mt.mu.Lock()
	if mt.sendErr != nil {
		mt.mu.Unlock()
		return mt.sendErr
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	mt.sent = append(mt.sent, cp)
	peer := mt.peer
	mt.mu.Unlock()

	if peer != nil {
		peer.deliver(cp, mt.localAddr)
	}
	return nil
}

func (mt *MockTransport) deliver(data []byte, from net.Addr) {
	mt.mu.Lock()
	handler := mt.handler
	mt.mu.Unlock()
	if handler != nil {
		handler(data, from)
	}
}

func (mt *MockTransport) Close() error {
	return nil
}

func (mt *MockTransport) LocalAddr() net.Addr {
	return mt.localAddr
}

func (mt *MockTransport) RegisterHandler(handler transport.DatagramHandler) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.handler = handler
}

func (mt *MockTransport) Sent() [][]byte {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return append([][]byte(nil), mt.sent...)
}
