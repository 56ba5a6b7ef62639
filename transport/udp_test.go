package transport

import (
	"net"
	"testing"
	"time"

	"github.com/opd-ai/tilertp/limits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	data []byte
	addr net.Addr
}

func newLoopbackTransport(t *testing.T) *UDPTransport {
	t.Helper()
	tr, err := NewUDPTransport("127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func TestUDPTransport_SendReceive(t *testing.T) {
	sender := newLoopbackTransport(t)
	receiver := newLoopbackTransport(t)

	got := make(chan received, 4)
	receiver.RegisterHandler(func(data []byte, addr net.Addr) {
		got <- received{data: data, addr: addr}
	})

	payloads := [][]byte{{0x80, 0x1A, 0x00, 0x01}, make([]byte, 1400)}
	for _, p := range payloads {
		require.NoError(t, sender.Send(p, receiver.LocalAddr()))
	}

	for _, want := range payloads {
		select {
		case r := <-got:
			assert.Equal(t, want, r.data)
			assert.Equal(t, sender.LocalAddr().String(), r.addr.String())
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for datagram")
		}
	}
}

func TestUDPTransport_HandlerOwnsData(t *testing.T) {
	sender := newLoopbackTransport(t)
	receiver := newLoopbackTransport(t)

	got := make(chan []byte, 2)
	receiver.RegisterHandler(func(data []byte, addr net.Addr) {
		got <- data
	})

	require.NoError(t, sender.Send([]byte{1, 1, 1}, receiver.LocalAddr()))
	require.NoError(t, sender.Send([]byte{2, 2}, receiver.LocalAddr()))

	var first, second []byte
	select {
	case first = <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for first datagram")
	}
	select {
	case second = <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for second datagram")
	}

	assert.Equal(t, []byte{1, 1, 1}, first, "read buffer reuse must not overwrite delivered data")
	assert.Equal(t, []byte{2, 2}, second)
}

func TestUDPTransport_SendValidation(t *testing.T) {
	tr := newLoopbackTransport(t)

	err := tr.Send([]byte{1}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "address cannot be nil")

	err = tr.Send(nil, tr.LocalAddr())
	assert.ErrorIs(t, err, limits.ErrFrameEmpty)

	err = tr.Send(make([]byte, limits.MaxDatagramSize+1), tr.LocalAddr())
	assert.ErrorIs(t, err, limits.ErrDatagramTooLarge)
}

func TestUDPTransport_CloseIsIdempotent(t *testing.T) {
	tr, err := NewUDPTransport("127.0.0.1:0")
	require.NoError(t, err)

	assert.NoError(t, tr.Close())
	assert.NoError(t, tr.Close())
}

func TestNewUDPTransport_InvalidAddress(t *testing.T) {
	tr, err := NewUDPTransport("not-an-address")
	assert.Error(t, err)
	assert.Nil(t, tr)
}
