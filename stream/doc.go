// Package stream sends and receives frames as tiled RTP datagrams.
//
// A Sender packetizes each frame with rtp.Packetizer and writes the packets
// to a transport.Transport. A Receiver registers itself as the transport's
// handler, decodes every datagram with rtp.Unmarshal and feeds the packets to
// an rtp.Reassembler; complete frames go to a FrameHandler.
//
//	tr, _ := transport.NewUDPTransport(":25000")
//	receiver, err := stream.NewReceiver(stream.DefaultConfig(), tr,
//	    func(frame *rtp.Frame, addr net.Addr) {
//	        display(frame.Data)
//	    })
//
// Datagrams shorter than the tile header are discarded and counted in
// Statistics.PacketsTruncated; the receiver never retries or requests
// retransmission. Sequence gaps are logged and counted as lost packets.
//
// Both endpoints keep a Session with counters available from Statistics.
package stream
