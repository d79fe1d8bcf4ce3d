package p2p

import (
	"context"
	"time"

	"github.com/libp2p/go-libp2p-core/network"
	"github.com/libp2p/go-libp2p-core/peer"
)

// ttfbTimeout bounds how long a handler waits for the first byte of a
// request, mirroring the teacher's rpc.go time-to-first-byte timeout.
var ttfbTimeout = 5 * time.Second

// rpcHandler decodes a request already read from stream and writes a
// response back onto it. The handler owns closing the stream.
type rpcHandler func(ctx context.Context, stream network.Stream) error

// RegisterRPC wires handle to topic (suffixed with the host's codec) on
// the stream multiplexer, mirroring RegularSync.registerRPC.
func (h *Host) RegisterRPC(topic string, handle rpcHandler) {
	fullTopic := topic + h.Encoding().ProtocolSuffix()
	l := log.WithField("topic", fullTopic)
	h.SetStreamHandler(fullTopic, func(stream network.Stream) {
		ctx, cancel := context.WithTimeout(h.ctx, ttfbTimeout)
		defer cancel()
		defer stream.Close()
		_ = stream.SetReadDeadline(time.Now().Add(ttfbTimeout))

		if err := handle(ctx, stream); err != nil {
			l.WithError(err).Debug("rpc handler returned an error")
		}
	})
}

// Request opens a stream to pid for topic, writes req, decodes the peer's
// response into resp, and closes the stream.
func (h *Host) Request(ctx context.Context, pid peer.ID, topic string, req, resp interface{}) error {
	fullTopic := topic + h.Encoding().ProtocolSuffix()
	stream, err := h.NewStream(ctx, pid, fullTopic)
	if err != nil {
		return err
	}
	defer stream.Close()

	if _, err := h.Encoding().EncodeWithLength(stream, req); err != nil {
		return err
	}
	return h.Encoding().DecodeWithLength(stream, resp)
}
