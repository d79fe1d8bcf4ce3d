package p2p

import (
	"bytes"
	"context"

	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"go.opencensus.io/trace"

	"github.com/entryhold/node/chain"
)

// EntryPublishHandler validates and stores an entry announced over gossip.
// It is supplied by the caller (cmd/holdnode's holdGossipedEntry); p2p
// itself knows nothing about validation semantics.
type EntryPublishHandler func(ctx context.Context, ewh chain.EntryWithHeader) error

// Gossip subscribes to the entry-publish topic and feeds decoded messages
// to a handler, mirroring the teacher's subscribe/messageLoop/pipeline
// split in beacon-chain/sync/subscriber.go but trimmed to a single topic
// and no validator-registry indirection.
type Gossip struct {
	host      *Host
	handle    EntryPublishHandler
	directory *PeerDirectory
	sub       *pubsub.Subscription
	cancel    context.CancelFunc
}

// NewGossip builds a Gossip over host, dispatching inbound entries to handle.
func NewGossip(host *Host, handle EntryPublishHandler) *Gossip {
	return &Gossip{host: host, handle: handle}
}

// SetPeerDirectory records, for every inbound entry, which peer
// announced it, so a later outbound GetValidationPackage request knows
// who to ask.
func (g *Gossip) SetPeerDirectory(directory *PeerDirectory) {
	g.directory = directory
}

// Start subscribes to the entry-publish topic and begins the message loop.
// Call Stop to unsubscribe.
func (g *Gossip) Start(ctx context.Context) error {
	topic := GossipEntryPublishTopic + g.host.Encoding().ProtocolSuffix()
	sub, err := g.host.PubSub().Subscribe(topic)
	if err != nil {
		return err
	}
	g.sub = sub

	loopCtx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	go g.messageLoop(loopCtx, topic)
	return nil
}

// Stop cancels the message loop and releases the subscription.
func (g *Gossip) Stop() {
	if g.cancel != nil {
		g.cancel()
	}
	if g.sub != nil {
		g.sub.Cancel()
	}
}

func (g *Gossip) messageLoop(ctx context.Context, topic string) {
	l := log.WithField("topic", topic)
	for {
		msg, err := g.sub.Next(ctx)
		if err != nil {
			l.WithError(err).Debug("gossip subscription closed")
			return
		}
		if msg.ReceivedFrom == g.host.PeerID() {
			continue
		}
		go g.handleMessage(ctx, msg)
	}
}

func (g *Gossip) handleMessage(ctx context.Context, msg *pubsub.Message) {
	ctx, span := trace.StartSpan(ctx, "p2p.Gossip.handleMessage")
	defer span.End()

	var ewh chain.EntryWithHeader
	if err := g.host.Encoding().Decode(msg.Data, &ewh); err != nil {
		log.WithError(err).Debug("failed to decode gossiped entry")
		return
	}
	if g.directory != nil {
		g.directory.RecordEntrySource(ewh.Header.EntryAddress, msg.ReceivedFrom)
	}
	if err := g.handle(ctx, ewh); err != nil {
		log.WithError(err).WithField("entry_address", ewh.Header.EntryAddress).Debug("failed to handle gossiped entry")
	}
}

// Publish announces ewh to every subscribed peer.
func (g *Gossip) Publish(ctx context.Context, ewh chain.EntryWithHeader) error {
	_, span := trace.StartSpan(ctx, "p2p.Gossip.Publish")
	defer span.End()

	topic := GossipEntryPublishTopic + g.host.Encoding().ProtocolSuffix()
	var buf bytes.Buffer
	if _, err := g.host.Encoding().Encode(&buf, &ewh); err != nil {
		return err
	}
	return g.host.PubSub().Publish(topic, buf.Bytes())
}
