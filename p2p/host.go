// Package p2p provides the libp2p-backed network transport binding the
// network subsystem interfaces used by the validation-package resolver
// and the DHT fetch handler: gossip for entry announcements and
// request/response streams for GetValidationPackage and FetchEntryData.
package p2p

import (
	"context"
	"fmt"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p-core/crypto"
	"github.com/libp2p/go-libp2p-core/host"
	"github.com/libp2p/go-libp2p-core/network"
	"github.com/libp2p/go-libp2p-core/peer"
	"github.com/libp2p/go-libp2p-core/protocol"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	ma "github.com/multiformats/go-multiaddr"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/entryhold/node/p2p/encoder"
)

var log = logrus.WithField("prefix", "p2p")

// Host wraps a libp2p host and its gossipsub router. It is a trimmed
// adaptation dropping discv5/Kademlia discovery and ENR bookkeeping,
// which this node's spec doesn't call for: peers are either dialed as
// static addresses or connect inbound.
type Host struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg    *Config
	host   host.Host
	pubsub *pubsub.PubSub

	started bool
}

// NewHost builds a Host. No connections are made until Start is called.
func NewHost(cfg *Config) (*Host, error) {
	ctx, cancel := context.WithCancel(context.Background())

	priv, _, err := crypto.GenerateEd25519Key(nil)
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "p2p: generating host identity key")
	}

	listenAddr := cfg.ListenAddress
	if listenAddr == "" {
		listenAddr = "0.0.0.0"
	}
	listen, err := ma.NewMultiaddr(fmt.Sprintf("/ip4/%s/tcp/%d", listenAddr, cfg.TCPPort))
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "p2p: building listen multiaddr")
	}

	h, err := libp2p.New(ctx, libp2p.ListenAddrs(listen), libp2p.Identity(priv))
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "p2p: creating libp2p host")
	}

	ps, err := pubsub.NewGossipSub(ctx, h)
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "p2p: creating gossipsub router")
	}

	return &Host{ctx: ctx, cancel: cancel, cfg: cfg, host: h, pubsub: ps}, nil
}

// Start dials the configured static peers. Unlike the teacher's Service,
// there is no background discovery loop: this node's peer set is
// operator-configured or grows from inbound connections only.
func (h *Host) Start() {
	if h.started {
		log.Error("host already started")
		return
	}
	h.started = true

	for _, addr := range h.cfg.StaticPeers {
		go func(addr string) {
			if err := h.dial(addr); err != nil {
				log.WithError(err).WithField("addr", addr).Warn("could not dial static peer")
			}
		}(addr)
	}

	log.WithField("peer_id", h.host.ID().Pretty()).Info("p2p host started")
}

func (h *Host) dial(addr string) error {
	multiAddr, err := ma.NewMultiaddr(addr)
	if err != nil {
		return err
	}
	info, err := peer.AddrInfoFromP2pAddr(multiAddr)
	if err != nil {
		return err
	}
	return h.host.Connect(h.ctx, *info)
}

// Stop tears down the host and cancels all background work.
func (h *Host) Stop() error {
	defer h.cancel()
	h.started = false
	return h.host.Close()
}

// Encoding returns the configured wire codec.
func (h *Host) Encoding() encoder.NetworkEncoding {
	if h.cfg.Encoding == "json_snappy" {
		return encoder.JSONSnappyEncoder{UseSnappyCompression: true}
	}
	return encoder.JSONSnappyEncoder{}
}

// PubSub returns the gossipsub router.
func (h *Host) PubSub() *pubsub.PubSub {
	return h.pubsub
}

// SetStreamHandler registers handler for topic on the host's protocol
// multiplexer.
func (h *Host) SetStreamHandler(topic string, handler network.StreamHandler) {
	h.host.SetStreamHandler(protocol.ID(topic), handler)
}

// PeerID returns the local peer's ID.
func (h *Host) PeerID() peer.ID {
	return h.host.ID()
}

// Connect dials and handshakes with a peer.
func (h *Host) Connect(pi peer.AddrInfo) error {
	return h.host.Connect(h.ctx, pi)
}

// Disconnect closes every stream with a peer.
func (h *Host) Disconnect(pid peer.ID) error {
	return h.host.Network().ClosePeer(pid)
}

// NewStream opens a new stream to peer pid over protocol topic.
func (h *Host) NewStream(ctx context.Context, pid peer.ID, topic string) (network.Stream, error) {
	return h.host.NewStream(ctx, pid, protocol.ID(topic))
}
