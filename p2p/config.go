package p2p

// Config configures the Host. Set from application-level flags, mirroring
// the teacher's Config-struct-from-flags convention.
type Config struct {
	// StaticPeers are multiaddrs dialed unconditionally at Start.
	StaticPeers []string
	// ListenAddress and TCPPort select the local listen multiaddr.
	ListenAddress string
	TCPPort       uint
	// MaxPeers is carried from configuration; Host does not read it and
	// does not limit the number of connected peers.
	MaxPeers uint
	// Encoding selects the wire codec: "json" or "json_snappy".
	Encoding string
}
