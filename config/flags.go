// Package config defines the command-line flags and runtime feature
// toggles for the holdnode binary, matching the teacher's
// shared/featureconfig + beacon-chain/flags split: CLI surface here,
// global feature config in feature_config.go.
package config

import (
	"time"

	"github.com/urfave/cli/v2"
)

const (
	defaultSweepInterval     = 5 * time.Second
	defaultStateDumpInterval = 60 * time.Second
)

var (
	// DataDirFlag selects the directory the content store writes its
	// database file under.
	DataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "Directory for the content store database",
		Value: "./holdnode-data",
	}
	// ListenAddressFlag and TCPPortFlag select the node's libp2p listen
	// multiaddr.
	ListenAddressFlag = &cli.StringFlag{
		Name:  "p2p-listen-address",
		Usage: "IP address the p2p host listens on",
		Value: "0.0.0.0",
	}
	TCPPortFlag = &cli.UintFlag{
		Name:  "p2p-tcp-port",
		Usage: "TCP port the p2p host listens on",
		Value: 4242,
	}
	// StaticPeersFlag lists multiaddrs dialed unconditionally at start.
	StaticPeersFlag = &cli.StringSliceFlag{
		Name:  "p2p-static-peers",
		Usage: "Multiaddrs of peers to dial at startup",
	}
	// MaxPeersFlag sets p2p.Config.MaxPeers. The Host does not limit
	// its connections by this value.
	MaxPeersFlag = &cli.UintFlag{
		Name:  "p2p-max-peers",
		Usage: "Maximum number of concurrently connected peers (not enforced by the host)",
		Value: 50,
	}
	// EncodingFlag selects the wire codec: "json" or "json_snappy".
	EncodingFlag = &cli.StringFlag{
		Name:  "p2p-encoding",
		Usage: "Wire codec for RPC and gossip payloads: json or json_snappy",
		Value: "json_snappy",
	}

	// SweepIntervalFlag sets how often the pending-validation sweeper
	// checks for expired deadlines.
	SweepIntervalFlag = &cli.DurationFlag{
		Name:  "sweep-interval",
		Usage: "How often the pending validation sweeper checks for expired deadlines",
		Value: defaultSweepInterval,
	}

	// EnableStateDumpSchedulerFlag turns on the periodic diagnostic
	// state dump; off by default since it is diagnostic-only overhead.
	EnableStateDumpSchedulerFlag = &cli.BoolFlag{
		Name:  "enable-state-dump-scheduler",
		Usage: "Periodically log a human-readable state dump",
	}
	// StateDumpIntervalFlag sets the scheduler's tick cadence.
	StateDumpIntervalFlag = &cli.DurationFlag{
		Name:  "state-dump-interval",
		Usage: "How often the state dump scheduler logs a dump",
		Value: defaultStateDumpInterval,
	}
	// StateDumpIncludeEAVFlag opts a scheduled dump into the full EAV
	// index, which can be expensive on a large store.
	StateDumpIncludeEAVFlag = &cli.BoolFlag{
		Name:  "state-dump-include-eav",
		Usage: "Include the full entity-attribute-value index in scheduled state dumps",
	}

	// SkipSignatureVerificationFlag disables provenance signature
	// verification, for test networks only.
	SkipSignatureVerificationFlag = &cli.BoolFlag{
		Name:  "skip-signature-verification",
		Usage: "UNSAFE: skip provenance signature verification at runtime",
	}

	// VerbosityFlag sets the logrus level.
	VerbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity (debug, info, warn, error)",
		Value: "info",
	}
	// LogFormatFlag selects the logrus formatter.
	LogFormatFlag = &cli.StringFlag{
		Name:  "log-format",
		Usage: "Log format: text, fluentd or json",
		Value: "text",
	}
	// LogFileFlag mirrors into persistent file logging when set.
	LogFileFlag = &cli.StringFlag{
		Name:  "log-file",
		Usage: "Path to additionally write logs to",
	}

	// ConfigFileFlag names a YAML file every other flag can be loaded
	// from, via altsrc.
	ConfigFileFlag = &cli.StringFlag{
		Name:  "config-file",
		Usage: "Path to a YAML file providing values for the flags above",
	}
)

// AppFlags is every flag the holdnode binary registers, matching
// beacon-chain/main.go's appFlags var.
func AppFlags() []cli.Flag {
	return []cli.Flag{
		DataDirFlag,
		ListenAddressFlag,
		TCPPortFlag,
		StaticPeersFlag,
		MaxPeersFlag,
		EncodingFlag,
		SweepIntervalFlag,
		EnableStateDumpSchedulerFlag,
		StateDumpIntervalFlag,
		StateDumpIncludeEAVFlag,
		SkipSignatureVerificationFlag,
		VerbosityFlag,
		LogFormatFlag,
		LogFileFlag,
		ConfigFileFlag,
	}
}
