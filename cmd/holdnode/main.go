// Package main is the holdnode binary: a DHT node that gossips,
// validates and holds entries per the node's content store and
// application sandbox.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	joonix "github.com/joonix/log"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/entryhold/node/chain"
	"github.com/entryhold/node/config"
	"github.com/entryhold/node/netstate"
	"github.com/entryhold/node/p2p"
	"github.com/entryhold/node/sandbox"
	"github.com/entryhold/node/shared/logutil"
	"github.com/entryhold/node/signer"
	"github.com/entryhold/node/statedump"
	"github.com/entryhold/node/store"
	"github.com/entryhold/node/validation"
)

var appFlags = config.WrapFlags(config.AppFlags())

var log = logrus.WithField("prefix", "main")

func main() {
	app := &cli.App{}
	app.Name = "holdnode"
	app.Usage = "a DHT node validating and holding gossiped entries"
	app.Flags = appFlags
	app.Action = startNode

	app.Before = func(ctx *cli.Context) error {
		if ctx.IsSet(config.ConfigFileFlag.Name) {
			inputSource := altsrc.NewYamlSourceFromFlagFunc(config.ConfigFileFlag.Name)
			if err := altsrc.InitInputSourceWithContext(appFlags, inputSource)(ctx); err != nil {
				return err
			}
		}
		if err := configureLogging(ctx); err != nil {
			return err
		}
		config.Configure(ctx)
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func configureLogging(ctx *cli.Context) error {
	verbosity := ctx.String(config.VerbosityFlag.Name)
	level, err := logrus.ParseLevel(verbosity)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	switch format := ctx.String(config.LogFormatFlag.Name); format {
	case "text":
		formatter := new(prefixed.TextFormatter)
		formatter.TimestampFormat = "2006-01-02 15:04:05"
		formatter.FullTimestamp = true
		formatter.DisableColors = ctx.String(config.LogFileFlag.Name) != ""
		logrus.SetFormatter(formatter)
	case "fluentd":
		f := joonix.NewFormatter()
		if err := joonix.DisableTimestampFormat(f); err != nil {
			return err
		}
		logrus.SetFormatter(f)
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %s", format)
	}

	if logFile := ctx.String(config.LogFileFlag.Name); logFile != "" {
		if err := logutil.ConfigurePersistentLogging(logFile); err != nil {
			log.WithError(err).Error("failed to configure persistent logging")
		}
	}
	return nil
}

func startNode(ctx *cli.Context) error {
	cs, err := store.Open(ctx.String(config.DataDirFlag.Name))
	if err != nil {
		return err
	}
	defer func() {
		if err := cs.Close(); err != nil {
			log.WithError(err).Error("failed to close content store")
		}
	}()

	keys, err := signer.NewKeyring()
	if err != nil {
		return err
	}
	var localSigner signer.Signer = keys
	if config.Get().SkipSignatureVerification {
		localSigner = signer.AlwaysVerify{Signer: keys}
	}

	sandboxRegistry := sandbox.NewRegistry()

	netState := netstate.New()
	wakers := netstate.NewWakerRegistry()
	reducer := netstate.NewReducer(netState, wakers)

	host, err := p2p.NewHost(&p2p.Config{
		ListenAddress: ctx.String(config.ListenAddressFlag.Name),
		TCPPort:       ctx.Uint(config.TCPPortFlag.Name),
		MaxPeers:      ctx.Uint(config.MaxPeersFlag.Name),
		StaticPeers:   ctx.StringSlice(config.StaticPeersFlag.Name),
		Encoding:      ctx.String(config.EncodingFlag.Name),
	})
	if err != nil {
		return err
	}

	rpcServer := p2p.NewRPCServer(host, cs)
	rpcServer.RegisterHandlers()

	directory := p2p.NewPeerDirectory()
	client := p2p.NewClient(host, directory.AsPeerSource())
	client.WireEffects(reducer)

	deps := p2p.NewRemoteDependencyFetcher(cs, client, directory.AsPeerSource())

	validationCtx := &validation.Context{
		Store:   cs,
		Deps:    deps,
		Signer:  localSigner,
		Sandbox: sandboxRegistry,
		Source:  "gossip",
	}

	registry := validation.NewRegistry()
	sweeper := validation.NewSweeper(registry, ctx.Duration(config.SweepIntervalFlag.Name),
		func(p validation.PendingExpiry) {
			log.WithField("key", p.Key).Warn("pending validation expired without resolving")
		},
		func(retryCtx context.Context, pending chain.PendingValidation) validation.Result {
			return attemptHold(retryCtx, validationCtx, cs, pending.EntryWithHeader)
		},
	)

	gossip := p2p.NewGossip(host, func(gossipCtx context.Context, ewh chain.EntryWithHeader) error {
		return holdGossipedEntry(gossipCtx, validationCtx, registry, cs, ewh)
	})
	gossip.SetPeerDirectory(directory)

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go reducer.Run(runCtx)
	go sweeper.Run(runCtx)

	host.Start()
	if err := gossip.Start(runCtx); err != nil {
		return err
	}
	defer gossip.Stop()
	netState.Init()

	collector := &statedump.Collector{Store: cs, Registry: registry, Network: netState}
	scheduler := statedump.NewScheduler(
		collector,
		ctx.Duration(config.StateDumpIntervalFlag.Name),
		statedump.DumpOptions{IncludeEAVIndex: config.Get().StateDumpIncludeEAV},
		config.Get().EnableStateDumpScheduler,
	)
	go scheduler.Run(runCtx)

	log.WithField("peer_id", host.PeerID().Pretty()).Info("holdnode started")

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	<-sigc
	log.Info("shutting down")
	return nil
}

// attemptHold validates ewh against its own header and, on success,
// holds it. It is the single re-entrant attempt used both for a
// freshly gossiped entry and for the sweeper's periodic retry of a
// parked one, so holding semantics can never drift between the two
// call sites. A gossiped entry never carries an explicit
// modify-predecessor link of its own (the wire format this node speaks
// doesn't negotiate one), so every App entry is validated as a fresh
// creation rather than a modify; a transport that needs modify-in-place
// semantics would extend the gossip payload to carry that link
// alongside the entry.
func attemptHold(ctx context.Context, vctx *validation.Context, cs *store.Store, ewh chain.EntryWithHeader) validation.Result {
	data := chain.NewValidationData(chain.ValidationPackage{ChainHeader: ewh.Header})

	result := validation.ValidateEntry(ctx, vctx, ewh.Entry, nil, &data)
	if result.Outcome != validation.OutcomeValid {
		return result
	}
	if err := cs.HoldEntryWithHeader(ewh); err != nil {
		return validation.Result{Outcome: validation.OutcomeSystemError, Err: err}
	}
	return result
}

// holdGossipedEntry handles a freshly gossiped entry: valid entries are
// held immediately, pending ones are parked in registry for the
// sweeper to retry once their dependencies might have arrived, and
// anything else is rejected and logged.
func holdGossipedEntry(ctx context.Context, vctx *validation.Context, registry *validation.Registry, cs *store.Store, ewh chain.EntryWithHeader) error {
	result := attemptHold(ctx, vctx, cs, ewh)
	switch result.Outcome {
	case validation.OutcomeValid:
		return nil

	case validation.OutcomePending:
		registry.Enqueue(chain.PendingValidation{
			Workflow:        chain.WorkflowHolding,
			EntryWithHeader: ewh,
		}, nil)
		return nil

	default:
		log.WithField("entry_address", ewh.Header.EntryAddress).WithError(result.Err).Debug("rejected gossiped entry")
		return result.Err
	}
}
