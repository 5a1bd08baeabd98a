// This program runs the proof of work ledger node. It maintains the chain
// and the mempool in memory, produces blocks through a background worker,
// and serves the public API for submitting transactions, querying the
// chain, and generating merkle inclusion proofs.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/app/services/node/handlers"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/events"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/genesis"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/state"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/storage/archive"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/worker"
	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/logger"
	"github.com/ardanlabs/conf/v3"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			APIHost         string        `conf:"default:0.0.0.0:8080"`
			DebugHost       string        `conf:"default:0.0.0.0:8090"`
		}
		Node struct {
			MinerAddress   string `conf:"required"`
			GenesisFile    string `conf:"default:zblock/genesis.json"`
			ChainArchive   string `conf:"default:zblock/archive/chain.json.gz"`
			MempoolArchive string `conf:"default:zblock/archive/mempool.json.gz"`
			SelectStrategy string `conf:"default:fee"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	fmt.Print(banner)

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Load Chain Data

	if !common.IsHexAddress(cfg.Node.MinerAddress) {
		return fmt.Errorf("miner address %q is not a valid hex address", cfg.Node.MinerAddress)
	}

	// Load the genesis parameters or fall back to the defaults when no
	// genesis file exists on disk.
	gen, err := genesis.Load(cfg.Node.GenesisFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading genesis: %w", err)
		}
		gen = genesis.Default()
		log.Infow("startup", "status", "genesis file not found, using defaults", "path", cfg.Node.GenesisFile)
	}

	// A missing archive just means this node is starting from an empty chain.
	chain, err := archive.LoadChain(cfg.Node.ChainArchive)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading chain archive: %w", err)
	}

	pool, err := archive.LoadMempool(cfg.Node.MempoolArchive)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading mempool archive: %w", err)
	}

	log.Infow("startup", "status", "chain data loaded", "blocks", len(chain), "mempool", len(pool))

	// =========================================================================
	// Start Ledger State

	evts := events.New()

	// The event handler streams state and worker activity to the logs and
	// to any connected websocket clients.
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	st, err := state.New(state.Config{
		MinerAddress:   cfg.Node.MinerAddress,
		Genesis:        gen,
		Chain:          chain,
		Mempool:        pool,
		SelectStrategy: cfg.Node.SelectStrategy,
		EvHandler:      ev,
	})
	if err != nil {
		return fmt.Errorf("starting state: %w", err)
	}

	// Refuse to serve a chain that doesn't hash together.
	if err := st.ValidateChain(); err != nil {
		return fmt.Errorf("validating chain archive: %w", err)
	}

	// Start the worker that owns block production. From this point the
	// state must be shut down on every exit path.
	worker.Run(st, ev)

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug router started", "host", cfg.Web.DebugHost)

	// The Debug function returns a mux to listen and serve on for all the debug
	// related endpoints. This includes the standard library endpoints.
	debugMux := handlers.DebugMux(build, log, st)

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Start API Service

	log.Infow("startup", "status", "initializing API support")

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Construct the mux for the API calls.
	apiMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		State:    st,
		Evts:     evts,
	})

	// Construct a server to service the requests against the mux.
	api := http.Server{
		Addr:         cfg.Web.APIHost,
		Handler:      apiMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "api router started", "host", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		if err := st.Shutdown(); err != nil {
			log.Errorw("shutdown", "status", "stopping state", "ERROR", err)
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any websockets that are currently active.
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and shed load.
		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			st.Shutdown()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}

		// Stop any block production that is in flight.
		if err := st.Shutdown(); err != nil {
			return fmt.Errorf("could not stop state gracefully: %w", err)
		}

		// Persist the chain and the mempool so the next run picks up
		// where this one left off.
		if err := archive.SaveChain(cfg.Node.ChainArchive, st.RetrieveChain()); err != nil {
			return fmt.Errorf("saving chain archive: %w", err)
		}
		if err := archive.SaveMempool(cfg.Node.MempoolArchive, st.MempoolTransactions()); err != nil {
			return fmt.Errorf("saving mempool archive: %w", err)
		}

		log.Infow("shutdown", "status", "chain data archived", "chain", cfg.Node.ChainArchive, "mempool", cfg.Node.MempoolArchive)
	}

	return nil
}

// banner is displayed when the node starts.
const banner = `
 ____    ___  __        __   _      _____  ____    ____  _____  ____
|  _ \  / _ \ \ \      / /  | |    | ____||  _ \  / ___|| ____||  _ \
| |_) || | | | \ \ /\ / /   | |    |  _|  | | | || |  _ |  _|  | |_) |
|  __/ | |_| |  \ V  V /    | |___ | |___ | |_| || |_| || |___ |  _ <
|_|     \___/    \_/\_/     |_____||_____||____/  \____||_____||_| \_\

`
