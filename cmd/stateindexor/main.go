package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goran-ethernal/StateIndexor/internal/blocksource"
	"github.com/goran-ethernal/StateIndexor/internal/common"
	"github.com/goran-ethernal/StateIndexor/internal/config"
	"github.com/goran-ethernal/StateIndexor/internal/consumers/activity"
	"github.com/goran-ethernal/StateIndexor/internal/consumers/chainmeta"
	"github.com/goran-ethernal/StateIndexor/internal/indexer"
	"github.com/goran-ethernal/StateIndexor/internal/kvstore"
	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/internal/metrics"
	"github.com/goran-ethernal/StateIndexor/internal/rpc"
	"github.com/goran-ethernal/StateIndexor/internal/undo"
	"github.com/goran-ethernal/StateIndexor/internal/versioned"
	"github.com/goran-ethernal/StateIndexor/pkg/api"
	pkgconfig "github.com/goran-ethernal/StateIndexor/pkg/config"
	idx "github.com/goran-ethernal/StateIndexor/pkg/indexer"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	version = "1.0.0"
	banner  = `
╔═══════════════════════════════════════════╗
║           StateIndexor v%s             ║
║   Reorg-safe derived state over a chain   ║
╚═══════════════════════════════════════════╝
`
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stateindexor",
	Short: "StateIndexor - derived state indexing over an append-only upstream store",
	Long: `StateIndexor reads blocks from a node, runs them through a pipeline of
consumers and keeps the derived key-value state consistent with an upstream
versioned store across reorgs and crashes.`,
	Version:      version,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the indexing loop and the read API",
	RunE:  runIndexer,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")
	rootCmd.AddCommand(runCmd, statusCmd, rollbackCmd, consumersCmd, schemaCmd)
}

// newRegistry registers the built-in consumer types.
func newRegistry(log *logger.Logger) *idx.Registry {
	reg := idx.NewRegistry(log)
	reg.Register(chainmeta.Descriptor())
	reg.Register(activity.Descriptor())
	return reg
}

// openStore opens the undo log and the primary store on top of it. The
// returned close func releases both.
func openStore(cfg *pkgconfig.Config) (*kvstore.Store, func(), error) {
	undoLog, err := undo.Open(cfg.Undo, logger.NewComponentLoggerFromConfig(common.ComponentUndoLog, cfg.Logging))
	if err != nil {
		return nil, nil, err
	}

	storeLog := logger.NewComponentLoggerFromConfig(common.ComponentStore, cfg.Logging)
	engine, err := kvstore.OpenEngine(cfg.Store, storeLog)
	if err != nil {
		_ = undoLog.Close()
		return nil, nil, err
	}

	store := kvstore.New(engine, undoLog, storeLog)
	return store, func() {
		if err := store.Close(); err != nil {
			storeLog.Warnf("failed to close store: %v", err)
		}
		if err := undoLog.Close(); err != nil {
			storeLog.Warnf("failed to close undo log: %v", err)
		}
	}, nil
}

func runIndexer(cmd *cobra.Command, args []string) error {
	fmt.Printf(banner, version)

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.NewComponentLoggerFromConfig(common.ComponentIndexer, cfg.Logging)
	logger.SetDefaultLogger(log)

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer closeStore()

	maintenance := store.Undo().Maintenance()
	if err := maintenance.Start(ctx); err != nil {
		return fmt.Errorf("failed to start undo log maintenance: %w", err)
	}
	defer func() {
		if err := maintenance.Stop(); err != nil {
			log.Warnf("failed to stop undo log maintenance: %v", err)
		}
	}()

	log.Infof("Opening upstream store at %s", cfg.Upstream.Path)
	upstream, err := versioned.Open(ctx, cfg.Upstream,
		logger.NewComponentLoggerFromConfig(common.ComponentUpstream, cfg.Logging))
	if err != nil {
		return fmt.Errorf("failed to open upstream store: %w", err)
	}
	defer upstream.Close()

	var (
		source   blocksource.BlockSource
		pipeline *idx.Pipeline
	)

	if len(cfg.Consumers) > 0 {
		log.Infof("Building pipeline with %d consumer(s)...", len(cfg.Consumers))
		pipeline, err = idx.BuildPipeline(
			newRegistry(log),
			cfg.Consumers,
			logger.NewComponentLoggerFromConfig(common.ComponentConsumer, cfg.Logging),
		)
		if err != nil {
			return fmt.Errorf("failed to build consumer pipeline: %w", err)
		}
	}

	if !cfg.Indexing.ViewOnly {
		sourceLog := logger.NewComponentLoggerFromConfig(common.ComponentBlockSource, cfg.Logging)
		client, err := rpc.NewClient(cfg.BlockSource, sourceLog)
		if err != nil {
			return fmt.Errorf("failed to create node client: %w", err)
		}
		defer client.Close()
		source = blocksource.NewBitcoind(client, sourceLog)
		log.Infof("Using bitcoind block source at %s", cfg.BlockSource.Host)
	}

	coordinator := indexer.NewCoordinator(cfg.Indexing, cfg.Reorg, store, upstream, source, pipeline, log)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics, log)
		g.Go(func() error {
			if err := metricsServer.Start(ctx); err != nil {
				return fmt.Errorf("failed to start metrics server: %w", err)
			}
			<-ctx.Done()
			return metricsServer.Stop(context.WithoutCancel(ctx))
		})
	}

	if cfg.API != nil && cfg.API.Enabled {
		backend := api.Backend{
			Store:  store,
			Undo:   store.Undo(),
			Status: coordinator,
		}
		if pipeline != nil {
			backend.Consumers = pipeline.Consumers()
		}
		apiServer := api.NewServer(cfg.API, backend,
			logger.NewComponentLoggerFromConfig(common.ComponentAPI, cfg.Logging))
		g.Go(func() error {
			return apiServer.Start(ctx)
		})
	}

	g.Go(func() error {
		return coordinator.Run(ctx)
	})

	log.Info("Starting StateIndexor...")

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("StateIndexor stopped successfully")
	return nil
}
