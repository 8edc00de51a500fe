package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/metrofocus/internal/catalog"
	"github.com/abhisek/metrofocus/internal/config"
	"github.com/abhisek/metrofocus/internal/game"
	"github.com/abhisek/metrofocus/internal/ledger"
	"github.com/abhisek/metrofocus/internal/logging"
	"github.com/abhisek/metrofocus/internal/metrics"
	"github.com/abhisek/metrofocus/internal/session"
	"github.com/abhisek/metrofocus/internal/store"
	"github.com/abhisek/metrofocus/internal/tui"
)

// appEnv is everything a command needs, wired from the configuration.
type appEnv struct {
	cfg     *config.Config
	log     *logrus.Logger
	backend store.Backend
	ledger  *ledger.Ledger
	engine  *session.Engine
	metrics *metrics.Server
	closers []io.Closer
}

// envMode says how a command uses the environment.
type envMode int

const (
	// modeOneShot reads or changes player state and exits.
	modeOneShot envMode = iota
	// modeHeadless runs a session with progress printed to stdout.
	modeHeadless
	// modeTUI runs the terminal UI. Logs go to a file so they don't draw
	// over the alt screen.
	modeTUI
)

// openEnv loads the configuration, opens the backend and builds the ledger
// and engine. The metrics server only runs for session modes.
func openEnv(cmd *cobra.Command, mode envMode) (*appEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.ApplyFlags(cmd)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logOpts := logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile}
	if mode == modeTUI && logOpts.File == "" {
		dir, err := store.DataDir()
		if err != nil {
			return nil, err
		}
		logOpts.File = filepath.Join(dir, "metrofocus.log")
	}
	log, logCloser, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}
	logging.Install(log)

	env := &appEnv{cfg: cfg, log: log, closers: []io.Closer{logCloser}}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dsn := cfg.DBPath
	if dsn != "" {
		if err := store.EnsureDir(dsn); err != nil {
			env.Close()
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
	}
	backend, err := store.OpenBackend(ctx, store.Options{
		Kind: cfg.Backend,
		DSN:  dsn,
		Redis: store.RedisOptions{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			DB:         cfg.RedisDB,
			KeyPrefix:  cfg.RedisKeyPrefix,
			MaxRetries: cfg.RedisRetries,
		},
	})
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	env.backend = backend

	furniture, err := catalog.LoadFurniture(cfg.CatalogPath)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	ledgerOpts := []ledger.Option{ledger.WithLogger(log), ledger.WithFurniture(furniture)}
	engineOpts := []session.Option{session.WithLogger(log), session.WithRecorder(backend)}
	if cfg.MetricsAddr != "" && mode != modeOneShot {
		reg := metrics.NewRegistry()
		rec := metrics.NewRecorder(reg)
		ledgerOpts = append(ledgerOpts, ledger.WithMetrics(rec))
		engineOpts = append(engineOpts, session.WithMetrics(rec))

		env.metrics = metrics.NewServer(cfg.MetricsAddr, reg)
		if err := env.metrics.Start(); err != nil {
			env.metrics = nil
			env.Close()
			return nil, fmt.Errorf("start metrics server: %w", err)
		}
	}

	l, err := ledger.New(ctx, store.NewPlayerRepo(backend), ledgerOpts...)
	if err != nil {
		if !game.IsPersistence(err) {
			env.Close()
			return nil, err
		}
		if errors.Is(err, game.ErrCorruptRecord) {
			log.Warnf("recovered player state, unreadable values kept under *%s: %v", store.CorruptSuffix, err)
		} else {
			log.Warnf("player state unreadable, progress is not saved until reset: %v", err)
		}
	}
	env.ledger = l
	env.engine = session.New(l, engineOpts...)
	return env, nil
}

// Close releases everything openEnv acquired.
func (e *appEnv) Close() {
	if e.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := e.metrics.Shutdown(ctx); err != nil {
			logrus.Warnf("metrics shutdown: %v", err)
		}
		cancel()
	}
	if e.backend != nil {
		if err := e.backend.Close(); err != nil {
			logrus.Warnf("close store: %v", err)
		}
	}
	for _, c := range e.closers {
		c.Close()
	}
}

// runTUI drives the engine in real time and hosts it in the terminal UI.
func (e *appEnv) runTUI(ctx context.Context) error {
	driver := session.NewDriver(ctx, e.engine, e.cfg.TickInterval)
	defer driver.Close()

	err := tui.Run(ctx, e.engine, e.ledger)

	// Leaving mid-session forfeits it.
	if st := e.engine.Snapshot(); !st.Idle() && !st.Finished() {
		if _, abandonErr := e.engine.Abandon(ctx); abandonErr != nil {
			err = errors.Join(err, abandonErr)
		}
	}
	return err
}

// runHome opens the terminal UI with no session running.
func runHome(cmd *cobra.Command) error {
	env, err := openEnv(cmd, modeTUI)
	if err != nil {
		return err
	}
	defer env.Close()
	return env.runTUI(commandContext(cmd))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
