package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/gofrs/flock"

	"wallshift/internal/config"
	"wallshift/internal/daemon"
	"wallshift/internal/ipc"
	"wallshift/internal/logging"
	"wallshift/internal/state"
	"wallshift/internal/swww"
)

func main() {
	configFlag := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, configPath, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	lock := flock.New(config.DefaultLockPath())
	locked, err := lock.TryLock()
	if err != nil {
		logger.Error("acquire instance lock", logging.Error(err))
		return
	}
	if !locked {
		logger.Error("another wallshiftd instance is already running",
			logging.String("lock", config.DefaultLockPath()))
		return
	}
	defer lock.Unlock() //nolint:errcheck

	tool := swww.New(swww.WithBinary(cfg.SwwwBinary()), swww.WithLogger(logger))
	if err := tool.Check(ctx); err != nil {
		logger.Error("swww daemon not reachable, start it first", logging.Error(err))
		return
	}
	outputs, err := tool.Outputs(ctx)
	if err != nil {
		logger.Error("query outputs", logging.Error(err))
		return
	}

	store := state.NewStore(cfg.StatePath())
	snap, err := store.Load()
	if err != nil {
		logger.Warn("saved state unreadable, starting fresh", logging.Error(err))
		snap = state.NewSnapshot()
	}
	if removed := snap.Prune(cfg.State.MaxAge.Std()); removed > 0 {
		logger.Info("pruned stale state records", logging.Int("removed", removed))
	}

	d := daemon.New(cfg, configPath, logger, tool, store)
	if err := d.Initialize(ctx, outputs, snap); err != nil {
		logger.Error("initialize daemon", logging.Error(err))
		return
	}

	ipcServer, err := ipc.NewServer(ctx, cfg.SocketPath(), d, logger)
	if err != nil {
		logger.Error("start control socket", logging.Error(err))
		return
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if cfg.Daemon.WatchConfig {
		go func() {
			if err := d.WatchConfig(ctx); err != nil {
				logger.Warn("config watcher stopped", logging.Error(err))
			}
		}()
	}

	d.Run(ctx)
}
