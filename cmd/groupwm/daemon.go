package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/1broseidon/groupwm/internal/config"
	"github.com/1broseidon/groupwm/internal/daemon"
	"github.com/1broseidon/groupwm/internal/group"
	"github.com/1broseidon/groupwm/internal/hotkeys"
	"github.com/1broseidon/groupwm/internal/ipc"
	"github.com/1broseidon/groupwm/internal/palette"
	"github.com/1broseidon/groupwm/internal/platform"
	"github.com/1broseidon/groupwm/internal/runtimepath"
)

func runDaemon(args []string) int {
	fs := newFlagSet("daemon", "daemon [--config PATH] [--display NAME]", "Run the group daemon in the foreground.")
	path := fs.String("config", "", "Config file path (default: ~/.config/groupwm/config.yaml)")
	displayFlag := fs.String("display", "", "X display to manage (default: config display, then $DISPLAY)")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	configPath, err := resolveConfigPath(*path)
	if err != nil {
		log.Fatalf("Failed to resolve config path: %v", err)
	}
	res, err := config.LoadFromPath(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config
	log.Printf("Configuration loaded from %s (%d autogroup rules)", configPath, len(cfg.Autogroup))

	var level slog.LevelVar
	if l, err := config.ParseLogLevel(cfg.LogLevel); err == nil {
		level.Set(l)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &level}))

	display := cfg.Display
	if *displayFlag != "" {
		display = *displayFlag
	}
	backend, err := platform.NewLinuxBackendFromDisplay(display)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Close()

	reg := group.NewRegistry(group.Deps{
		Props:   backend,
		Stack:   backend,
		Windows: backend,
		Logger:  logger.With("component", "group"),
		Rules:   cfg.Rules(),
		Sticky:  cfg.StickyGroups,
	})

	var picker group.Picker
	if pb, err := palette.NewBackend(cfg.PaletteBackend); err != nil {
		logger.Warn("group menu disabled", "palette_backend", cfg.PaletteBackend, "error", err)
	} else {
		picker = palette.Picker{Backend: pb}
	}

	tracker := daemon.NewTracker(backend, logger.With("component", "tracker"))
	ctrl := daemon.NewController(daemon.Options{
		Registry: reg,
		Tracker:  tracker,
		Active:   backend,
		Picker:   picker,
		Logger:   logger.With("component", "control"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ctrl.Run(ctx)

	// Hidden clients are unmapped and leave the client list, so destruction
	// is taken from DestroyNotify rather than from the list.
	backend.OnClientDestroyed(func(win platform.WindowID) {
		go func() {
			if err := ctrl.ClientDestroyed(ctx, win); err != nil && ctx.Err() == nil {
				logger.Warn("failed to drop destroyed client", "window", win, "error", err)
			}
		}()
	})

	if err := ctrl.SyncClients(ctx); err != nil {
		logger.Warn("initial client sync failed", "error", err)
	}

	// Client list changes arrive on the event loop; coalesce them so a burst
	// of map/unmap events costs one sync.
	syncRequests := make(chan struct{}, 1)
	if err := backend.OnClientsChanged(func() {
		select {
		case syncRequests <- struct{}{}:
		default:
		}
	}); err != nil {
		log.Fatalf("Failed to watch client list: %v", err)
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-syncRequests:
				if err := ctrl.SyncClients(ctx); err != nil && ctx.Err() == nil {
					logger.Warn("client sync failed", "error", err)
				}
			}
		}
	}()

	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: time.Duration(cfg.ReconcileIntervalSeconds) * time.Second,
		Logger:   logger.With("component", "reconciler"),
	}, ctrl)
	go reconciler.Run(ctx)

	hotkeyHandler, err := hotkeys.NewHandler(backend, logger.With("component", "hotkeys"))
	if err != nil {
		log.Fatalf("Failed to set up hotkeys: %v", err)
	}
	if err := hotkeyHandler.Bind(hotkeys.Bindings(cfg, ctrl, logger.With("component", "hotkeys"))); err != nil {
		log.Printf("Warning: %v", err)
	}
	go hotkeyHandler.Run(ctx)

	var reloadMu sync.Mutex
	reload := func(ctx context.Context) error {
		reloadMu.Lock()
		defer reloadMu.Unlock()

		res, err := config.LoadFromPath(configPath)
		if err != nil {
			return err
		}
		newCfg := res.Config
		if err := ctrl.Apply(ctx, newCfg); err != nil {
			return err
		}
		if err := hotkeyHandler.Bind(hotkeys.Bindings(newCfg, ctrl, logger.With("component", "hotkeys"))); err != nil {
			logger.Warn("some hotkeys failed to register", "error", err)
		}
		if l, err := config.ParseLogLevel(newCfg.LogLevel); err == nil {
			level.Set(l)
		}
		if newCfg.PaletteBackend != cfg.PaletteBackend || newCfg.Display != cfg.Display {
			logger.Info("palette_backend and display changes take effect after restart")
		}
		log.Println("Configuration reloaded")
		return nil
	}

	socketPath, err := socketPathFor(display)
	if err != nil {
		log.Fatalf("Failed to resolve IPC socket path: %v", err)
	}
	ipcServer, err := ipc.NewServer(ipc.ServerOptions{
		SocketPath: socketPath,
		Commands:   ctrl,
		Reload:     reload,
		Logger:     logger.With("component", "ipc"),
	})
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	go func() {
		err := config.Watch(ctx, configPath, logger.With("component", "config"), func() {
			if err := reload(ctx); err != nil {
				logger.Warn("config reload failed, keeping previous configuration", "error", err)
			}
		})
		if err != nil {
			logger.Warn("config watcher stopped", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigCh {
			if sig == syscall.SIGHUP {
				log.Println("Received SIGHUP, reloading config...")
				if err := reload(ctx); err != nil {
					log.Printf("Failed to reload config: %v", err)
				}
				continue
			}
			log.Printf("Received %v, shutting down...", sig)
			cancel()
			backend.QuitEventLoop()
			return
		}
	}()

	log.Println("groupwm daemon started successfully")
	backend.EventLoop()
	log.Println("groupwm daemon stopped")
	return 0
}

func resolveConfigPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return config.DefaultConfigPath()
}

func socketPathFor(display string) (string, error) {
	if display == "" || os.Getenv(runtimepath.SocketEnv) != "" {
		return runtimepath.SocketPath()
	}
	return runtimepath.SocketPathFor(display)
}
