package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"packdeck/internal/adapter/profile"
	"packdeck/internal/adapter/store"
	"packdeck/internal/domain"
	"packdeck/internal/infra/config"
	"packdeck/internal/infra/logger"
	"packdeck/internal/infra/tracer"
	"packdeck/internal/usecase/eventbus"
	"packdeck/internal/usecase/history"
	"packdeck/internal/usecase/probe"
	"packdeck/internal/usecase/runner"
	"packdeck/internal/usecase/workbench"
)

// app holds the components shared by every command that runs packaging.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	store    store.Store
	bus      *eventbus.Bus
	recorder *history.Recorder
	runner   *runner.Runner
	prober   workbench.Prober // nil when detection is disabled

	closers []func()
}

// newApp loads the configuration and wires the shared components. With
// tui set, log and trace output is kept off the terminal. The caller must
// call close.
func newApp(ctx context.Context, args []string, tui bool) (*app, error) {
	cfgPath := configPath(args)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if tui {
		cfg.ForTerminalUI()
	}

	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	a := &app{cfg: cfg, log: log}
	a.onClose(func() { _ = logCloser() })

	shutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		log.Warn("tracer setup failed, continuing without tracing", "error", err)
	} else {
		a.onClose(func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn("tracer shutdown failed", "error", err)
			}
		})
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		log.Warn("store unavailable, preferences and history will not persist",
			"driver", cfg.Store.Driver,
			"error", err,
		)
		st = store.NewMemory()
	}
	a.store = st
	a.onClose(func() {
		if err := st.Close(); err != nil {
			log.Warn("store close failed", "error", err)
		}
	})

	a.bus = eventbus.New(log)
	a.recorder = history.NewRecorder(a.bus, st, log)
	a.onClose(func() {
		// Drain run.finished handlers before the store closes.
		a.bus.Close()
		a.recorder.Stop()
	})

	a.runner = runner.New(runner.Config{
		EventBuffer:  cfg.Runner.EventBuffer,
		MaxLineBytes: cfg.Runner.MaxLineBytes,
		Dir:          cfg.Runner.WorkDir,
	}, a.bus, log)

	if cfg.Probe.Enabled {
		a.prober = probe.New(probe.Config{
			Timeout:          cfg.Probe.Timeout,
			FailureThreshold: cfg.Probe.FailureThreshold,
			OpenTimeout:      cfg.Probe.OpenTimeout,
		}, probe.ExecExecutor{}, log)
	}

	log.Info("packdeck starting", "config", cfgPath, "store", cfg.Store.Driver)
	return a, nil
}

func (a *app) onClose(fn func()) { a.closers = append(a.closers, fn) }

// close releases components in reverse order of creation.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *app) controller(listener workbench.Listener) *workbench.Controller {
	return workbench.NewController(workbench.Config{
		StopGrace: a.cfg.Runner.StopGrace,
	}, a.runner, a.prober, listener, a.log)
}

// theme reads the saved theme; a broken store falls back to dark.
func (a *app) theme(ctx context.Context) domain.Theme {
	dark, err := a.store.GetBool(ctx, domain.PreferenceDarkTheme, true)
	if err != nil {
		a.log.Warn("theme preference unreadable, using dark", "error", err)
		return domain.ThemeDark
	}
	return domain.ThemeFromDark(dark)
}

// profilePath returns --profile, then the configured profile.
func profilePath(args []string, cfg *config.Config) string {
	if p, ok := flagValue(args, "--profile"); ok {
		return strings.TrimSpace(p)
	}
	if cfg != nil {
		return cfg.Profile
	}
	return ""
}

// loadOptions reads the profile at path. required makes an empty path an
// error; otherwise it yields a blank option set.
func loadOptions(path string, required bool) (domain.OptionSet, error) {
	if path == "" {
		if required {
			return domain.OptionSet{}, errProfileRequired
		}
		return domain.OptionSet{}, nil
	}
	return profile.Load(path)
}
