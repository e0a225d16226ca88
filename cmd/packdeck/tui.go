package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	tuiwb "packdeck/internal/adapter/tui/workbench"
)

// runTUI opens the interactive workbench.
func runTUI(args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, args, true)
	if err != nil {
		return err
	}
	defer a.close()

	path := profilePath(args, a.cfg)
	opts, err := loadOptions(path, false)
	if err != nil {
		return err
	}
	if path == "" {
		path = tuiwb.DefaultProfilePath
	}

	bridge := tuiwb.NewBridge(a.cfg.UI.LogFlushPerSec, a.cfg.UI.LogFlushBurst)
	defer bridge.Stop()
	ctrl := a.controller(bridge)

	model := tuiwb.New(tuiwb.Deps{
		Controller:  ctrl,
		Bridge:      bridge,
		Prefs:       a.store,
		Bus:         a.bus,
		Logger:      a.log,
		UI:          a.cfg.UI,
		Theme:       a.theme(ctx),
		Options:     opts,
		ProfilePath: path,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	bridge.SetSender(p.Send)
	model.SetProgramSender(p.Send)

	_, runErr := p.Run()

	// The program is gone; make sure no packager outlives it.
	if ctrl.Running() {
		if err := ctrl.Stop(ctx); err != nil {
			a.log.Warn("stop on exit failed", "error", err)
		}
	}
	waitCtx, cancel := context.WithTimeout(ctx, a.cfg.Runner.StopGrace+time.Second)
	defer cancel()
	if err := ctrl.WaitIdle(waitCtx); err != nil {
		a.log.Warn("run still draining at exit", "error", err)
	}

	if runErr != nil {
		return fmt.Errorf("workbench: %w", runErr)
	}
	return nil
}
