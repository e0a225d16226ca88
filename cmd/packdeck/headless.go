package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"packdeck/internal/adapter/tui/theme"
	"packdeck/internal/adapter/tui/uxerror"
	"packdeck/internal/domain"
	"packdeck/internal/infra/config"
	"packdeck/internal/usecase/command"
	"packdeck/internal/usecase/workbench"
)

// errRunFailed marks a packaging run that ended without success.
var errRunFailed = errors.New("packaging failed")

var errProfileRequired = errors.New("--profile is required (create one with 'packdeck profile init')")

// friendlyError carries the dialog text the TUI would show for err.
type friendlyError struct {
	text string
	err  error
}

func (e *friendlyError) Error() string { return e.text }
func (e *friendlyError) Unwrap() error { return e.err }

func friendly(err error) error {
	if errors.Is(err, errProfileRequired) {
		return err
	}
	fe := uxerror.Humanize(err)
	return &friendlyError{
		text: fe.Title + "\n" + fe.Render(theme.Symbols(false).Bullet),
		err:  err,
	}
}

// runBuild prints the command for a profile without running it.
func runBuild(args []string) error {
	cfg, err := config.Load(configPath(args))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return printCommand(os.Stdout, profilePath(args, cfg))
}

func printCommand(w io.Writer, path string) error {
	opts, err := loadOptions(path, true)
	if err != nil {
		return friendly(err)
	}
	tokens, err := command.Build(opts)
	if err != nil {
		return friendly(err)
	}
	fmt.Fprintln(w, command.Render(tokens))
	return nil
}

// runHeadless runs the packaging command of a profile, streaming the log
// to stdout. SIGINT and SIGTERM stop the run with the configured grace.
func runHeadless(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, args, false)
	if err != nil {
		return err
	}
	defer a.close()

	opts, err := loadOptions(profilePath(args, a.cfg), true)
	if err != nil {
		return friendly(err)
	}

	listener := workbench.NewWriterListener(os.Stdout)
	ctrl := a.controller(listener)
	result, err := runOnce(ctx, ctrl, listener, opts)
	if err != nil {
		return friendly(err)
	}
	if !result.Success {
		return errRunFailed
	}
	return nil
}

// runOnce starts a run and waits for its completion. Cancelling ctx asks
// the run to stop and still waits for the final result.
func runOnce(ctx context.Context, ctrl *workbench.Controller, listener *workbench.WriterListener, opts domain.OptionSet) (domain.RunResult, error) {
	if err := ctrl.Execute(context.WithoutCancel(ctx), opts, ""); err != nil {
		return domain.RunResult{}, err
	}

	select {
	case result := <-listener.Done():
		return result, nil
	case <-ctx.Done():
	}
	if err := ctrl.Stop(context.Background()); err != nil {
		return domain.RunResult{}, err
	}
	return <-listener.Done(), nil
}
