package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"packdeck/internal/adapter/profile"
	"packdeck/internal/adapter/tui/workbench"
	"packdeck/internal/domain"
)

func runProfile(args []string) error {
	pos := positional(args)
	if len(pos) == 0 {
		printProfileUsage()
		return nil
	}
	switch pos[0] {
	case "init":
		path := workbench.DefaultProfilePath
		if len(pos) > 1 {
			path = pos[1]
		}
		if err := initProfile(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s. Edit it, then run 'packdeck build --profile %s'.\n", path, path)
		return nil
	default:
		return fmt.Errorf("unknown profile subcommand: %s\n\nRun 'packdeck profile' for usage", pos[0])
	}
}

func printProfileUsage() {
	fmt.Println(`packdeck profile - Profile tools

USAGE:
    packdeck profile <COMMAND>

COMMANDS:
    init [PATH]    Write a starter profile (default: packdeck-profile.yaml)`)
}

// initProfile writes the starter profile, refusing to overwrite.
func initProfile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.WriteFile(path, profile.Example(), 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

func runTheme(args []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, args, false)
	if err != nil {
		return err
	}
	defer a.close()

	pos := positional(args)
	arg := ""
	if len(pos) > 0 {
		arg = pos[0]
	}
	t, err := applyTheme(ctx, a.store, arg)
	if err != nil {
		return err
	}
	fmt.Printf("theme: %s\n", t)
	return nil
}

// applyTheme reads the saved theme and, for a non-empty arg, changes it.
func applyTheme(ctx context.Context, prefs domain.PreferenceStore, arg string) (domain.Theme, error) {
	dark, err := prefs.GetBool(ctx, domain.PreferenceDarkTheme, true)
	if err != nil {
		return domain.ThemeDark, err
	}
	current := domain.ThemeFromDark(dark)

	var next domain.Theme
	switch strings.ToLower(arg) {
	case "":
		return current, nil
	case "dark":
		next = domain.ThemeDark
	case "light":
		next = domain.ThemeLight
	case "toggle":
		next = current.Toggle()
	default:
		return current, fmt.Errorf("unknown theme %q (want: dark, light, toggle)", arg)
	}
	if err := prefs.SetBool(ctx, domain.PreferenceDarkTheme, next.Dark()); err != nil {
		return current, err
	}
	return next, nil
}

func runHistory(args []string) error {
	limit, err := intFlag(args, "--limit", 20)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, args, false)
	if err != nil {
		return err
	}
	defer a.close()

	runs, err := a.store.RecentRuns(ctx, limit)
	if err != nil {
		return err
	}
	printHistory(os.Stdout, runs, time.Now())
	return nil
}

func printHistory(out io.Writer, runs []domain.RunRecord, now time.Time) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No packaging runs recorded yet.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSTATUS\tEXIT\tDURATION\tCOMMAND")
	for _, r := range runs {
		status := string(r.Status)
		if r.Cancelled {
			status += " (stopped)"
		}
		cmd := r.Command
		if len(cmd) > 60 {
			cmd = cmd[:57] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			humanize.RelTime(r.StartedAt, now, "ago", "from now"),
			status,
			r.ExitCode,
			r.EndedAt.Sub(r.StartedAt).Round(time.Second),
			cmd,
		)
	}
	w.Flush()
}
