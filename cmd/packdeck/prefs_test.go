package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packdeck/internal/adapter/profile"
	"packdeck/internal/adapter/store"
	"packdeck/internal/domain"
)

func TestInitProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.yaml")
	require.NoError(t, initProfile(path))

	opts, err := profile.Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, opts.Script)

	assert.ErrorContains(t, initProfile(path), "already exists")
}

func TestApplyTheme(t *testing.T) {
	ctx := context.Background()
	prefs := store.NewMemory()

	got, err := applyTheme(ctx, prefs, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, got)

	got, err = applyTheme(ctx, prefs, "toggle")
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, got)

	dark, err := prefs.GetBool(ctx, domain.PreferenceDarkTheme, true)
	require.NoError(t, err)
	assert.False(t, dark)

	got, err = applyTheme(ctx, prefs, "DARK")
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, got)

	_, err = applyTheme(ctx, prefs, "solarized")
	assert.Error(t, err)
}

func TestPrintHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var out bytes.Buffer
	printHistory(&out, nil, now)
	assert.Equal(t, "No packaging runs recorded yet.\n", out.String())

	out.Reset()
	printHistory(&out, []domain.RunRecord{
		{
			ID:        "01J",
			Command:   "python -m nuitka --onefile app.py",
			Status:    domain.RunStatusSucceeded,
			StartedAt: now.Add(-2 * time.Hour),
			EndedAt:   now.Add(-2*time.Hour + 90*time.Second),
		},
		{
			ID:        "01K",
			Command:   "python -m nuitka " + strings.Repeat("--x ", 30) + "app.py",
			Status:    domain.RunStatusFailed,
			Cancelled: true,
			ExitCode:  -1,
			StartedAt: now.Add(-time.Minute),
			EndedAt:   now.Add(-time.Minute + time.Second),
		},
	}, now)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "STARTED"))
	assert.Contains(t, lines[1], "2 hours ago")
	assert.Contains(t, lines[1], "1m30s")
	assert.Contains(t, lines[2], "failed (stopped)")
	assert.True(t, strings.HasSuffix(lines[2], "..."))
}

func TestRunProfile_UnknownSubcommand(t *testing.T) {
	assert.Error(t, runProfile([]string{"frobnicate"}))
}

func TestRunProfile_InitDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, runProfile([]string{"init"}))
	assert.FileExists(t, filepath.Join(dir, "packdeck-profile.yaml"))
}
