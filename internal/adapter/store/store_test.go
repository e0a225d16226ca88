package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packdeck/internal/domain"
	"packdeck/internal/infra/config"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "packdeck.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// backends runs fn against every Store implementation.
func backends(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, newTestSQLite(t)) })
	t.Run("memory", func(t *testing.T) { fn(t, NewMemory()) })
}

func record(id string, started time.Time, status domain.RunStatus) domain.RunRecord {
	return domain.RunRecord{
		ID:        id,
		Command:   "python -m nuitka main.py",
		Status:    status,
		StartedAt: started,
		EndedAt:   started.Add(3 * time.Second),
	}
}

func TestPreferenceDefault(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		v, err := s.GetBool(context.Background(), domain.PreferenceDarkTheme, true)
		require.NoError(t, err)
		assert.True(t, v)
	})
}

func TestPreferenceRoundTrip(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		require.NoError(t, s.SetBool(ctx, domain.PreferenceDarkTheme, false))

		v, err := s.GetBool(ctx, domain.PreferenceDarkTheme, true)
		require.NoError(t, err)
		assert.False(t, v)

		require.NoError(t, s.SetBool(ctx, domain.PreferenceDarkTheme, true))
		v, err = s.GetBool(ctx, domain.PreferenceDarkTheme, false)
		require.NoError(t, err)
		assert.True(t, v)
	})
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		require.NoError(t, s.RecordRun(ctx, record("01A", base, domain.RunStatusSucceeded)))
		require.NoError(t, s.RecordRun(ctx, record("01C", base.Add(2*time.Minute), domain.RunStatusFailed)))
		require.NoError(t, s.RecordRun(ctx, record("01B", base.Add(time.Minute), domain.RunStatusSucceeded)))

		runs, err := s.RecentRuns(ctx, 2)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "01C", runs[0].ID)
		assert.Equal(t, "01B", runs[1].ID)
		assert.Equal(t, domain.RunStatusFailed, runs[0].Status)
		assert.True(t, runs[0].StartedAt.Equal(base.Add(2*time.Minute)))

		none, err := s.RecentRuns(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestRecentRunsOrderWithinOneSecond(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		require.NoError(t, s.RecordRun(ctx, record("01B", base, domain.RunStatusSucceeded)))
		require.NoError(t, s.RecordRun(ctx, record("01A", base.Add(100*time.Millisecond), domain.RunStatusSucceeded)))
		require.NoError(t, s.RecordRun(ctx, record("01C", base.Add(20*time.Millisecond), domain.RunStatusSucceeded)))

		runs, err := s.RecentRuns(ctx, 10)
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, []string{"01A", "01C", "01B"}, []string{runs[0].ID, runs[1].ID, runs[2].ID})
		assert.True(t, runs[2].StartedAt.Equal(base))
	})
}

func TestRecordRunReplacesSameID(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		now := time.Now().UTC()
		require.NoError(t, s.RecordRun(ctx, record("01A", now, domain.RunStatusRunning)))

		rec := record("01A", now, domain.RunStatusFailed)
		rec.Cancelled = true
		rec.ExitCode = -1
		require.NoError(t, s.RecordRun(ctx, rec))

		runs, err := s.RecentRuns(ctx, 10)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.True(t, runs[0].Cancelled)
		assert.Equal(t, -1, runs[0].ExitCode)
		assert.Equal(t, domain.RunStatusFailed, runs[0].Status)
	})
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packdeck.db")
	ctx := context.Background()

	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.SetBool(ctx, domain.PreferenceDarkTheme, false))
	require.NoError(t, s.Close())

	s, err = NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.GetBool(ctx, domain.PreferenceDarkTheme, true)
	require.NoError(t, err)
	assert.False(t, v)
}

func TestSQLiteCorruptPreference(t *testing.T) {
	s := newTestSQLite(t)
	_, err := s.db.Exec("INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)",
		domain.PreferenceDarkTheme, "maybe", time.Now().UTC().Format(time.RFC3339Nano))
	require.NoError(t, err)

	v, err := s.GetBool(context.Background(), domain.PreferenceDarkTheme, true)
	assert.True(t, v, "falls back to the default")
	assert.ErrorIs(t, err, domain.ErrPreferenceStore)
}

func TestOpen(t *testing.T) {
	mem, err := Open(config.StoreConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, mem)

	path := filepath.Join(t.TempDir(), "nested", "dir", "packdeck.db")
	db, err := Open(config.StoreConfig{Driver: "sqlite", Path: path})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, db)
	require.NoError(t, db.Close())

	_, err = Open(config.StoreConfig{Driver: "etcd"})
	assert.Error(t, err)
}
