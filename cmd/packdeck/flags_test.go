package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packdeck/internal/infra/config"
)

func TestFlagValue(t *testing.T) {
	args := []string{"build", "--profile", "a.yaml", "--config=c.yaml"}

	v, ok := flagValue(args, "--profile")
	assert.True(t, ok)
	assert.Equal(t, "a.yaml", v)

	v, ok = flagValue(args, "--config")
	assert.True(t, ok)
	assert.Equal(t, "c.yaml", v)

	_, ok = flagValue(args, "--python")
	assert.False(t, ok)

	// A trailing flag without a value is absent.
	_, ok = flagValue([]string{"--profile"}, "--profile")
	assert.False(t, ok)
}

func TestPositional(t *testing.T) {
	got := positional([]string{"init", "--config", "c.yaml", "out.yaml", "--verbose", "--limit=3"})
	assert.Equal(t, []string{"init", "out.yaml"}, got)
	assert.Empty(t, positional([]string{"--profile", "p.yaml"}))
}

func TestIntFlag(t *testing.T) {
	n, err := intFlag(nil, "--limit", 20)
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	n, err = intFlag([]string{"--limit", "5"}, "--limit", 20)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = intFlag([]string{"--limit=0"}, "--limit", 20)
	assert.Error(t, err)
	_, err = intFlag([]string{"--limit", "many"}, "--limit", 20)
	assert.Error(t, err)
}

func TestConfigPath(t *testing.T) {
	t.Setenv("PACKDECK_CONFIG", "")
	assert.Equal(t, "packdeck.yaml", configPath(nil))

	t.Setenv("PACKDECK_CONFIG", "/etc/packdeck.yaml")
	assert.Equal(t, "/etc/packdeck.yaml", configPath(nil))
	assert.Equal(t, "mine.yaml", configPath([]string{"--config", "mine.yaml"}))
}

func TestProfilePath(t *testing.T) {
	cfg := config.Defaults()
	cfg.Profile = "default.yaml"

	assert.Equal(t, "default.yaml", profilePath(nil, cfg))
	assert.Equal(t, "p.yaml", profilePath([]string{"--profile", " p.yaml "}, cfg))
	assert.Empty(t, profilePath(nil, nil))
}
