package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packdeck/internal/infra/config"
	"packdeck/internal/usecase/probe"
	"packdeck/internal/usecase/workbench"
)

func TestCheckConfigFile_NotFound(t *testing.T) {
	result := checkConfigFile("/nonexistent/path/packdeck.yaml", nil)(nil)
	assert.Equal(t, StatusWarn, result.Status)
	assert.NotEmpty(t, result.Fix)
}

func TestCheckConfigFile_ParseError(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "packdeck.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("runner: {{"), 0o644))

	result := checkConfigFile(cfgPath, &config.ValidationError{Errors: []string{"bad yaml"}})(nil)
	assert.Equal(t, StatusFail, result.Status)
}

func TestCheckConfigFile_Valid(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "packdeck.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("ui:\n  ascii_symbols: true\n"), 0o644))

	result := checkConfigFile(cfgPath, nil)(nil)
	assert.Equal(t, StatusPass, result.Status, result.Message)
}

func TestCheckDataDir(t *testing.T) {
	cfg := config.Defaults()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")

	result := checkDataDir(cfg)
	assert.Equal(t, StatusPass, result.Status, result.Message)
	assert.DirExists(t, cfg.DataDir)

	entries, err := os.ReadDir(cfg.DataDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file must be removed")

	assert.Equal(t, StatusFail, checkDataDir(nil).Status)
}

func TestCheckLogOutput(t *testing.T) {
	cfg := config.Defaults()
	cfg.Logger.Output = "stderr"
	assert.Equal(t, StatusWarn, checkLogOutput(cfg).Status)

	cfg.Logger.Output = filepath.Join(t.TempDir(), "logs", "packdeck.log")
	result := checkLogOutput(cfg)
	assert.Equal(t, StatusPass, result.Status, result.Message)
}

func TestCheckStore(t *testing.T) {
	cfg := config.Defaults()
	cfg.Store.Path = filepath.Join(t.TempDir(), "packdeck.db")

	result := checkStore(cfg)
	assert.Equal(t, StatusPass, result.Status, result.Message)
	assert.Contains(t, result.Message, "theme dark")

	cfg.Store.Driver = "etcd"
	assert.Equal(t, StatusWarn, checkStore(cfg).Status)
}

func TestCheckInterpreter(t *testing.T) {
	assert.Equal(t, StatusWarn, checkInterpreter("")(nil).Status)
	assert.Equal(t, StatusFail, checkInterpreter("/no/such/python")(nil).Status)
	assert.Equal(t, StatusFail, checkInterpreter(t.TempDir()+"/")(nil).Status)

	exe := filepath.Join(t.TempDir(), "python")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))
	result := checkInterpreter(exe)(nil)
	assert.Equal(t, StatusPass, result.Status, result.Message)
	assert.Equal(t, exe, result.Message)
}

type stubProber struct{ res probe.Result }

func (s stubProber) Detect(context.Context, string) probe.Result { return s.res }

func proberOf(p workbench.Prober) func(*config.Config) workbench.Prober {
	return func(*config.Config) workbench.Prober { return p }
}

func TestCheckNuitka(t *testing.T) {
	cfg := config.Defaults()

	t.Run("no interpreter", func(t *testing.T) {
		assert.Equal(t, StatusWarn, checkNuitka("", proberOf(stubProber{}))(cfg).Status)
	})

	t.Run("detection disabled", func(t *testing.T) {
		assert.Equal(t, StatusWarn, checkNuitka("/py", proberOf(nil))(cfg).Status)
	})

	t.Run("missing", func(t *testing.T) {
		result := checkNuitka("/py", proberOf(stubProber{}))(cfg)
		assert.Equal(t, StatusFail, result.Status)
		assert.Contains(t, result.Fix, "pip install nuitka")
	})

	t.Run("found", func(t *testing.T) {
		p := stubProber{res: probe.Result{Installed: true, Strategy: probe.StrategyModule, Detail: "2.4.8"}}
		result := checkNuitka("/py", proberOf(p))(cfg)
		assert.Equal(t, StatusPass, result.Status)
		assert.Equal(t, "found via module check (2.4.8)", result.Message)
	})
}

func TestNewProber(t *testing.T) {
	cfg := config.Defaults()
	assert.NotNil(t, newProber(cfg))

	cfg.Probe.Enabled = false
	assert.Nil(t, newProber(cfg))
	assert.Nil(t, newProber(nil))
}

func TestReport(t *testing.T) {
	pass := func(*config.Config) CheckResult { return CheckResult{Status: StatusPass, Message: "ok"} }
	warn := func(*config.Config) CheckResult { return CheckResult{Status: StatusWarn, Message: "meh", Fix: "do it"} }
	fail := func(*config.Config) CheckResult { return CheckResult{Status: StatusFail, Message: "broken"} }

	var out bytes.Buffer
	err := report(&out, []Check{{Name: "A", Fn: pass}, {Name: "B", Fn: warn}}, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "[PASS] A: ok")
	assert.Contains(t, out.String(), "Fix: do it")
	assert.Contains(t, out.String(), "Results: 1 passed, 1 warnings, 0 failed")

	out.Reset()
	err = report(&out, []Check{{Name: "C", Fn: fail}}, nil)
	assert.EqualError(t, err, "1 check(s) failed")
	assert.Contains(t, out.String(), "[FAIL] C: broken")
}

func TestStatusIcon(t *testing.T) {
	assert.Equal(t, "[PASS]", statusIcon(StatusPass))
	assert.Equal(t, "[WARN]", statusIcon(StatusWarn))
	assert.Equal(t, "[FAIL]", statusIcon(StatusFail))
	assert.Equal(t, "[????]", statusIcon("x"))
}
