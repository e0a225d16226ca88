package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorFormat(t *testing.T) {
	err := NewDomainError("Runner.Start", ErrLaunchFailed, "python3.12")
	want := "Runner.Start: python3.12: failed to launch command"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestDomainErrorFormatNoDetail(t *testing.T) {
	err := NewDomainError("Runner.Start", ErrRunBusy, "")
	want := "Runner.Start: a packaging run is already in progress"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	err := NewDomainError("command.Build", ErrScriptMissing, "")
	if !errors.Is(err, ErrScriptMissing) {
		t.Error("errors.Is should match ErrScriptMissing")
	}
}

func TestDomainErrorAs(t *testing.T) {
	err := NewSubSystemError("probe", "Detector.Detect", ErrTimeout, "python -m nuitka --version")
	var de *DomainError
	if !errors.As(err, &de) {
		t.Fatal("errors.As should match *DomainError")
	}
	if de.SubSystem != "probe" {
		t.Errorf("SubSystem = %q, want %q", de.SubSystem, "probe")
	}
}

func TestWrapOpNil(t *testing.T) {
	assert.NoError(t, WrapOp("noop", nil))
	wrapped := WrapOp("profile.Load", ErrProfileInvalid)
	assert.ErrorIs(t, wrapped, ErrProfileInvalid)
	assert.Equal(t, "profile.Load: profile is invalid", wrapped.Error())
}

func TestIsPrecondition(t *testing.T) {
	assert.True(t, IsPrecondition(NewDomainError("op", ErrInterpreterMissing, "")))
	assert.True(t, IsPrecondition(fmt.Errorf("wrap: %w", ErrOutputDirMissing)))
	assert.True(t, IsPrecondition(ErrScriptMissing))
	assert.False(t, IsPrecondition(ErrToolNotInstalled))
	assert.False(t, IsPrecondition(nil))
}

func TestErrorCodeOf(t *testing.T) {
	assert.Equal(t, ErrorCode(""), ErrorCodeOf(nil))
	assert.Equal(t, CodeRunBusy, ErrorCodeOf(ErrRunBusy))
	assert.Equal(t, CodeScriptMissing, ErrorCodeOf(NewDomainError("op", ErrScriptMissing, "")))
	assert.Equal(t, CodeToolNotInstalled, ErrorCodeOf(fmt.Errorf("check: %w", ErrToolNotInstalled)))
	assert.Equal(t, CodeUnknown, ErrorCodeOf(errors.New("boom")))
}

func TestErrorCodeOf_SubSystem(t *testing.T) {
	assert.Equal(t, CodeProbeTimeout, NewSubSystemError("probe", "op", ErrTimeout, "").Code())
	assert.Equal(t, CodeProfileNotFound, NewSubSystemError("profile", "op", ErrNotFound, "").Code())
	assert.Equal(t, CodeTimeout, NewSubSystemError("runner", "op", ErrTimeout, "").Code())
}
