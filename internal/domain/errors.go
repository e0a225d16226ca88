package domain

import (
	"errors"
	"fmt"
)

// Category sentinels. Use with NewSubSystemError for subsystem-specific errors.
var (
	ErrNotFound     = fmt.Errorf("not found")
	ErrTimeout      = fmt.Errorf("operation timed out")
	ErrInvalidInput = fmt.Errorf("invalid input")
	ErrDisabled     = fmt.Errorf("disabled")
)

// Sentinel errors for the domain layer.
var (
	// Preconditions checked before a command can be built or executed.
	ErrInterpreterMissing = fmt.Errorf("python interpreter not selected")
	ErrScriptMissing      = fmt.Errorf("main script not selected")
	ErrOutputDirMissing   = fmt.Errorf("output directory not selected")

	// Dependency errors.
	ErrToolNotInstalled = fmt.Errorf("nuitka not detected in the selected python environment")

	// Run lifecycle errors.
	ErrRunBusy      = fmt.Errorf("a packaging run is already in progress")
	ErrNotRunning   = fmt.Errorf("no packaging run in progress")
	ErrLaunchFailed = fmt.Errorf("failed to launch command")
	ErrEmptyCommand = fmt.Errorf("command is empty")

	// Persistence errors.
	ErrProfileInvalid  = fmt.Errorf("profile is invalid")
	ErrPreferenceStore = fmt.Errorf("preference store failed")
	ErrHistoryStore    = fmt.Errorf("run history store failed")
)

// DomainError wraps a sentinel error with context.
type DomainError struct {
	Op        string // operation name (e.g., "Runner.Start")
	Err       error  // underlying sentinel or wrapped error
	Detail    string // human-readable detail
	SubSystem string // subsystem identifier (e.g., "runner", "profile"); used for ErrorCode dispatch
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// NewSubSystemError creates a DomainError tagged with a subsystem for ErrorCode dispatch.
func NewSubSystemError(subsystem, op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail, SubSystem: subsystem}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsPrecondition reports whether err means execution must not be attempted
// because required input is missing. Callers surface these as blocking dialogs.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrInterpreterMissing) ||
		errors.Is(err, ErrScriptMissing) ||
		errors.Is(err, ErrOutputDirMissing)
}

// ErrorCode is a machine-parseable error category for logs.
type ErrorCode string

const (
	CodeUnknown            ErrorCode = "UNKNOWN"
	CodeInterpreterMissing ErrorCode = "INTERPRETER_MISSING"
	CodeScriptMissing      ErrorCode = "SCRIPT_MISSING"
	CodeOutputDirMissing   ErrorCode = "OUTPUT_DIR_MISSING"
	CodeToolNotInstalled   ErrorCode = "TOOL_NOT_INSTALLED"
	CodeRunBusy            ErrorCode = "RUN_BUSY"
	CodeNotRunning         ErrorCode = "NOT_RUNNING"
	CodeLaunchFailed       ErrorCode = "LAUNCH_FAILED"
	CodeEmptyCommand       ErrorCode = "EMPTY_COMMAND"
	CodeProfileInvalid     ErrorCode = "PROFILE_INVALID"
	CodeProfileNotFound    ErrorCode = "PROFILE_NOT_FOUND"
	CodePreferenceStore    ErrorCode = "PREFERENCE_STORE"
	CodeHistoryStore       ErrorCode = "HISTORY_STORE"
	CodeProbeTimeout       ErrorCode = "PROBE_TIMEOUT"
	CodeInvalidInput       ErrorCode = "INVALID_INPUT"
	CodeTimeout            ErrorCode = "TIMEOUT"
)

var errorCodeMap = map[error]ErrorCode{
	ErrInterpreterMissing: CodeInterpreterMissing,
	ErrScriptMissing:      CodeScriptMissing,
	ErrOutputDirMissing:   CodeOutputDirMissing,
	ErrToolNotInstalled:   CodeToolNotInstalled,
	ErrRunBusy:            CodeRunBusy,
	ErrNotRunning:         CodeNotRunning,
	ErrLaunchFailed:       CodeLaunchFailed,
	ErrEmptyCommand:       CodeEmptyCommand,
	ErrProfileInvalid:     CodeProfileInvalid,
	ErrPreferenceStore:    CodePreferenceStore,
	ErrHistoryStore:       CodeHistoryStore,
	ErrInvalidInput:       CodeInvalidInput,
	ErrTimeout:            CodeTimeout,
}

// subSystemCodeMap refines category sentinels per subsystem.
var subSystemCodeMap = map[error]map[string]ErrorCode{
	ErrNotFound: {
		"profile": CodeProfileNotFound,
	},
	ErrTimeout: {
		"probe": CodeProbeTimeout,
	},
}

// ErrorCodeOf returns the ErrorCode for err, walking the wrap chain.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}

	var de *DomainError
	if errors.As(err, &de) && de.SubSystem != "" {
		for sentinel, bySub := range subSystemCodeMap {
			if errors.Is(de.Err, sentinel) {
				if code, ok := bySub[de.SubSystem]; ok {
					return code
				}
			}
		}
	}

	for sentinel, code := range errorCodeMap {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return CodeUnknown
}

// Code returns the ErrorCode for this DomainError.
func (e *DomainError) Code() ErrorCode {
	return ErrorCodeOf(e)
}
