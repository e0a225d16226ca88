// Package uxerror translates raw errors into user-friendly dialog text with
// recovery hints for the TUI and the headless commands.
package uxerror

import (
	"errors"
	"fmt"
	"strings"

	"packdeck/internal/domain"
)

// FriendlyError is a user-facing error with suggestions for recovery.
type FriendlyError struct {
	Title   string   // short heading, e.g. "Missing Configuration"
	Message string   // one-liner explanation
	Hints   []string // actionable recovery suggestions
	Raw     string   // original error text (for debug)
}

// Render formats the FriendlyError as dialog body text. bullet is the
// glyph used for hint lines.
func (fe FriendlyError) Render(bullet string) string {
	var sb strings.Builder
	sb.WriteString(fe.Message)
	if len(fe.Hints) > 0 {
		sb.WriteString("\n\nSuggestions:")
		for _, h := range fe.Hints {
			sb.WriteString(fmt.Sprintf("\n  %s %s", bullet, h))
		}
	}
	return sb.String()
}

// Modal reports whether the error should interrupt the user with a dialog
// rather than only a log line.
func Modal(err error) bool {
	return domain.IsPrecondition(err) ||
		errors.Is(err, domain.ErrToolNotInstalled) ||
		errors.Is(err, domain.ErrProfileInvalid) ||
		errors.Is(err, domain.ErrEmptyCommand)
}

type errorPattern struct {
	match   func(err error) bool
	produce func(err error) FriendlyError
}

var patterns = []errorPattern{
	// Domain sentinel errors (checked first so errors.Is works through wrapping).
	{
		match:   is(domain.ErrInterpreterMissing),
		produce: constantError("Missing Configuration", "Select a Python interpreter.", []string{"Fill in the interpreter on the General tab", "Use the python inside your project's virtual environment"}),
	},
	{
		match:   is(domain.ErrScriptMissing),
		produce: constantError("Missing Configuration", "Select the main script.", []string{"Fill in the main script on the General tab"}),
	},
	{
		match:   is(domain.ErrOutputDirMissing),
		produce: constantError("Missing Configuration", "Select an output directory.", []string{"Fill in the output directory on the General tab"}),
	},
	{
		match: is(domain.ErrToolNotInstalled),
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Nuitka Not Installed",
				Message: "Nuitka was not detected in the selected Python environment.",
				Hints:   []string{"Install it with: pip install nuitka", "Check that the interpreter path points at the right environment"},
				Raw:     err.Error(),
			}
		},
	},
	{
		match:   is(domain.ErrRunBusy),
		produce: constantError("Packaging In Progress", "A packaging run is already in progress.", []string{"Wait for it to finish", "Press ctrl+x to stop it"}),
	},
	{
		match:   is(domain.ErrEmptyCommand),
		produce: constantError("Empty Command", "The command view is empty.", []string{"Fill in the interpreter and main script to regenerate it"}),
	},
	{
		match:   is(domain.ErrLaunchFailed),
		produce: constantError("Launch Failed", "The packaging command could not be started.", []string{"Check that the interpreter path exists and is executable", "Review the command on the Command tab"}),
	},
	{
		match: is(domain.ErrProfileInvalid),
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Invalid Profile",
				Message: err.Error(),
				Hints:   []string{"Compare the file with 'packdeck profile init' output", "Toggle names must match the catalog"},
				Raw:     err.Error(),
			}
		},
	},
	{
		match:   is(domain.ErrPreferenceStore),
		produce: constantError("Preferences Unavailable", "Preferences could not be read or saved.", []string{"Check that the data directory is writable", "Set store.driver: memory to run without persistence"}),
	},
	{
		match: is(domain.ErrNotFound),
		produce: func(err error) FriendlyError {
			return FriendlyError{
				Title:   "Not Found",
				Message: err.Error(),
				Hints:   []string{"Check the path"},
				Raw:     err.Error(),
			}
		},
	},

	// OS errors from external processes and files (string matching).
	{
		match:   containsAny("permission denied", "access is denied"),
		produce: constantError("Permission Denied", "The operating system refused access.", []string{"Check file permissions", "Choose an output directory you can write to"}),
	},
	{
		match:   containsAny("executable file not found", "no such file or directory", "cannot find the file"),
		produce: constantError("File Not Found", "A file or program could not be found.", []string{"Check the interpreter and script paths"}),
	},
}

// Humanize converts a raw error into a FriendlyError with recovery hints.
func Humanize(err error) FriendlyError {
	if err == nil {
		return FriendlyError{Title: "Unknown Error", Raw: "nil"}
	}

	for _, p := range patterns {
		if p.match(err) {
			return p.produce(err)
		}
	}

	// Fallback for unrecognized errors.
	return FriendlyError{
		Title:   "Unexpected Error",
		Message: err.Error(),
		Hints:   []string{"Try again", "Run with PACKDECK_LOGGER_LEVEL=debug and check the log file"},
		Raw:     err.Error(),
	}
}

func is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

// containsAny returns a match func that checks if the error string contains
// any of the given substrings (case-insensitive).
func containsAny(substrs ...string) func(error) bool {
	return func(err error) bool {
		lower := strings.ToLower(err.Error())
		for _, s := range substrs {
			if strings.Contains(lower, s) {
				return true
			}
		}
		return false
	}
}

// constantError returns a produce func that always returns the same FriendlyError.
func constantError(title, message string, hints []string) func(error) FriendlyError {
	return func(err error) FriendlyError {
		return FriendlyError{
			Title:   title,
			Message: message,
			Hints:   hints,
			Raw:     err.Error(),
		}
	}
}
