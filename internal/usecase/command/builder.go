// Package command turns an OptionSet into the ordered token list of a Nuitka
// invocation, and converts between token lists and the editable command text.
package command

import (
	"strings"

	"packdeck/internal/domain"
)

// Placeholder is shown in place of a command while the interpreter or the
// main script is still missing.
const Placeholder = "1. Select a Python interpreter and the main script\n2. Pick common options to update the packaging command"

// toolModule is the module name used for `python -m nuitka`.
const toolModule = "nuitka"

// wrapperNames are launchers that already invoke the tool, so the
// `-m nuitka` tokens must be dropped.
var wrapperNames = map[string]bool{
	"nuitka":     true,
	"nuitka.cmd": true,
	"nuitka.bat": true,
	"nuitka.exe": true,
}

// IsToolWrapper reports whether interpreter points at the tool's own launcher
// rather than a Python interpreter.
func IsToolWrapper(interpreter string) bool {
	name := strings.TrimSpace(interpreter)
	// Windows separators are honored on every host.
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return wrapperNames[strings.ToLower(name)]
}

// Build produces the command for opts. It fails only when the interpreter or
// the main script is missing.
func Build(opts domain.OptionSet) ([]string, error) {
	interpreter := strings.TrimSpace(opts.Interpreter)
	if interpreter == "" {
		return nil, domain.NewSubSystemError("command", "command.Build", domain.ErrInterpreterMissing, "")
	}
	script := strings.TrimSpace(opts.Script)
	if script == "" {
		return nil, domain.NewSubSystemError("command", "command.Build", domain.ErrScriptMissing, "")
	}

	b := &builder{}
	if IsToolWrapper(interpreter) {
		b.add(interpreter)
	} else {
		b.add(interpreter, "-m", toolModule)
	}

	// general
	b.toggles(opts, domain.SectionGeneral)
	b.value("--windows-icon-from-ico", opts.Icon)
	b.value("--output-dir", opts.OutputDir)

	// attached resources
	for _, r := range opts.Resources {
		if !r.Complete() {
			continue
		}
		flag := "--include-data-files"
		if r.Kind == domain.ResourceDirectory {
			flag = "--include-data-dir"
		}
		b.add(flag + "=" + strings.TrimSpace(r.Source) + "=" + strings.TrimSpace(r.Destination))
	}

	// plugins
	for _, p := range opts.Plugins {
		if p = strings.TrimSpace(p); p != "" {
			b.add("--enable-plugin=" + p)
		}
	}

	// advanced
	b.toggles(opts, domain.SectionAdvanced)

	// includes
	b.list("--include-package", opts.IncludePackages)
	b.list("--include-package-data", opts.IncludePackageData)
	b.list("--include-module", opts.IncludeModules)
	b.list("--noinclude-data-files", opts.NoIncludeData)
	if opts.Enabled(domain.ToggleOnefile) {
		b.list("--include-onefile-external-data", opts.OnefileExternalData)
	}
	b.list("--include-raw-dir", opts.IncludeRawDirs)

	// interpreter runtime flags, verbatim and in insertion order
	b.add(opts.PythonFlags...)

	// metadata
	md := opts.Metadata
	b.value("--company-name", md.Company)
	b.value("--product-name", md.Product)
	b.value("--file-version", md.FileVersion)
	b.value("--product-version", md.ProductVersion)
	b.value("--file-description", md.FileDescription)
	b.value("--copyright", md.Copyright)

	// environment forcing
	b.value("--force-runtime-environment-variable", opts.ForceEnv)

	// debug / deployment
	b.toggles(opts, domain.SectionDebug)

	b.add(script)
	return b.tokens, nil
}

// Preview renders the command for the editable view, or Placeholder when
// Build refuses.
func Preview(opts domain.OptionSet) string {
	tokens, err := Build(opts)
	if err != nil {
		return Placeholder
	}
	return Render(tokens)
}

type builder struct {
	tokens []string
}

func (b *builder) add(tokens ...string) {
	b.tokens = append(b.tokens, tokens...)
}

func (b *builder) toggles(opts domain.OptionSet, section domain.Section) {
	for _, spec := range domain.TogglesIn(section) {
		if opts.Enabled(spec.Toggle) {
			b.add(spec.Flag)
		}
	}
}

// value appends flag=value when value is not blank.
func (b *builder) value(flag, value string) {
	if v := strings.TrimSpace(value); v != "" {
		b.add(flag + "=" + v)
	}
}

// list appends one flag per non-blank comma-separated segment.
func (b *builder) list(flag, text string) {
	for _, item := range SplitList(text) {
		b.add(flag + "=" + item)
	}
}

// SplitList splits comma-separated text, trims each segment and drops blanks.
func SplitList(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
