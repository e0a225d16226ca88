package domain

import (
	"sort"
	"strings"
)

// Section groups toggles for display and for the emission order of the
// generated command.
type Section string

const (
	SectionGeneral  Section = "general"
	SectionAdvanced Section = "advanced"
	SectionDebug    Section = "debug"
)

// Toggle is a boolean packaging option. Each toggle maps to one fixed flag.
type Toggle string

const (
	ToggleOnefile        Toggle = "onefile"
	ToggleStandalone     Toggle = "standalone"
	ToggleDisableConsole Toggle = "disable-console"
	ToggleRemoveOutput   Toggle = "remove-output"
	ToggleIncludeQt      Toggle = "include-qt"
	ToggleShowProgress   Toggle = "show-progress"
	ToggleShowMemory     Toggle = "show-memory"

	ToggleFollowImports Toggle = "follow-imports"
	ToggleFollowStdlib  Toggle = "follow-stdlib"
	ToggleModule        Toggle = "module"
	ToggleLTO           Toggle = "lto"
	ToggleDisableCCache Toggle = "disable-ccache"
	ToggleAssumeYes     Toggle = "assume-yes"
	ToggleUACAdmin      Toggle = "windows-uac-admin"
	ToggleUACUIAccess   Toggle = "windows-uac-uiaccess"

	ToggleDebug          Toggle = "debug"
	ToggleUnstripped     Toggle = "unstripped"
	ToggleTraceExecution Toggle = "trace-execution"
	ToggleWarnImplicit   Toggle = "warn-implicit-exceptions"
	ToggleWarnUnusual    Toggle = "warn-unusual-code"
	ToggleDeployment     Toggle = "deployment"
)

// ToggleSpec describes how a toggle is shown and what it emits.
type ToggleSpec struct {
	Toggle  Toggle
	Section Section
	Flag    string
	Label   string
}

// ToggleCatalog lists every toggle. Order within a section is the order
// flags appear in the generated command.
var ToggleCatalog = []ToggleSpec{
	{ToggleOnefile, SectionGeneral, "--onefile", "pack into a single executable"},
	{ToggleStandalone, SectionGeneral, "--standalone", "standalone mode, bundle all dependencies"},
	{ToggleDisableConsole, SectionGeneral, "--windows-disable-console", "disable the console window"},
	{ToggleRemoveOutput, SectionGeneral, "--remove-output", "remove build directory afterwards"},
	{ToggleIncludeQt, SectionGeneral, "--include-qt-plugins=sensible,styles", "include Qt plugins (PySide6/PyQt6)"},
	{ToggleShowProgress, SectionGeneral, "--show-progress", "show build progress"},
	{ToggleShowMemory, SectionGeneral, "--show-memory", "show memory usage"},

	{ToggleFollowImports, SectionAdvanced, "--follow-imports", "include all imported modules"},
	{ToggleFollowStdlib, SectionAdvanced, "--follow-stdlib", "include standard library modules"},
	{ToggleModule, SectionAdvanced, "--module", "build an importable extension module"},
	{ToggleLTO, SectionAdvanced, "--lto=yes", "link time optimization"},
	{ToggleDisableCCache, SectionAdvanced, "--disable-ccache", "disable ccache"},
	{ToggleAssumeYes, SectionAdvanced, "--assume-yes", "answer yes to all questions"},
	{ToggleUACAdmin, SectionAdvanced, "--windows-uac-admin", "request administrator rights"},
	{ToggleUACUIAccess, SectionAdvanced, "--windows-uac-uiaccess", "allow elevated desktop interaction"},

	{ToggleDebug, SectionDebug, "--debug", "debug mode"},
	{ToggleUnstripped, SectionDebug, "--unstripped", "keep debug information"},
	{ToggleTraceExecution, SectionDebug, "--trace-execution", "trace execution"},
	{ToggleWarnImplicit, SectionDebug, "--warn-implicit-exceptions", "warn about implicit exceptions"},
	{ToggleWarnUnusual, SectionDebug, "--warn-unusual-code", "warn about unusual code"},
	{ToggleDeployment, SectionDebug, "--deployment", "deployment mode"},
}

// TogglesIn returns the catalog entries of one section, in catalog order.
func TogglesIn(section Section) []ToggleSpec {
	var out []ToggleSpec
	for _, spec := range ToggleCatalog {
		if spec.Section == section {
			out = append(out, spec)
		}
	}
	return out
}

// LookupToggle finds a toggle by name.
func LookupToggle(name string) (ToggleSpec, bool) {
	for _, spec := range ToggleCatalog {
		if string(spec.Toggle) == name {
			return spec, true
		}
	}
	return ToggleSpec{}, false
}

// PluginCatalog lists the plugins offered for --enable-plugin.
var PluginCatalog = []string{
	"pyside6", "tk-inter", "numpy", "multiprocessing",
	"dill-compat", "gevent", "pylint-warnings", "qt-plugins",
	"anti-bloat", "playwright", "spacy", "pandas",
}

// PythonFlagCatalog lists the interpreter runtime flags a user can add.
var PythonFlagCatalog = []string{
	"--python-flag=no_site",
	"--python-flag=no_warnings",
	"--python-flag=no_asserts",
	"--python-flag=no_docstrings",
	"--python-flag=unbuffered",
	"--python-flag=static_hashes",
}

// ResourceKind tells whether a resource entry bundles a file or a directory.
type ResourceKind string

const (
	ResourceFile      ResourceKind = "file"
	ResourceDirectory ResourceKind = "directory"
)

// ResourceEntry is auxiliary data to bundle into the packaged output.
type ResourceEntry struct {
	Kind        ResourceKind
	Source      string
	Destination string
}

// Complete reports whether both paths are non-blank.
func (r ResourceEntry) Complete() bool {
	return strings.TrimSpace(r.Source) != "" && strings.TrimSpace(r.Destination) != ""
}

// Metadata holds the version-resource fields of the produced binary.
type Metadata struct {
	Company         string
	Product         string
	FileVersion     string
	ProductVersion  string
	FileDescription string
	Copyright       string
}

// OptionSet is a snapshot of everything that drives command generation.
// Comma fields hold raw user text; splitting happens in the builder.
type OptionSet struct {
	Interpreter string
	Script      string
	Icon        string
	OutputDir   string

	Toggles   map[Toggle]bool
	Resources []ResourceEntry
	Plugins   []string

	IncludePackages     string
	IncludePackageData  string
	IncludeModules      string
	NoIncludeData       string
	OnefileExternalData string
	IncludeRawDirs      string

	PythonFlags []string
	Metadata    Metadata
	ForceEnv    string
}

// Enabled reports whether t is checked.
func (o OptionSet) Enabled(t Toggle) bool {
	return o.Toggles[t]
}

// SetToggle checks or unchecks t.
func (o *OptionSet) SetToggle(t Toggle, on bool) {
	if o.Toggles == nil {
		o.Toggles = make(map[Toggle]bool)
	}
	if on {
		o.Toggles[t] = true
	} else {
		delete(o.Toggles, t)
	}
}

// TogglePlugin selects name if absent, deselects it otherwise. Selected
// plugins stay in catalog order; names outside the catalog sort last.
func (o *OptionSet) TogglePlugin(name string) {
	for i, p := range o.Plugins {
		if p == name {
			o.Plugins = append(o.Plugins[:i:i], o.Plugins[i+1:]...)
			return
		}
	}
	o.Plugins = append(o.Plugins, name)
	sort.SliceStable(o.Plugins, func(i, j int) bool {
		return pluginRank(o.Plugins[i]) < pluginRank(o.Plugins[j])
	})
}

func pluginRank(name string) int {
	for i, p := range PluginCatalog {
		if p == name {
			return i
		}
	}
	return len(PluginCatalog)
}

// PluginSelected reports whether name is selected.
func (o OptionSet) PluginSelected(name string) bool {
	for _, p := range o.Plugins {
		if p == name {
			return true
		}
	}
	return false
}

// KnownPythonFlag reports whether flag is in PythonFlagCatalog.
func KnownPythonFlag(flag string) bool {
	for _, f := range PythonFlagCatalog {
		if f == flag {
			return true
		}
	}
	return false
}

// AddPythonFlag appends a catalog flag unless it is already present.
func (o *OptionSet) AddPythonFlag(flag string) bool {
	if !KnownPythonFlag(flag) {
		return false
	}
	for _, f := range o.PythonFlags {
		if f == flag {
			return false
		}
	}
	o.PythonFlags = append(o.PythonFlags, flag)
	return true
}

// RemovePythonFlag removes flag; it reports whether it was present.
func (o *OptionSet) RemovePythonFlag(flag string) bool {
	for i, f := range o.PythonFlags {
		if f == flag {
			o.PythonFlags = append(o.PythonFlags[:i:i], o.PythonFlags[i+1:]...)
			return true
		}
	}
	return false
}

// AddResource appends a resource row.
func (o *OptionSet) AddResource(entry ResourceEntry) {
	o.Resources = append(o.Resources, entry)
}

// RemoveResource deletes the row at index i; out-of-range is a no-op.
func (o *OptionSet) RemoveResource(i int) bool {
	if i < 0 || i >= len(o.Resources) {
		return false
	}
	o.Resources = append(o.Resources[:i:i], o.Resources[i+1:]...)
	return true
}

// Clone returns a deep copy so a snapshot can be handed to the builder
// while the original keeps changing.
func (o OptionSet) Clone() OptionSet {
	c := o
	if o.Toggles != nil {
		c.Toggles = make(map[Toggle]bool, len(o.Toggles))
		for k, v := range o.Toggles {
			c.Toggles[k] = v
		}
	}
	c.Resources = append([]ResourceEntry(nil), o.Resources...)
	c.Plugins = append([]string(nil), o.Plugins...)
	c.PythonFlags = append([]string(nil), o.PythonFlags...)
	return c
}
