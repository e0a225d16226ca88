// Package profile stores option sets as YAML files so a configuration can
// be reused from the TUI or run headless.
package profile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"packdeck/internal/domain"
)

// Document is the on-disk shape of a profile.
type Document struct {
	Interpreter string     `yaml:"interpreter,omitempty"`
	Script      string     `yaml:"script,omitempty"`
	Icon        string     `yaml:"icon,omitempty"`
	OutputDir   string     `yaml:"output_dir,omitempty"`
	Toggles     []string   `yaml:"toggles,omitempty"`
	Resources   []Resource `yaml:"resources,omitempty"`
	Plugins     []string   `yaml:"plugins,omitempty"`
	Include     Include    `yaml:"include,omitempty"`
	PythonFlags []string   `yaml:"python_flags,omitempty"`
	Metadata    Metadata   `yaml:"metadata,omitempty"`
	ForceEnv    string     `yaml:"force_env,omitempty"`
}

// Resource is one bundled file or directory.
type Resource struct {
	Kind        string `yaml:"kind"`
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
}

// Include holds the comma-separated include fields.
type Include struct {
	Packages            string `yaml:"packages,omitempty"`
	PackageData         string `yaml:"package_data,omitempty"`
	Modules             string `yaml:"modules,omitempty"`
	NoIncludeData       string `yaml:"noinclude_data,omitempty"`
	OnefileExternalData string `yaml:"onefile_external_data,omitempty"`
	RawDirs             string `yaml:"raw_dirs,omitempty"`
}

// Metadata holds the version-resource fields.
type Metadata struct {
	Company         string `yaml:"company,omitempty"`
	Product         string `yaml:"product,omitempty"`
	FileVersion     string `yaml:"file_version,omitempty"`
	ProductVersion  string `yaml:"product_version,omitempty"`
	FileDescription string `yaml:"file_description,omitempty"`
	Copyright       string `yaml:"copyright,omitempty"`
}

// Load reads and validates the profile at path.
func Load(path string) (domain.OptionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.OptionSet{}, domain.NewSubSystemError("profile", "profile.Load", domain.ErrNotFound, path)
		}
		return domain.OptionSet{}, domain.WrapOp("profile.Load", err)
	}
	opts, err := Parse(data)
	if err != nil {
		return domain.OptionSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}

// Parse validates a YAML profile and converts it to an OptionSet. An
// empty document yields an empty OptionSet.
func Parse(data []byte) (domain.OptionSet, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.OptionSet{}, nil
	}

	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return domain.OptionSet{}, domain.NewSubSystemError("profile", "profile.Parse", domain.ErrProfileInvalid, err.Error())
	}
	if generic == nil {
		return domain.OptionSet{}, nil
	}
	if err := validate(generic); err != nil {
		return domain.OptionSet{}, domain.NewSubSystemError("profile", "profile.Parse", domain.ErrProfileInvalid, err.Error())
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.OptionSet{}, domain.NewSubSystemError("profile", "profile.Parse", domain.ErrProfileInvalid, err.Error())
	}
	return doc.OptionSet()
}

// Save writes opts to path, creating parent directories.
func Save(path string, opts domain.OptionSet) error {
	data, err := Marshal(opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.WrapOp("profile.Save", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return domain.WrapOp("profile.Save", err)
	}
	return nil
}

// Marshal renders opts as profile YAML.
func Marshal(opts domain.OptionSet) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(FromOptionSet(opts)); err != nil {
		return nil, domain.WrapOp("profile.Marshal", err)
	}
	if err := enc.Close(); err != nil {
		return nil, domain.WrapOp("profile.Marshal", err)
	}
	return buf.Bytes(), nil
}

// OptionSet converts the document. Unknown toggle names are rejected.
func (d Document) OptionSet() (domain.OptionSet, error) {
	opts := domain.OptionSet{
		Interpreter:         d.Interpreter,
		Script:              d.Script,
		Icon:                d.Icon,
		OutputDir:           d.OutputDir,
		IncludePackages:     d.Include.Packages,
		IncludePackageData:  d.Include.PackageData,
		IncludeModules:      d.Include.Modules,
		NoIncludeData:       d.Include.NoIncludeData,
		OnefileExternalData: d.Include.OnefileExternalData,
		IncludeRawDirs:      d.Include.RawDirs,
		Metadata: domain.Metadata{
			Company:         d.Metadata.Company,
			Product:         d.Metadata.Product,
			FileVersion:     d.Metadata.FileVersion,
			ProductVersion:  d.Metadata.ProductVersion,
			FileDescription: d.Metadata.FileDescription,
			Copyright:       d.Metadata.Copyright,
		},
		ForceEnv: d.ForceEnv,
	}
	for _, name := range d.Toggles {
		spec, ok := domain.LookupToggle(name)
		if !ok {
			return domain.OptionSet{}, domain.NewSubSystemError("profile", "Document.OptionSet", domain.ErrProfileInvalid,
				fmt.Sprintf("unknown toggle %q", name))
		}
		opts.SetToggle(spec.Toggle, true)
	}
	for _, r := range d.Resources {
		opts.AddResource(domain.ResourceEntry{Kind: domain.ResourceKind(r.Kind), Source: r.Source, Destination: r.Destination})
	}
	for _, p := range d.Plugins {
		if !opts.PluginSelected(p) {
			opts.TogglePlugin(p)
		}
	}
	for _, f := range d.PythonFlags {
		if !domain.KnownPythonFlag(f) {
			return domain.OptionSet{}, domain.NewSubSystemError("profile", "Document.OptionSet", domain.ErrProfileInvalid,
				fmt.Sprintf("unknown python flag %q", f))
		}
		opts.AddPythonFlag(f)
	}
	return opts, nil
}

// FromOptionSet converts opts into a document; toggles are listed in
// catalog order.
func FromOptionSet(opts domain.OptionSet) Document {
	doc := Document{
		Interpreter: opts.Interpreter,
		Script:      opts.Script,
		Icon:        opts.Icon,
		OutputDir:   opts.OutputDir,
		Plugins:     append([]string(nil), opts.Plugins...),
		PythonFlags: append([]string(nil), opts.PythonFlags...),
		Include: Include{
			Packages:            opts.IncludePackages,
			PackageData:         opts.IncludePackageData,
			Modules:             opts.IncludeModules,
			NoIncludeData:       opts.NoIncludeData,
			OnefileExternalData: opts.OnefileExternalData,
			RawDirs:             opts.IncludeRawDirs,
		},
		Metadata: Metadata{
			Company:         opts.Metadata.Company,
			Product:         opts.Metadata.Product,
			FileVersion:     opts.Metadata.FileVersion,
			ProductVersion:  opts.Metadata.ProductVersion,
			FileDescription: opts.Metadata.FileDescription,
			Copyright:       opts.Metadata.Copyright,
		},
		ForceEnv: opts.ForceEnv,
	}
	for _, spec := range domain.ToggleCatalog {
		if opts.Enabled(spec.Toggle) {
			doc.Toggles = append(doc.Toggles, string(spec.Toggle))
		}
	}
	for _, r := range opts.Resources {
		doc.Resources = append(doc.Resources, Resource{Kind: string(r.Kind), Source: r.Source, Destination: r.Destination})
	}
	return doc
}

// Example returns a commented starter profile.
func Example() []byte {
	return []byte(exampleProfile)
}

const exampleProfile = `# packdeck profile
# Paths may be absolute or relative to the working directory.
interpreter: .venv/bin/python
script: main.py
icon: ""
output_dir: dist

# Boolean options, by name:
#   general:  onefile standalone disable-console remove-output include-qt show-progress show-memory
#   advanced: follow-imports follow-stdlib module lto disable-ccache assume-yes windows-uac-admin windows-uac-uiaccess
#   debug:    debug unstripped trace-execution warn-implicit-exceptions warn-unusual-code deployment
toggles:
  - standalone
  - onefile
  - show-progress

resources:
  - kind: directory
    source: assets
    destination: assets

plugins: []

include:
  packages: ""
  package_data: ""
  modules: ""
  noinclude_data: ""
  onefile_external_data: ""
  raw_dirs: ""

python_flags:
  - --python-flag=no_site

metadata:
  company: ""
  product: ""
  file_version: ""
  product_version: ""
  file_description: ""
  copyright: ""

force_env: ""
`
