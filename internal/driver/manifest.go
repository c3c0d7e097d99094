package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"tidal/internal/transpile"
)

// ManifestName is the project manifest file looked up in the build root.
const ManifestName = "tidal.toml"

// Manifest is the parsed tidal.toml.
type Manifest struct {
	Package  PackageSection `toml:"package"`
	Build    BuildSection   `toml:"build"`
	Bindings Bindings       `toml:"bindings"`

	// Dir is the directory the manifest was loaded from; source paths
	// resolve relative to it. Not part of the file.
	Dir string `toml:"-"`
}

type PackageSection struct {
	Name string `toml:"name"`
}

type BuildSection struct {
	// Sources lists the .td files to compile, relative to the manifest dir.
	Sources []string `toml:"sources"`
	// Out is the JavaScript module to write.
	Out string `toml:"out"`
}

// Bindings is the external resolution table: what the generated code's
// free names mean to the host project.
type Bindings struct {
	Modules []ModuleBinding `toml:"module"`
	Consts  map[string]any  `toml:"const"`
}

// ModuleBinding maps a source-level name onto a JavaScript module import.
type ModuleBinding struct {
	Name     string   `toml:"name"`
	Source   string   `toml:"source"`
	Kind     string   `toml:"kind"` // named (default), default, namespace, side-effect
	TypeOnly bool     `toml:"type_only"`
	Before   []string `toml:"before"`
}

// LoadManifest reads and validates tidal.toml from dir.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m := &Manifest{Dir: dir}
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if m.Package.Name == "" {
		return nil, fmt.Errorf("%s: [package] name is required", path)
	}
	if len(m.Build.Sources) == 0 {
		return nil, fmt.Errorf("%s: [build] sources is empty", path)
	}
	if m.Build.Out == "" {
		m.Build.Out = m.Package.Name + ".js"
	}
	for i := range m.Bindings.Modules {
		b := &m.Bindings.Modules[i]
		if b.Name == "" && b.Kind != "side-effect" {
			return nil, fmt.Errorf("%s: [[bindings.module]] #%d: name is required", path, i+1)
		}
		if b.Source == "" {
			return nil, fmt.Errorf("%s: [[bindings.module]] #%d: source is required", path, i+1)
		}
		if _, err := importKindOf(b.Kind); err != nil {
			return nil, fmt.Errorf("%s: [[bindings.module]] %q: %w", path, b.Name, err)
		}
	}
	for name, v := range m.Bindings.Consts {
		if _, err := constValueOf(v); err != nil {
			return nil, fmt.Errorf("%s: [bindings.const] %s: %w", path, name, err)
		}
	}
	return m, nil
}

// SourcePaths returns the manifest's source files resolved against its
// directory, in manifest order.
func (m *Manifest) SourcePaths() []string {
	paths := make([]string, len(m.Build.Sources))
	for i, s := range m.Build.Sources {
		paths[i] = filepath.Join(m.Dir, s)
	}
	return paths
}

// OutPath returns the output module path resolved against the manifest dir.
func (m *Manifest) OutPath() string {
	return filepath.Join(m.Dir, m.Build.Out)
}

func importKindOf(kind string) (transpile.ImportKind, error) {
	switch kind {
	case "", "named":
		return transpile.ImportNamed, nil
	case "default":
		return transpile.ImportDefault, nil
	case "namespace":
		return transpile.ImportNamespace, nil
	case "side-effect":
		return transpile.ImportSideEffect, nil
	}
	return 0, fmt.Errorf("unknown import kind %q", kind)
}

// constValueOf converts a decoded TOML value into a binding constant.
// TOML has no null, so everything here is int/float/string/bool/array.
func constValueOf(v any) (transpile.ConstValue, error) {
	switch x := v.(type) {
	case int64:
		return transpile.ConstValue{Kind: transpile.ConstInt, Text: fmt.Sprintf("%d", x)}, nil
	case float64:
		return transpile.ConstValue{Kind: transpile.ConstFloat, Text: formatFloat(x)}, nil
	case string:
		return transpile.ConstValue{Kind: transpile.ConstString, Text: x}, nil
	case bool:
		return transpile.ConstValue{Kind: transpile.ConstBool, Bool: x}, nil
	case []any:
		list := make([]transpile.ConstValue, len(x))
		for i, e := range x {
			ev, err := constValueOf(e)
			if err != nil {
				return transpile.ConstValue{}, err
			}
			list[i] = ev
		}
		return transpile.ConstValue{Kind: transpile.ConstList, List: list}, nil
	}
	return transpile.ConstValue{}, fmt.Errorf("unsupported constant type %T", v)
}

func formatFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	// Keep a decimal point so the emitted literal stays a float.
	for _, ch := range s {
		if ch == '.' || ch == 'e' || ch == 'E' {
			return s
		}
	}
	return s + ".0"
}

// Resolver builds the transpile resolution function for this manifest:
// top-level functions from the parsed modules first, then module and
// constant bindings. A name bound more than once is an error.
func (m *Manifest) Resolver(funcs map[string]*FuncEntry) (transpile.Resolver, error) {
	type slot struct {
		res transpile.Resolution
	}
	table := make(map[string]slot, len(funcs)+len(m.Bindings.Modules)+len(m.Bindings.Consts))

	for name, entry := range funcs {
		table[name] = slot{res: transpile.Resolution{Kind: transpile.ResolveFunction, Func: entry.Def}}
	}
	for _, b := range m.Bindings.Modules {
		if b.Kind == "side-effect" {
			continue // no name binding; handled by forced imports
		}
		if _, dup := table[b.Name]; dup {
			return nil, fmt.Errorf("binding %q collides with an existing definition", b.Name)
		}
		kind, _ := importKindOf(b.Kind)
		table[b.Name] = slot{res: transpile.Resolution{
			Kind: transpile.ResolveImport,
			Imp: transpile.ImportSpec{
				Name:     b.Name,
				Source:   b.Source,
				Kind:     kind,
				TypeOnly: b.TypeOnly,
				Before:   b.Before,
			},
		}}
	}
	names := make([]string, 0, len(m.Bindings.Consts))
	for name := range m.Bindings.Consts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, dup := table[name]; dup {
			return nil, fmt.Errorf("binding %q collides with an existing definition", name)
		}
		cv, _ := constValueOf(m.Bindings.Consts[name])
		table[name] = slot{res: transpile.Resolution{Kind: transpile.ResolveConstant, Const: cv}}
	}

	return func(name string) transpile.Resolution {
		if s, ok := table[name]; ok {
			return s.res
		}
		return transpile.Resolution{Kind: transpile.ResolveNone}
	}, nil
}

// SideEffectImports returns the manifest's side-effect module bindings as
// import specs. They carry no name and are requested explicitly by the
// build rather than through name resolution.
func (m *Manifest) SideEffectImports() []transpile.ImportSpec {
	var specs []transpile.ImportSpec
	for _, b := range m.Bindings.Modules {
		if b.Kind != "side-effect" {
			continue
		}
		specs = append(specs, transpile.ImportSpec{
			Source: b.Source,
			Kind:   transpile.ImportSideEffect,
			Before: b.Before,
		})
	}
	return specs
}
