package hierarchy

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed layout/physx.yaml
var defaultLayout []byte

type layoutFile struct {
	Classes []layoutClass `yaml:"classes"`
}

type layoutClass struct {
	Name    Class             `yaml:"name"`
	Bases   []Class           `yaml:"bases,omitempty"`
	Offsets map[Class]uintptr `yaml:"offsets,omitempty"`
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table of the vendored engine. It panics if the
// embedded layout is invalid, which a test guards against.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(defaultLayout)
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}

// Load reads a layout file, typically one written by structgen.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and validates a layout.
func Parse(data []byte) (*Table, error) {
	var f layoutFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("hierarchy: parse layout: %w", err)
	}
	t := NewTable()
	for _, c := range f.Classes {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: class without a name", ErrInconsistent)
		}
		if t.Declared(c.Name) {
			return nil, fmt.Errorf("%w: %s declared twice", ErrInconsistent, c.Name)
		}
		t.Declare(c.Name, c.Bases...)
		for a, off := range c.Offsets {
			t.DeclareAt(c.Name, a, off)
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Marshal encodes t in the layout file format.
func (t *Table) Marshal() ([]byte, error) {
	var f layoutFile
	for _, c := range t.classes {
		lc := layoutClass{Name: c}
		for _, a := range t.Ancestors(c) {
			if off := t.entries[c][a]; off != 0 {
				if lc.Offsets == nil {
					lc.Offsets = make(map[Class]uintptr)
				}
				lc.Offsets[a] = off
				continue
			}
			lc.Bases = append(lc.Bases, a)
		}
		f.Classes = append(f.Classes, lc)
	}
	return yaml.Marshal(&f)
}
