package sources

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed manifest.yaml
var defaultManifest []byte

type Manifest struct {
	CommonIncludes  []string    `yaml:"common_includes"`
	FinalIncludes   []string    `yaml:"final_includes"`
	AdapterIncludes []string    `yaml:"adapter_includes"`
	Components      []Component `yaml:"components"`
}

// Component describes one engine component. When Main is set the component
// is added the way the engine's own build adds components: sources from
// source/<dir>[/<rel>] plus include/<dir> and source/<dir>/include.
type Component struct {
	Name     string              `yaml:"name"`
	Dir      string              `yaml:"dir"`
	Main     *Main               `yaml:"main"`
	Files    []string            `yaml:"files"`
	Groups   []Group             `yaml:"groups"`
	Includes []IncludeGroup      `yaml:"includes"`
	Platform map[string][]string `yaml:"platform"`
}

type Main struct {
	Rel   string   `yaml:"rel"`
	Files []string `yaml:"files"`
}

type Group struct {
	Dir   string   `yaml:"dir"`
	Files []string `yaml:"files"`
}

type IncludeGroup struct {
	Root string   `yaml:"root"`
	Dirs []string `yaml:"dirs"`
}

// SourceDir is the component directory name under source/.
func (c Component) SourceDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return c.Name
}

// DefaultManifest returns the embedded component layout.
func DefaultManifest() (*Manifest, error) {
	return parseManifest(defaultManifest)
}

// LoadManifest reads a component layout from path; an empty path selects
// the embedded default.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return DefaultManifest()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseManifest(data)
}

func parseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	seen := make(map[string]bool, len(m.Components))
	for _, c := range m.Components {
		if c.Name == "" {
			return nil, fmt.Errorf("parse manifest: component without name")
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("parse manifest: duplicate component %q", c.Name)
		}
		seen[c.Name] = true
	}
	return &m, nil
}

func (m *Manifest) Component(name string) (Component, error) {
	for _, c := range m.Components {
		if c.Name == name {
			return c, nil
		}
	}
	return Component{}, fmt.Errorf("%w: %s", ErrUnknownComponent, name)
}

// Names lists the components in build order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.Components))
	for i, c := range m.Components {
		names[i] = c.Name
	}
	return names
}
