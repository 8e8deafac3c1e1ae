package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRoot            = "physx/physx"
	DefaultSharedRoot      = "physx/pxshared"
	DefaultAdapterSource   = "src/physx_api.cpp"
	DefaultStructgenSource = "src/structgen/structgen.cpp"
	DefaultGeneratedDir    = "src/generated"
	DefaultDataDir         = ".pxbuild"
)

// Options is the on-disk build configuration (pxbuild.yaml). Paths are
// relative to the working directory the tool is started in.
type Options struct {
	Root            string   `yaml:"root"`
	SharedRoot      string   `yaml:"shared_root"`
	AdapterSource   string   `yaml:"adapter_source"`
	StructgenSource string   `yaml:"structgen_source"`
	GeneratedDir    string   `yaml:"generated_dir"`
	Manifest        string   `yaml:"manifest"`
	DataDir         string   `yaml:"data_dir"`
	LogLevel        string   `yaml:"log_level"`
	Watch           []string `yaml:"watch"`
}

func DefaultOptions() *Options {
	return &Options{
		Root:            DefaultRoot,
		SharedRoot:      DefaultSharedRoot,
		AdapterSource:   DefaultAdapterSource,
		StructgenSource: DefaultStructgenSource,
		GeneratedDir:    DefaultGeneratedDir,
		DataDir:         DefaultDataDir,
		LogLevel:        "info",
		Watch: []string{
			"src/structgen/structgen.cpp",
			"src/structgen/structgen.hpp",
			"src/physx_generated.hpp",
			"src/physx_api.cpp",
			"physx/physx/include/PxPhysicsVersion.h",
		},
	}
}

func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, err
	}
	return opts, nil
}

func Save(path string, opts *Options) error {
	data, err := yaml.Marshal(opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
