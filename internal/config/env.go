package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Env holds the build descriptors handed to pxbuild by the calling build
// system. TARGET, HOST and OUT_DIR are mandatory; the target OS, env and
// family are derived from TARGET when not given explicitly.
type Env struct {
	Target         string   `env:"TARGET,required,notEmpty"`
	Host           string   `env:"HOST,required,notEmpty"`
	OutDir         string   `env:"OUT_DIR,required,notEmpty"`
	OptLevel       string   `env:"OPT_LEVEL"`
	Debug          string   `env:"DEBUG"`
	TargetOS       string   `env:"PXBUILD_TARGET_OS"`
	TargetEnv      string   `env:"PXBUILD_TARGET_ENV"`
	TargetFamily   string   `env:"PXBUILD_TARGET_FAMILY"`
	TargetFeature  string   `env:"PXBUILD_TARGET_FEATURE"`
	TargetCXX      string   `env:"TARGET_CXX"`
	CXX            string   `env:"CXX"`
	AndroidNDKRoot string   `env:"ANDROID_NDK_ROOT"`
	Features       []string `env:"PXBUILD_FEATURES" envSeparator:","`

	// compiler overrides keyed by target (CXX_<target>), collected separately
	// because the variable name depends on TARGET.
	targetCXX map[string]string
}

// Environ returns the process environment as a map.
func Environ() map[string]string {
	m := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			m[k] = v
		}
	}
	return m
}

// LoadEnv parses build descriptors from environ. Missing required variables
// are reported together, wrapped in ErrMissingEnv.
func LoadEnv(environ map[string]string) (*Env, error) {
	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Environment: environ}); err != nil {
		if missing := missingVars(err); len(missing) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
		}
		return nil, fmt.Errorf("parse env: %w", err)
	}

	e.targetCXX = make(map[string]string)
	for k, v := range environ {
		if strings.HasPrefix(k, "CXX_") && v != "" {
			e.targetCXX[strings.TrimPrefix(k, "CXX_")] = v
		}
	}
	return &e, nil
}

// CompilerOverride returns the user supplied C++ compiler, looked up in
// order: CXX_<target>, CXX_<target_with_underscores>,
// TARGET_CXX, CXX.
func (e *Env) CompilerOverride() string {
	if v, ok := e.targetCXX[e.Target]; ok {
		return v
	}
	if v, ok := e.targetCXX[strings.ReplaceAll(e.Target, "-", "_")]; ok {
		return v
	}
	if e.TargetCXX != "" {
		return e.TargetCXX
	}
	return e.CXX
}

func missingVars(err error) []string {
	var agg env.AggregateError
	if !errors.As(err, &agg) {
		return nil
	}
	var missing []string
	for _, e := range agg.Errors {
		var notSet env.VarIsNotSetError
		var empty env.EmptyVarError
		switch {
		case errors.As(e, &notSet):
			missing = append(missing, notSet.Key)
		case errors.As(e, &empty):
			missing = append(missing, empty.Key)
		}
	}
	return missing
}
