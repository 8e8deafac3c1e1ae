package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"TARGET":  "x86_64-unknown-linux-gnu",
		"HOST":    "x86_64-unknown-linux-gnu",
		"OUT_DIR": "/tmp/out",
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.Equal(t, DefaultRoot, opts.Root)
	assert.Equal(t, DefaultDataDir, opts.DataDir)
	assert.NotEmpty(t, opts.Watch)
}

func TestOptionsSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pxbuild.yaml")
	opts := DefaultOptions()
	opts.Root = "vendor/physx"
	opts.Manifest = "manifest.yaml"

	require.NoError(t, Save(path, opts))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "vendor/physx", loaded.Root)
	assert.Equal(t, "manifest.yaml", loaded.Manifest)
	assert.Equal(t, DefaultSharedRoot, loaded.SharedRoot)
}

func TestLoadEnv_MissingRequired(t *testing.T) {
	environ := baseEnv()
	delete(environ, "HOST")
	delete(environ, "OUT_DIR")

	_, err := LoadEnv(environ)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingEnv))
	assert.Contains(t, err.Error(), "HOST")
	assert.Contains(t, err.Error(), "OUT_DIR")
}

func TestLoadEnv_EmptyRequired(t *testing.T) {
	environ := baseEnv()
	environ["TARGET"] = ""

	_, err := LoadEnv(environ)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingEnv)
	assert.Contains(t, err.Error(), "TARGET")
}

func TestCompilerOverrideOrder(t *testing.T) {
	tests := []struct {
		name     string
		extra    map[string]string
		expected string
	}{
		{"none", nil, ""},
		{"cxx", map[string]string{"CXX": "g++"}, "g++"},
		{"target cxx wins over cxx", map[string]string{"CXX": "g++", "TARGET_CXX": "clang++"}, "clang++"},
		{"underscored target", map[string]string{"TARGET_CXX": "clang++", "CXX_x86_64_unknown_linux_gnu": "g++-12"}, "g++-12"},
		{"exact target", map[string]string{"CXX_x86_64_unknown_linux_gnu": "g++-12", "CXX_x86_64-unknown-linux-gnu": "g++-13"}, "g++-13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			environ := baseEnv()
			for k, v := range tt.extra {
				environ[k] = v
			}
			e, err := LoadEnv(environ)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, e.CompilerOverride())
		})
	}
}

func TestResolve(t *testing.T) {
	environ := baseEnv()
	environ["OPT_LEVEL"] = "0"
	environ["DEBUG"] = "true"
	environ["PXBUILD_FEATURES"] = "structgen,profile"
	environ["PXBUILD_TARGET_FEATURE"] = "sse2,crt-static"

	e, err := LoadEnv(environ)
	require.NoError(t, err)
	s, err := Resolve(e, nil)
	require.NoError(t, err)

	assert.Equal(t, ModeDebug, s.Mode)
	assert.True(t, s.DebugInfo)
	assert.True(t, s.StaticCRT)
	assert.True(t, s.Features.Structgen)
	assert.True(t, s.Features.Profile)
	assert.False(t, s.Features.CPPWarnings)
	assert.Equal(t, "linux", s.TargetOS)
	assert.Equal(t, "gnu", s.TargetEnv)
	assert.Equal(t, "unix", s.TargetFamily)
	assert.Equal(t, DefaultRoot, s.Options.Root)
}

func TestResolve_BuildMode(t *testing.T) {
	tests := []struct {
		opt  string
		mode Mode
	}{
		{"", ModeProfile},
		{"0", ModeDebug},
		{"1", ModeProfile},
		{"3", ModeProfile},
		{"s", ModeProfile},
	}
	for _, tt := range tests {
		environ := baseEnv()
		environ["OPT_LEVEL"] = tt.opt
		e, err := LoadEnv(environ)
		require.NoError(t, err)
		s, err := Resolve(e, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.mode, s.Mode, "OPT_LEVEL=%q", tt.opt)
	}
}

func TestResolve_ExplicitFamilyWins(t *testing.T) {
	environ := baseEnv()
	environ["PXBUILD_TARGET_FAMILY"] = "plan9"

	e, err := LoadEnv(environ)
	require.NoError(t, err)
	s, err := Resolve(e, nil)
	require.NoError(t, err)
	assert.Equal(t, "plan9", s.TargetFamily)
}

func TestResolve_UnknownFeature(t *testing.T) {
	environ := baseEnv()
	environ["PXBUILD_FEATURES"] = "gpu"

	e, err := LoadEnv(environ)
	require.NoError(t, err)
	_, err = Resolve(e, nil)
	assert.Error(t, err)
}

func TestParseTriple(t *testing.T) {
	tests := []struct {
		triple string
		want   Triple
	}{
		{"x86_64-unknown-linux-gnu", Triple{"x86_64", "linux", "gnu", "unix"}},
		{"x86_64-pc-windows-msvc", Triple{"x86_64", "windows", "msvc", "windows"}},
		{"x86_64-pc-windows-gnu", Triple{"x86_64", "windows", "gnu", "windows"}},
		{"aarch64-apple-darwin", Triple{"aarch64", "macos", "", "unix"}},
		{"aarch64-linux-android", Triple{"aarch64", "android", "", "unix"}},
		{"armv7-unknown-linux-gnueabihf", Triple{"armv7", "linux", "gnu", "unix"}},
		{"wasm32-unknown-unknown", Triple{"wasm32", "unknown", "", "wasm"}},
	}
	for _, tt := range tests {
		t.Run(tt.triple, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTriple(tt.triple))
		})
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	require.NotEmpty(t, names)

	for _, name := range names {
		environ := GetPreset(name, map[string]string{"OUT_DIR": "/tmp/out"})
		e, err := LoadEnv(environ)
		require.NoError(t, err, name)
		_, err = Resolve(e, nil)
		require.NoError(t, err, name)
	}

	assert.Nil(t, GetPreset("nonexistent", nil))
}
