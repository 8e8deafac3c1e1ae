package config

import "sort"

// Presets are canned descriptor sets for inspecting flag selection without
// a calling build system (pxbuild flags --preset windows-msvc).
var Presets = map[string]map[string]string{
	"linux-x64": {
		"TARGET": "x86_64-unknown-linux-gnu", "HOST": "x86_64-unknown-linux-gnu",
		"OPT_LEVEL": "3", "DEBUG": "false",
	},
	"linux-x64-debug": {
		"TARGET": "x86_64-unknown-linux-gnu", "HOST": "x86_64-unknown-linux-gnu",
		"OPT_LEVEL": "0", "DEBUG": "true",
	},
	"linux-aarch64-cross": {
		"TARGET": "aarch64-unknown-linux-gnu", "HOST": "x86_64-unknown-linux-gnu",
		"OPT_LEVEL": "3", "DEBUG": "false", "PXBUILD_FEATURES": "structgen",
	},
	"macos-x64": {
		"TARGET": "x86_64-apple-darwin", "HOST": "x86_64-apple-darwin",
		"OPT_LEVEL": "3", "DEBUG": "false",
	},
	"windows-msvc": {
		"TARGET": "x86_64-pc-windows-msvc", "HOST": "x86_64-pc-windows-msvc",
		"OPT_LEVEL": "3", "DEBUG": "false", "PXBUILD_TARGET_FEATURE": "crt-static",
	},
	"windows-msvc-debug": {
		"TARGET": "x86_64-pc-windows-msvc", "HOST": "x86_64-pc-windows-msvc",
		"OPT_LEVEL": "0", "DEBUG": "true",
	},
	"android-aarch64": {
		"TARGET": "aarch64-linux-android", "HOST": "x86_64-unknown-linux-gnu",
		"OPT_LEVEL": "3", "DEBUG": "false",
	},
}

// GetPreset returns a copy of the named descriptor set merged over base, or
// nil if the preset does not exist.
func GetPreset(name string, base map[string]string) map[string]string {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(base)+len(p))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range p {
		out[k] = v
	}
	return out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
