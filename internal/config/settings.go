package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type Mode string

const (
	ModeDebug   Mode = "debug"
	ModeProfile Mode = "profile"
)

// Features are the named build options that change what gets compiled.
type Features struct {
	Profile     bool
	Structgen   bool
	CPPWarnings bool
}

func ParseFeatures(names []string) (Features, error) {
	var f Features
	for _, n := range names {
		switch strings.TrimSpace(n) {
		case "":
		case "profile":
			f.Profile = true
		case "structgen":
			f.Structgen = true
		case "cpp_warnings", "cpp-warnings":
			f.CPPWarnings = true
		default:
			return f, fmt.Errorf("config: unknown feature %q", n)
		}
	}
	return f, nil
}

func (f Features) Names() []string {
	var names []string
	if f.Profile {
		names = append(names, "profile")
	}
	if f.Structgen {
		names = append(names, "structgen")
	}
	if f.CPPWarnings {
		names = append(names, "cpp_warnings")
	}
	return names
}

// Settings is the fully resolved, immutable input of every build step.
type Settings struct {
	Target       string
	Host         string
	TargetArch   string
	TargetOS     string
	TargetEnv    string
	TargetFamily string
	OutDir       string

	OptLevel  string
	Mode      Mode
	DebugInfo bool
	StaticCRT bool

	// Compiler is the user supplied C++ compiler, empty when none was set.
	Compiler       string
	AndroidNDKRoot string
	Features       Features
	Options        Options
}

// Resolve combines environment descriptors and file options into Settings.
func Resolve(e *Env, opts *Options) (*Settings, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	features, err := ParseFeatures(e.Features)
	if err != nil {
		return nil, err
	}

	t := ParseTriple(e.Target)
	s := &Settings{
		Target:         e.Target,
		Host:           e.Host,
		TargetArch:     t.Arch,
		TargetOS:       firstNonEmpty(e.TargetOS, t.OS),
		TargetEnv:      firstNonEmpty(e.TargetEnv, t.Env),
		TargetFamily:   firstNonEmpty(e.TargetFamily, t.Family),
		OutDir:         e.OutDir,
		OptLevel:       firstNonEmpty(e.OptLevel, "1"),
		Mode:           buildMode(e.OptLevel),
		DebugInfo:      parseBool(e.Debug),
		StaticCRT:      slices.Contains(strings.Split(e.TargetFeature, ","), "crt-static"),
		Compiler:       e.CompilerOverride(),
		AndroidNDKRoot: e.AndroidNDKRoot,
		Features:       features,
		Options:        *opts,
	}
	return s, nil
}

// CrossCompiling reports whether target and host differ.
func (s *Settings) CrossCompiling() bool { return s.Target != s.Host }

// HostArch is the architecture component of the host triple.
func (s *Settings) HostArch() string { return ParseTriple(s.Host).Arch }

// The optimization level picks the build profile instead of a debug
// assertion switch, since build dependencies may be compiled with a
// different profile than the final target.
func buildMode(optLevel string) Mode {
	n, err := strconv.Atoi(optLevel)
	if err != nil {
		n = 1
	}
	if n == 0 {
		return ModeDebug
	}
	return ModeProfile
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
