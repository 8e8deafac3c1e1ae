package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/pxbind/internal/config"
)

const gpuLibName = "libPhysXGpu_64.so"

type Define struct {
	Name  string
	Value string
}

func (d Define) Arg(f Family) string {
	prefix := "-D"
	if f.LikeMSVC() {
		prefix = "/D"
	}
	if d.Value == "" {
		return prefix + d.Name
	}
	return prefix + d.Name + "=" + d.Value
}

// Flags is the selected compiler configuration for one compiled unit.
type Flags struct {
	Compiler   string
	Family     Family
	Defines    []Define
	Flags      []string
	LinkStdlib string
}

func (f *Flags) define(name, value string) {
	f.Defines = append(f.Defines, Define{Name: name, Value: value})
}

func (f *Flags) flag(args ...string) {
	f.Flags = append(f.Flags, args...)
}

// Lookup returns the value of a define and whether it is set.
func (f *Flags) Lookup(name string) (string, bool) {
	for _, d := range f.Defines {
		if d.Name == name {
			return d.Value, true
		}
	}
	return "", false
}

func (f *Flags) HasDefine(name string) bool {
	_, ok := f.Lookup(name)
	return ok
}

func (f *Flags) HasFlag(flag string) bool {
	for _, fl := range f.Flags {
		if fl == flag {
			return true
		}
	}
	return false
}

// CompileArgs returns the arguments compiling src into the object obj.
func (f *Flags) CompileArgs(src, obj string, includes []string) []string {
	args := make([]string, 0, len(f.Flags)+len(f.Defines)+len(includes)+4)
	args = append(args, f.Flags...)
	for _, d := range f.Defines {
		args = append(args, d.Arg(f.Family))
	}
	for _, inc := range includes {
		if f.Family.LikeMSVC() {
			args = append(args, "/I"+inc)
		} else {
			args = append(args, "-I"+inc)
		}
	}
	if f.Family.LikeMSVC() {
		return append(args, "/c", src, "/Fo"+obj)
	}
	return append(args, "-c", src, "-o", obj)
}

// Configure selects flags for the engine archive.
func Configure(s *config.Settings, compiler string, fam Family) (*Flags, error) {
	if fam == FamilyUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompiler, compiler)
	}
	f := &Flags{Compiler: compiler, Family: fam, LinkStdlib: linkStdlib(s, fam)}

	if s.TargetOS == "android" {
		sysroot, err := androidSysroot(s)
		if err != nil {
			return nil, err
		}
		f.define("ANDROID", "")
		f.flag("--sysroot=" + sysroot)
		f.LinkStdlib = "c++"
	}

	if s.TargetEnv == "msvc" {
		f.define("_CRT_SECURE_NO_WARNINGS", "")
		f.define("_WINSOCK_DEPRECATED_NO_WARNINGS", "")
		f.define("_ITERATOR_DEBUG_LEVEL", "0")
	}

	f.define("PX_PHYSX_STATIC_LIB", "")
	if s.DebugInfo {
		f.define("PX_DEBUG", "")
		f.define("PX_CHECKED", "")
	}
	f.define("PX_SUPPORT_PVD", "1")
	f.define("PX_SUPPORT_GPU_PHYSX", "1")
	f.define("PX_PHYSX_GPU_SHARED_LIB_NAME", gpuLibName)
	if s.Features.Profile {
		f.define("PX_PROFILE", "1")
	}

	switch {
	case fam.LikeClang() || fam.LikeGNU():
		f.flag("-O" + s.OptLevel)
		f.flag("-ffunction-sections", "-fdata-sections")
		if s.DebugInfo {
			f.flag("-g")
		}
		if fam.LikeClang() && s.CrossCompiling() {
			f.flag("--target=" + s.Target)
		}
		f.flag("-std=c++14", "-w")
	case fam.LikeMSVC():
		// Default flags are off for MSVC, so profile and debug flags are set
		// by hand here.
		f.flag("-nologo", "/MP")
		f.flag(crtFlag(s))
		if s.DebugInfo {
			f.flag("/Z7")
		}
		if s.Mode == config.ModeProfile {
			f.flag("/O2")
		}
		f.flag("/std:c++14")
	}

	// The engine needs one of _DEBUG or NDEBUG; see the package comment for
	// why it is always NDEBUG.
	f.define("NDEBUG", "1")

	if !fam.LikeMSVC() && !(fam.LikeClang() && s.TargetOS == "windows") {
		f.flag("-fPIC")
	}
	return f, nil
}

// ConfigureAdapter selects flags for the small adapter unit that exposes the
// engine through a C interface. It is always optimized and never carries
// debug info.
func ConfigureAdapter(s *config.Settings, compiler string, fam Family) (*Flags, error) {
	if fam == FamilyUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompiler, compiler)
	}
	f := &Flags{Compiler: compiler, Family: fam, LinkStdlib: linkStdlib(s, fam)}
	if s.TargetOS == "android" {
		f.LinkStdlib = "c++"
	}

	f.define("NDEBUG", "")
	f.define("PX_PHYSX_STATIC_LIB", "")
	f.define("PX_PHYSX_GPU_SHARED_LIB_NAME", gpuLibName)
	if s.Features.Profile {
		f.define("PX_PROFILE", "1")
	}

	if fam.LikeMSVC() {
		f.flag("-nologo", crtFlag(s), "/O2", "/std:c++14")
	} else {
		f.flag("-O3", "-ffunction-sections", "-fdata-sections", "-fno-plt")
		if fam.LikeClang() && s.CrossCompiling() {
			f.flag("--target=" + s.Target)
		}
		if !(fam.LikeClang() && s.TargetOS == "windows") {
			f.flag("-fPIC")
		}
		f.flag("-std=c++14")
	}

	if !s.Features.CPPWarnings {
		dw, err := WarningFlag(fam)
		if err != nil {
			return nil, err
		}
		f.flag(dw)
	}
	return f, nil
}

// WarningFlag returns the flag disabling all warnings. The engine sources are
// noisy and end users have no use for the output.
func WarningFlag(fam Family) (string, error) {
	switch {
	case fam.LikeClang() || fam.LikeGNU():
		return "-w", nil
	case fam.LikeMSVC():
		return "/w", nil
	}
	return "", ErrUnknownCompiler
}

func crtFlag(s *config.Settings) string {
	if s.StaticCRT {
		return "/MT"
	}
	return "/MD"
}

func linkStdlib(s *config.Settings, fam Family) string {
	switch {
	case fam.LikeMSVC():
		return ""
	case s.TargetOS == "macos" || s.TargetOS == "ios" || s.TargetOS == "freebsd":
		return "c++"
	default:
		return "stdc++"
	}
}

var ndkHosts = map[string]string{
	"x86_64-pc-windows-msvc":   "windows-x86_64",
	"x86_64-unknown-linux-gnu": "linux-x86_64",
	"x86_64-apple-darwin":      "darwin-x86_64",
}

func androidSysroot(s *config.Settings) (string, error) {
	if s.AndroidNDKRoot == "" {
		return "", fmt.Errorf("%w: environment variable ANDROID_NDK_ROOT has not been set", ErrMissingNDK)
	}
	host, ok := ndkHosts[s.Host]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedHost, s.Host)
	}
	sysroot := filepath.Join(s.AndroidNDKRoot, "toolchains", "llvm", "prebuilt", host, "sysroot")
	if _, err := os.Stat(sysroot); err != nil {
		return "", fmt.Errorf("%w: can't find %q", ErrMissingNDK, sysroot)
	}
	return sysroot, nil
}

func (f *Flags) String() string {
	var b strings.Builder
	b.WriteString(f.Compiler)
	for _, fl := range f.Flags {
		b.WriteByte(' ')
		b.WriteString(fl)
	}
	for _, d := range f.Defines {
		b.WriteByte(' ')
		b.WriteString(d.Arg(f.Family))
	}
	return b.String()
}
