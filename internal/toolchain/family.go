package toolchain

import (
	"context"
	"fmt"
	"strings"

	"github.com/san-kum/pxbind/internal/config"
	"github.com/san-kum/pxbind/internal/runner"
)

type Family int

const (
	FamilyUnknown Family = iota
	FamilyGNU
	FamilyClang
	FamilyMSVC
	// FamilyClangCL is clang with the MSVC driver interface.
	FamilyClangCL
)

func (f Family) String() string {
	switch f {
	case FamilyGNU:
		return "gnu"
	case FamilyClang:
		return "clang"
	case FamilyMSVC:
		return "msvc"
	case FamilyClangCL:
		return "clang-cl"
	default:
		return "unknown"
	}
}

func (f Family) LikeGNU() bool   { return f == FamilyGNU }
func (f Family) LikeClang() bool { return f == FamilyClang }
func (f Family) LikeMSVC() bool  { return f == FamilyMSVC || f == FamilyClangCL }

// DefaultCompiler picks the compiler to use when the user did not set one.
// Linux and x86_64 macOS hosts force clang++: structgen already requires it,
// and on macOS "c++" is a clang symlink that name detection would misjudge.
func DefaultCompiler(s *config.Settings) string {
	if s.Compiler != "" {
		return s.Compiler
	}
	if strings.Contains(s.Host, "-linux-") || s.Host == "x86_64-apple-darwin" {
		return "clang++"
	}
	if s.TargetEnv == "msvc" {
		return "cl.exe"
	}
	return "c++"
}

// Detect determines the family of compiler. Names that say nothing about the
// family (c++, cc, CC) are probed with --version.
func Detect(ctx context.Context, r runner.Runner, compiler string) (Family, error) {
	if f := familyFromName(compiler); f != FamilyUnknown {
		return f, nil
	}

	out, err := r.Output(ctx, runner.Command{Path: compiler, Args: []string{"--version"}})
	if err != nil {
		return FamilyUnknown, fmt.Errorf("%w: probing %s: %v", ErrUnknownCompiler, compiler, err)
	}
	if f := familyFromVersion(string(out)); f != FamilyUnknown {
		return f, nil
	}
	return FamilyUnknown, fmt.Errorf("%w: %s", ErrUnknownCompiler, compiler)
}

func familyFromName(compiler string) Family {
	// Windows paths are split by hand so they resolve on any host.
	base := compiler[strings.LastIndexAny(compiler, `/\`)+1:]
	base = strings.ToLower(base)
	base = strings.TrimSuffix(base, ".exe")

	switch {
	case base == "clang-cl" || strings.HasSuffix(base, "-clang-cl"):
		return FamilyClangCL
	case base == "cl":
		return FamilyMSVC
	case strings.Contains(base, "clang"):
		return FamilyClang
	case strings.HasSuffix(base, "g++") || strings.HasSuffix(base, "gcc"):
		return FamilyGNU
	case strings.Contains(base, "g++-") || strings.Contains(base, "gcc-"):
		return FamilyGNU
	}
	return FamilyUnknown
}

func familyFromVersion(out string) Family {
	lower := strings.ToLower(out)
	switch {
	case strings.Contains(lower, "clang"):
		return FamilyClang
	case strings.Contains(lower, "free software foundation"), strings.Contains(lower, "gcc"):
		return FamilyGNU
	case strings.Contains(lower, "microsoft"):
		return FamilyMSVC
	}
	return FamilyUnknown
}
