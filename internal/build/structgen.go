package build

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/san-kum/pxbind/internal/config"
	"github.com/san-kum/pxbind/internal/runner"
	"github.com/san-kum/pxbind/internal/toolchain"
)

// StructgenStep compiles and runs the layout generator. It writes the
// generated struct headers into OUT_DIR, which then becomes the adapter's
// generated include.
type StructgenStep struct {
	Compile runner.Command
	Run     runner.Command

	// Binary is the path the compile step must produce.
	Binary string
	// Emulator is the resolved emulator path, empty when the binary runs
	// natively.
	Emulator string
}

// Architectures a host can execute without an emulator, beyond its own.
var nativeCompat = map[string][]string{
	"x86_64":  {"i686", "i586"},
	"aarch64": {"armv7", "arm"},
}

func (p *Planner) structgen(s *config.Settings, compiler string, f *toolchain.Flags, includes []string) (*StructgenStep, error) {
	out := filepath.Join(s.OutDir, "structgen")

	args := append([]string(nil), f.Flags...)
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
		args = append(args, "/Fe"+out, "/Fo"+out+".obj")
	} else {
		if s.CrossCompiling() && s.TargetArch == "aarch64" {
			args = append(args, "-static")
		}
		args = append(args, "-o", out)
	}
	args = append(args, s.Options.StructgenSource)

	binary := out
	if strings.Contains(s.Host, "windows") {
		binary += ".exe"
	}

	step := &StructgenStep{
		Compile: runner.Command{Path: compiler, Args: args},
		Binary:  binary,
		Run:     runner.Command{Path: binary, Dir: s.OutDir},
	}

	emulate, err := needsEmulator(s)
	if err != nil {
		return nil, err
	}
	if emulate {
		name := "qemu-" + s.TargetArch
		path, err := p.Runner.LookPath(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s (structgen targets %s on a %s host)",
				ErrEmulatorMissing, name, s.TargetArch, s.HostArch())
		}
		step.Emulator = path
		step.Run = runner.Command{Path: path, Args: []string{binary}, Dir: s.OutDir}
	}
	return step, nil
}

// needsEmulator reports whether structgen has to run under qemu. A binary
// for another operating system cannot run on the host at all.
func needsEmulator(s *config.Settings) (bool, error) {
	if !s.CrossCompiling() {
		return false, nil
	}
	if hostOS := config.ParseTriple(s.Host).OS; hostOS != s.TargetOS {
		return false, fmt.Errorf("%w: structgen built for %s cannot run on a %s host",
			ErrForeignHost, s.TargetOS, hostOS)
	}
	host := s.HostArch()
	if host == s.TargetArch {
		return false, nil
	}
	for _, a := range nativeCompat[host] {
		if a == s.TargetArch {
			return false, nil
		}
	}
	return true, nil
}
