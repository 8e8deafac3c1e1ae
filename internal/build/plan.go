package build

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/san-kum/pxbind/internal/config"
	"github.com/san-kum/pxbind/internal/log"
	"github.com/san-kum/pxbind/internal/runner"
	"github.com/san-kum/pxbind/internal/sources"
	"github.com/san-kum/pxbind/internal/toolchain"
)

const (
	EngineLib  = "physx"
	AdapterLib = "physx_api"
)

// Unit is one compiled archive: a set of sources sharing flags and includes.
type Unit struct {
	Name      string
	Flags     *toolchain.Flags
	Sources   []string
	Includes  []string
	ObjectDir string
	Archive   string
}

// Object returns the object path for src. Objects mirror the source path
// relative to base, so equal file names in different directories never
// collide.
func (u *Unit) Object(src, base string) string {
	rel, err := filepath.Rel(base, src)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(src)
	}
	ext := ".o"
	if u.Flags.Family.LikeMSVC() {
		ext = ".obj"
	}
	return filepath.Join(u.ObjectDir, strings.TrimSuffix(rel, filepath.Ext(rel))+ext)
}

// Plan is the complete, immutable description of a build. Producing a Plan
// runs nothing but the compiler probe.
type Plan struct {
	Settings *config.Settings
	Compiler string
	Family   toolchain.Family

	Engine  Unit
	Adapter Unit

	// Structgen is nil unless the structgen feature is enabled.
	Structgen *StructgenStep

	// GeneratedInclude holds the platform struct layout headers used by the
	// adapter unit.
	GeneratedInclude string

	engineBase  string
	adapterBase string
}

// Planner assembles plans. The runner is only used to probe the compiler
// family and to locate an emulator.
type Planner struct {
	Runner runner.Runner
	Log    *log.Logger
}

func NewPlanner(r runner.Runner, l *log.Logger) *Planner {
	if l == nil {
		l = log.NewNop()
	}
	return &Planner{Runner: r, Log: l.Named("plan")}
}

// Plan resolves sources, toolchain and flags for s. Every fatal condition
// surfaces here, before any compiler invocation.
func (p *Planner) Plan(ctx context.Context, s *config.Settings) (*Plan, error) {
	opts := s.Options

	m, err := sources.LoadManifest(opts.Manifest)
	if err != nil {
		return nil, &StepError{Step: "manifest", Wrapped: err}
	}

	srcCtx := sources.NewContext(opts.Root, opts.SharedRoot)
	if err := sources.Resolve(srcCtx, m, s.TargetFamily); err != nil {
		return nil, &StepError{Step: "resolve sources", Wrapped: err}
	}
	p.Log.Debug("sources resolved",
		log.Int("sources", len(srcCtx.Sources())),
		log.Int("includes", len(srcCtx.Includes())),
		log.Int("raw_includes", len(srcCtx.RawIncludes())))

	generated, err := generatedInclude(s)
	if err != nil {
		return nil, &StepError{Step: "generated bindings", Wrapped: err}
	}

	compiler := toolchain.DefaultCompiler(s)
	fam, err := toolchain.Detect(ctx, p.Runner, compiler)
	if err != nil {
		return nil, &StepError{Step: "detect compiler", Wrapped: err}
	}
	p.Log.Info("compiler selected", log.String("compiler", compiler), log.String("family", fam.String()))

	engineFlags, err := toolchain.Configure(s, compiler, fam)
	if err != nil {
		return nil, &StepError{Step: "configure toolchain", Wrapped: err}
	}
	adapterFlags, err := toolchain.ConfigureAdapter(s, compiler, fam)
	if err != nil {
		return nil, &StepError{Step: "configure adapter", Wrapped: err}
	}

	plan := &Plan{
		Settings:         s,
		Compiler:         compiler,
		Family:           fam,
		GeneratedInclude: generated,
		engineBase:       opts.Root,
		adapterBase:      filepath.Dir(opts.AdapterSource),
	}
	plan.Engine = Unit{
		Name:      EngineLib,
		Flags:     engineFlags,
		Sources:   srcCtx.Sources(),
		Includes:  srcCtx.Includes(),
		ObjectDir: filepath.Join(s.OutDir, "objects", EngineLib),
		Archive:   archivePath(s.OutDir, EngineLib, fam),
	}

	adapterIncludes := sources.AdapterIncludes(m, opts.Root, opts.SharedRoot)
	plan.Adapter = Unit{
		Name:      AdapterLib,
		Flags:     adapterFlags,
		Sources:   []string{opts.AdapterSource},
		Includes:  append(adapterIncludes, generated),
		ObjectDir: filepath.Join(s.OutDir, "objects", AdapterLib),
		Archive:   archivePath(s.OutDir, AdapterLib, fam),
	}

	if s.Features.Structgen {
		step, err := p.structgen(s, compiler, adapterFlags, adapterIncludes)
		if err != nil {
			return nil, &StepError{Step: "structgen", Wrapped: err}
		}
		plan.Structgen = step
	}
	return plan, nil
}

// generatedInclude picks the directory with the struct layouts the adapter
// unit compiles against. The x86_64 and aarch64 layouts are identical for
// linux, android and macOS, so they share one unix directory.
func generatedInclude(s *config.Settings) (string, error) {
	if s.Features.Structgen {
		return s.OutDir, nil
	}
	dir := s.Options.GeneratedDir
	switch {
	case s.Target == "x86_64-pc-windows-msvc":
		return filepath.Join(dir, s.Target), nil
	case strings.Contains(s.Target, "-linux-") || strings.HasSuffix(s.Target, "apple-darwin"):
		return filepath.Join(dir, "unix"), nil
	}
	return "", fmt.Errorf("%w '%s'", ErrUnknownTarget, s.Target)
}

func archivePath(outDir, name string, fam toolchain.Family) string {
	if fam.LikeMSVC() {
		return filepath.Join(outDir, name+".lib")
	}
	return filepath.Join(outDir, "lib"+name+".a")
}

// CompileCommands returns one compiler invocation per source of u.
func (p *Plan) CompileCommands(u *Unit) []runner.Command {
	base := p.engineBase
	if u.Name == AdapterLib {
		base = p.adapterBase
	}
	cmds := make([]runner.Command, 0, len(u.Sources))
	for _, src := range u.Sources {
		cmds = append(cmds, runner.Command{
			Path: u.Flags.Compiler,
			Args: u.Flags.CompileArgs(src, u.Object(src, base), u.Includes),
		})
	}
	return cmds
}

// ArchiveCommand bundles the objects of u into its static archive.
func (p *Plan) ArchiveCommand(u *Unit) runner.Command {
	base := p.engineBase
	if u.Name == AdapterLib {
		base = p.adapterBase
	}
	objs := make([]string, 0, len(u.Sources))
	for _, src := range u.Sources {
		objs = append(objs, u.Object(src, base))
	}
	if u.Flags.Family.LikeMSVC() {
		args := append([]string{"/NOLOGO", "/OUT:" + u.Archive}, objs...)
		return runner.Command{Path: "lib.exe", Args: args}
	}
	args := append([]string{"crs", u.Archive}, objs...)
	return runner.Command{Path: "ar", Args: args}
}

// Commands lists every command of the plan in execution order.
func (p *Plan) Commands() []runner.Command {
	var cmds []runner.Command
	cmds = append(cmds, p.CompileCommands(&p.Engine)...)
	cmds = append(cmds, p.ArchiveCommand(&p.Engine))
	if p.Structgen != nil {
		cmds = append(cmds, p.Structgen.Compile, p.Structgen.Run)
	}
	cmds = append(cmds, p.CompileCommands(&p.Adapter)...)
	cmds = append(cmds, p.ArchiveCommand(&p.Adapter))
	return cmds
}

// LinkDirectives returns the linker arguments a cgo consumer needs.
func (p *Plan) LinkDirectives() []string {
	out := p.Settings.OutDir
	if p.Family.LikeMSVC() {
		return []string{"/LIBPATH:" + out, AdapterLib + ".lib", EngineLib + ".lib"}
	}
	d := []string{"-L" + out, "-l" + AdapterLib, "-l" + EngineLib}
	if std := p.Engine.Flags.LinkStdlib; std != "" {
		d = append(d, "-l"+std)
	}
	return d
}
