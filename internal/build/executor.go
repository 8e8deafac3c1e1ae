package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/pxbind/internal/log"
	"github.com/san-kum/pxbind/internal/runner"
)

// CgoFlagsFile is written into OUT_DIR and lists the link directives.
const CgoFlagsFile = "cgo_flags.txt"

// Event reports progress of a running build.
type Event struct {
	Step  string
	Unit  string
	Path  string
	Index int
	Total int
	Took  time.Duration
	Err   error
}

// Timing is the wall time of one compiled source.
type Timing struct {
	Unit     string
	Path     string
	Duration time.Duration
}

// Result describes a finished build.
type Result struct {
	ID             string
	Archives       []string
	Timings        []Timing
	LinkDirectives []string
	Started        time.Time
	Duration       time.Duration
}

// Executor runs a plan's commands one after another. The first failure
// aborts the build.
type Executor struct {
	Runner   runner.Runner
	Log      *log.Logger
	Progress func(Event)
}

func NewExecutor(r runner.Runner, l *log.Logger) *Executor {
	if l == nil {
		l = log.NewNop()
	}
	return &Executor{Runner: r, Log: l.Named("exec")}
}

func (e *Executor) emit(ev Event) {
	if e.Progress != nil {
		e.Progress(ev)
	}
}

func (e *Executor) Run(ctx context.Context, p *Plan) (*Result, error) {
	res := &Result{ID: uuid.NewString(), Started: time.Now()}
	e.Log.Info("build started",
		log.String("id", res.ID),
		log.String("target", p.Settings.Target),
		log.String("mode", string(p.Settings.Mode)))

	if err := os.MkdirAll(p.Settings.OutDir, 0755); err != nil {
		return nil, &StepError{Step: "prepare", Wrapped: err}
	}

	if err := e.unit(ctx, p, &p.Engine, res); err != nil {
		return nil, err
	}
	if p.Structgen != nil {
		if err := e.structgen(ctx, p.Structgen); err != nil {
			return nil, err
		}
	}
	if err := e.unit(ctx, p, &p.Adapter, res); err != nil {
		return nil, err
	}

	res.LinkDirectives = p.LinkDirectives()
	flagsPath := filepath.Join(p.Settings.OutDir, CgoFlagsFile)
	if err := os.WriteFile(flagsPath, []byte(strings.Join(res.LinkDirectives, " ")+"\n"), 0644); err != nil {
		return nil, &StepError{Step: "link directives", Wrapped: err}
	}

	res.Duration = time.Since(res.Started)
	e.Log.Info("build finished",
		log.String("id", res.ID),
		log.Duration("took", res.Duration),
		log.Strings("archives", res.Archives))
	return res, nil
}

func (e *Executor) unit(ctx context.Context, p *Plan, u *Unit, res *Result) error {
	cmds := p.CompileCommands(u)
	for i, cmd := range cmds {
		src := u.Sources[i]
		obj := cmd.Args[len(cmd.Args)-1]
		if u.Flags.Family.LikeMSVC() {
			obj = strings.TrimPrefix(obj, "/Fo")
		}
		if err := os.MkdirAll(filepath.Dir(obj), 0755); err != nil {
			return &StepError{Step: "compile " + u.Name, Wrapped: err}
		}

		start := time.Now()
		err := e.Runner.Run(ctx, cmd)
		took := time.Since(start)
		e.emit(Event{Step: "compile", Unit: u.Name, Path: src, Index: i, Total: len(cmds), Took: took, Err: err})
		if err != nil {
			return &StepError{Step: "compile " + u.Name, Command: cmd.String(), Wrapped: err}
		}
		e.Log.Debug("compiled", log.String("unit", u.Name), log.String("source", src), log.Duration("took", took))
		res.Timings = append(res.Timings, Timing{Unit: u.Name, Path: src, Duration: took})
	}

	ar := p.ArchiveCommand(u)
	err := e.Runner.Run(ctx, ar)
	e.emit(Event{Step: "archive", Unit: u.Name, Path: u.Archive, Index: len(cmds), Total: len(cmds), Err: err})
	if err != nil {
		return &StepError{Step: "archive " + u.Name, Command: ar.String(), Wrapped: err}
	}
	res.Archives = append(res.Archives, u.Archive)
	return nil
}

// RunStructgen compiles and runs only the structgen step of p, writing the
// generated layouts into OUT_DIR.
func (e *Executor) RunStructgen(ctx context.Context, p *Plan) error {
	if p.Structgen == nil {
		return &StepError{Step: "structgen", Wrapped: errors.New("build: structgen feature not enabled")}
	}
	if err := os.MkdirAll(p.Settings.OutDir, 0755); err != nil {
		return &StepError{Step: "prepare", Wrapped: err}
	}
	return e.structgen(ctx, p.Structgen)
}

func (e *Executor) structgen(ctx context.Context, step *StructgenStep) error {
	if err := e.Runner.Run(ctx, step.Compile); err != nil {
		return &StepError{Step: "structgen compile", Command: step.Compile.String(), Wrapped: err}
	}
	if _, err := os.Stat(step.Binary); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &StepError{Step: "structgen compile", Wrapped: fmt.Errorf("%w: %s", ErrStructgenMissing, step.Binary)}
		}
		return &StepError{Step: "structgen compile", Wrapped: err}
	}
	e.emit(Event{Step: "structgen", Path: step.Binary})

	if step.Emulator != "" {
		e.Log.Info("running structgen under emulator", log.String("emulator", step.Emulator))
	}
	if err := e.Runner.Run(ctx, step.Run); err != nil {
		return &StepError{Step: "structgen run", Command: step.Run.String(), Wrapped: err}
	}
	return nil
}
