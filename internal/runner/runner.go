// Package runner executes the external processes of a build: the C++
// compiler, the archiver and the structgen generator.
//
// Every command blocks until the process exits. There are no retries; a
// non-zero exit is returned as an *ExitError carrying the captured output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Command is a fully specified process invocation.
type Command struct {
	Path string
	Args []string
	Dir  string
	Env  []string
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Path
	}
	return c.Path + " " + strings.Join(c.Args, " ")
}

// Runner runs commands. Output returns combined stdout and stderr.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
	Output(ctx context.Context, cmd Command) ([]byte, error)
	LookPath(file string) (string, error)
}

type ExitError struct {
	Cmd    Command
	Output []byte
	Err    error
}

func (e *ExitError) Error() string {
	out := strings.TrimSpace(string(e.Output))
	if out == "" {
		return fmt.Sprintf("%s: %v", e.Cmd.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v\n%s", e.Cmd.Path, e.Err, out)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Exec runs commands on the host with os/exec.
type Exec struct{}

func NewExec() *Exec { return &Exec{} }

func (Exec) Run(ctx context.Context, cmd Command) error {
	_, err := Exec{}.Output(ctx, cmd)
	return err
}

func (Exec) Output(ctx context.Context, cmd Command) ([]byte, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(c.Environ(), cmd.Env...)
	}
	var buf bytes.Buffer
	c.Stdout = &buf
	c.Stderr = &buf

	if err := c.Run(); err != nil {
		return buf.Bytes(), &ExitError{Cmd: cmd, Output: buf.Bytes(), Err: err}
	}
	return buf.Bytes(), nil
}

func (Exec) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// ErrNotFound is returned by Recorder.LookPath for unknown programs.
var ErrNotFound = errors.New("runner: executable not found")
