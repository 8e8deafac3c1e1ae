package runner

import (
	"context"
	"sync"
)

// Recorder is a Runner that records commands instead of executing them. It
// backs tests. Hooks can fail a command or fake its output.
type Recorder struct {
	mu       sync.Mutex
	commands []Command

	// Paths lists the programs LookPath can find.
	Paths map[string]string
	// Fail returns a non-nil error for commands that should fail.
	Fail func(Command) error
	// Reply returns the output for a command.
	Reply func(Command) []byte
	// After runs once a command has been recorded successfully, letting tests
	// create the files a real compiler would have produced.
	After func(Command)
}

func NewRecorder() *Recorder {
	return &Recorder{Paths: make(map[string]string)}
}

func (r *Recorder) Run(ctx context.Context, cmd Command) error {
	_, err := r.Output(ctx, cmd)
	return err
}

func (r *Recorder) Output(ctx context.Context, cmd Command) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	r.mu.Unlock()

	var out []byte
	if r.Reply != nil {
		out = r.Reply(cmd)
	}
	if r.Fail != nil {
		if err := r.Fail(cmd); err != nil {
			return out, &ExitError{Cmd: cmd, Output: out, Err: err}
		}
	}
	if r.After != nil {
		r.After(cmd)
	}
	return out, nil
}

func (r *Recorder) LookPath(file string) (string, error) {
	if p, ok := r.Paths[file]; ok {
		return p, nil
	}
	return "", ErrNotFound
}

// Commands returns a copy of every command seen so far.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}
