package build

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTarget indicates a target triple with no pregenerated bindings.
	ErrUnknownTarget = errors.New("build: unknown TARGET triple")

	// ErrStructgenMissing indicates the compiler exited successfully but
	// produced no structgen binary.
	ErrStructgenMissing = errors.New("build: failed to compile structgen even though compiler reported no failures")

	// ErrEmulatorMissing indicates structgen must run under an emulator that
	// is not installed.
	ErrEmulatorMissing = errors.New("build: instruction-set emulator required to run structgen not found")

	// ErrForeignHost indicates structgen targets an operating system the host
	// cannot execute binaries for.
	ErrForeignHost = errors.New("build: structgen cannot run on this host")
)

// StepError wraps a failure with the step and command that produced it.
type StepError struct {
	Step    string
	Command string
	Wrapped error
}

func (e *StepError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("%s: %v", e.Step, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s: %v", e.Step, e.Command, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
