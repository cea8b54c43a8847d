package core

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"github.com/josephlewis42/simplesh/core/vos"
)

// ErrSpawnContext is returned when the system could not create a child
// process at all, for example because of resource exhaustion.
var ErrSpawnContext = errors.New("can't create process")

// ExecError is returned when a program could not be found or run. The
// session continues after reporting it.
type ExecError struct {
	Name string
	Err  error
}

func (e *ExecError) Error() string {
	switch {
	case errors.Is(e.Err, vos.ErrNotFound):
		return fmt.Sprintf("%s: command not found", e.Name)
	case errors.Is(e.Err, fs.ErrPermission):
		return fmt.Sprintf("%s: permission denied", e.Name)
	default:
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// ExitResult describes a child that ran to completion.
type ExitResult struct {
	Path   string
	Pid    int
	Status int
}

// Executor runs external programs in the foreground.
type Executor struct {
	OS vos.VOS
}

// Execute resolves argv[0] on the current PATH, runs it with argv and the
// session's standard streams, and waits for it to exit. A nonzero exit
// status is reported in the result, not as an error.
func (e *Executor) Execute(argv []string) (*ExitResult, error) {
	if len(argv) == 0 {
		return nil, errors.New("no command")
	}

	execPath, err := vos.LookPath(e.OS, argv[0])
	if err != nil {
		return nil, &ExecError{Name: argv[0], Err: err}
	}

	proc, err := e.OS.StartProcess(execPath, argv, &vos.ProcAttr{
		Env:   e.OS.Environ(),
		Files: e.OS,
	})
	switch {
	case isSpawnFailure(err):
		return nil, fmt.Errorf("%w: %s: %v", ErrSpawnContext, argv[0], err)
	case err != nil:
		return nil, &ExecError{Name: argv[0], Err: err}
	}

	status, err := proc.Wait()
	if err != nil {
		return nil, fmt.Errorf("%s: waiting for process: %w", argv[0], err)
	}

	return &ExitResult{
		Path:   execPath,
		Pid:    proc.Pid(),
		Status: status,
	}, nil
}

// isSpawnFailure reports whether err means the system could not create a
// process at all. Anything else is a problem with the program itself.
func isSpawnFailure(err error) bool {
	if err == nil {
		return false
	}

	for _, errno := range []syscall.Errno{syscall.EAGAIN, syscall.ENOMEM, syscall.ENFILE, syscall.EMFILE} {
		if errors.Is(err, errno) {
			return true
		}
	}

	return false
}
