package vos

import (
	"errors"
	"os"
	"os/exec"

	"github.com/spf13/afero"
)

// HostOS is a VOS backed by the real operating system. The environment and
// working directory belong to the whole process.
type HostOS struct {
	VIO

	fs afero.Fs
}

var _ VOS = (*HostOS)(nil)

// NewHostOS creates a HostOS using the given streams.
func NewHostOS(stdio VIO) *HostOS {
	return &HostOS{
		VIO: stdio,
		fs:  afero.NewOsFs(),
	}
}

func (*HostOS) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (*HostOS) Setenv(key, value string) error {
	return os.Setenv(key, value)
}

func (*HostOS) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (*HostOS) Getenv(key string) string {
	return os.Getenv(key)
}

func (*HostOS) Environ() []string {
	return os.Environ()
}

func (*HostOS) Getwd() (string, error) {
	return os.Getwd()
}

func (*HostOS) Chdir(dir string) error {
	return os.Chdir(dir)
}

func (h *HostOS) Fs() afero.Fs {
	return h.fs
}

// StartProcess implements VProc.StartProcess using os/exec.
func (*HostOS) StartProcess(path string, argv []string, attr *ProcAttr) (Process, error) {
	cmd := &exec.Cmd{
		Path: path,
		Args: argv,
	}

	if attr != nil {
		cmd.Dir = attr.Dir
		cmd.Env = attr.Env
		if attr.Files != nil {
			cmd.Stdin = attr.Files.Stdin()
			cmd.Stdout = attr.Files.Stdout()
			cmd.Stderr = attr.Files.Stderr()
		}
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &hostProcess{cmd: cmd}, nil
}

type hostProcess struct {
	cmd *exec.Cmd
}

func (p *hostProcess) Pid() int {
	return p.cmd.Process.Pid
}

// Wait waits on this child only, other children of the process are left
// alone.
func (p *hostProcess) Wait() (int, error) {
	err := p.cmd.Wait()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), nil
	default:
		return -1, err
	}
}
