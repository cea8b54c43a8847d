// Package vostest provides an in-memory VOS for testing the shell.
package vostest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/josephlewis42/simplesh/core/vos"
	"github.com/spf13/afero"
)

const (
	// Home is the home directory of the test user.
	Home = "/home/user"
	// Path is the default search path.
	Path = "/usr/bin:/bin"
)

// ProcessFunc is a fake program, it returns the exit status.
type ProcessFunc func(argv []string, stdio vos.VIO) int

// TestOS is a deterministic VOS with an in-memory filesystem and fake
// programs.
type TestOS struct {
	*vos.MapEnv
	*vos.VIOAdapter

	fs  afero.Fs
	cwd string

	// Programs maps absolute paths to the fake program they run.
	Programs map[string]ProcessFunc
	// StartErr, if set, is returned by every call to StartProcess.
	StartErr error
	// Started records the argv of each started process.
	Started [][]string
	// Env records the environment of the last started process.
	Env []string

	nextPid int
}

var _ vos.VOS = (*TestOS)(nil)

// NewTestOS creates a TestOS with a home directory, a /tmp directory and
// output captured in the returned buffer.
func NewTestOS() (*TestOS, *bytes.Buffer) {
	out := &bytes.Buffer{}

	fs := afero.NewMemMapFs()
	for _, dir := range []string{Home, "/tmp", "/usr/bin", "/bin"} {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			panic(err)
		}
	}

	return &TestOS{
		MapEnv:     vos.NewMapEnv(vos.EnvHome+"="+Home, vos.EnvPath+"="+Path),
		VIOAdapter: vos.NewVIOAdapter(nil, out, out),
		fs:         fs,
		cwd:        "/",
		Programs:   make(map[string]ProcessFunc),
		nextPid:    100,
	}, out
}

// AddProgram installs an executable at path that runs fn.
func (t *TestOS) AddProgram(path string, fn ProcessFunc) {
	if err := t.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		panic(err)
	}
	if err := afero.WriteFile(t.fs, path, []byte("#!fake\n"), 0755); err != nil {
		panic(err)
	}
	t.Programs[path] = fn
}

// SetStdin replaces the standard input of the shell.
func (t *TestOS) SetStdin(r io.Reader) {
	t.IStdin = r
}

func (t *TestOS) Getwd() (string, error) {
	return t.cwd, nil
}

func (t *TestOS) Chdir(dir string) error {
	target := dir
	if !filepath.IsAbs(target) {
		target = filepath.Join(t.cwd, target)
	}

	info, err := t.fs.Stat(target)
	switch {
	case os.IsNotExist(err):
		return &os.PathError{Op: "chdir", Path: dir, Err: syscall.ENOENT}
	case err != nil:
		return &os.PathError{Op: "chdir", Path: dir, Err: err}
	case !info.IsDir():
		return &os.PathError{Op: "chdir", Path: dir, Err: syscall.ENOTDIR}
	}

	t.cwd = filepath.Clean(target)
	return nil
}

func (t *TestOS) Fs() afero.Fs {
	return t.fs
}

func (t *TestOS) StartProcess(path string, argv []string, attr *vos.ProcAttr) (vos.Process, error) {
	if t.StartErr != nil {
		return nil, t.StartErr
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(t.cwd, path)
	}

	fn, ok := t.Programs[path]
	if !ok {
		return nil, &os.PathError{Op: "fork/exec", Path: path, Err: syscall.ENOEXEC}
	}

	stdio := vos.VIO(t)
	if attr != nil && attr.Files != nil {
		stdio = attr.Files
	}
	if attr != nil {
		t.Env = attr.Env
	}

	t.Started = append(t.Started, append([]string(nil), argv...))
	t.nextPid++

	return &process{pid: t.nextPid, run: func() int { return fn(argv, stdio) }}, nil
}

// process runs its program when waited on.
type process struct {
	pid int
	run func() int
}

func (p *process) Pid() int {
	return p.pid
}

func (p *process) Wait() (int, error) {
	return p.run(), nil
}

// Echo is a fake echo(1).
func Echo(argv []string, stdio vos.VIO) int {
	for i, arg := range argv[1:] {
		if i > 0 {
			fmt.Fprint(stdio.Stdout(), " ")
		}
		fmt.Fprint(stdio.Stdout(), arg)
	}
	fmt.Fprintln(stdio.Stdout())
	return 0
}

// Exit returns a fake program that exits with status.
func Exit(status int) ProcessFunc {
	return func([]string, vos.VIO) int {
		return status
	}
}
