package core

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"

	"github.com/josephlewis42/simplesh/core/vos"
	"github.com/josephlewis42/simplesh/core/vos/vostest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutor_Execute(t *testing.T) {
	tos, out := vostest.NewTestOS()
	tos.AddProgram("/usr/bin/greet", func(argv []string, stdio vos.VIO) int {
		stdio.Stdout().Write([]byte("hello " + argv[1] + "\n"))
		return 3
	})

	result, err := (&Executor{OS: tos}).Execute([]string{"greet", "world"})
	require.NoError(t, err)

	assert.Equal(t, "/usr/bin/greet", result.Path)
	assert.Equal(t, 3, result.Status)
	assert.NotZero(t, result.Pid)
	assert.Equal(t, "hello world\n", out.String())
}

func TestExecutor_Execute_errors(t *testing.T) {
	cases := map[string]struct {
		argv     []string
		startErr error
		isExec   bool
		wantErr  error
	}{
		"not found": {
			argv:    []string{"missing"},
			isExec:  true,
			wantErr: vos.ErrNotFound,
		},
		"exec format": {
			argv:     []string{"prog"},
			startErr: &os.PathError{Op: "fork/exec", Path: "/bin/prog", Err: syscall.ENOEXEC},
			isExec:   true,
			wantErr:  syscall.ENOEXEC,
		},
		"permission": {
			argv:     []string{"prog"},
			startErr: &os.PathError{Op: "fork/exec", Path: "/bin/prog", Err: syscall.EACCES},
			isExec:   true,
			wantErr:  fs.ErrPermission,
		},
		"resource exhaustion": {
			argv:     []string{"prog"},
			startErr: &os.PathError{Op: "fork/exec", Path: "/bin/prog", Err: syscall.EAGAIN},
			wantErr:  ErrSpawnContext,
		},
		"text file busy": {
			argv:     []string{"prog"},
			startErr: &os.PathError{Op: "fork/exec", Path: "/bin/prog", Err: syscall.ETXTBSY},
			isExec:   true,
			wantErr:  syscall.ETXTBSY,
		},
		"argument list too long": {
			argv:     []string{"prog"},
			startErr: &os.PathError{Op: "fork/exec", Path: "/bin/prog", Err: syscall.E2BIG},
			isExec:   true,
			wantErr:  syscall.E2BIG,
		},
		"symlink loop": {
			argv:     []string{"prog"},
			startErr: &os.PathError{Op: "fork/exec", Path: "/bin/prog", Err: syscall.ELOOP},
			isExec:   true,
			wantErr:  syscall.ELOOP,
		},
		"too many open files": {
			argv:     []string{"prog"},
			startErr: &os.PathError{Op: "fork/exec", Path: "/bin/prog", Err: syscall.EMFILE},
			wantErr:  ErrSpawnContext,
		},
		"file table full": {
			argv:     []string{"prog"},
			startErr: &os.PathError{Op: "fork/exec", Path: "/bin/prog", Err: syscall.ENFILE},
			wantErr:  ErrSpawnContext,
		},
		"out of memory": {
			argv:     []string{"prog"},
			startErr: &os.PathError{Op: "fork/exec", Path: "/bin/prog", Err: syscall.ENOMEM},
			wantErr:  ErrSpawnContext,
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			tos, _ := vostest.NewTestOS()
			tos.AddProgram("/bin/prog", vostest.Exit(0))
			tos.StartErr = tc.startErr

			_, err := (&Executor{OS: tos}).Execute(tc.argv)
			require.Error(t, err)

			var execErr *ExecError
			assert.Equal(t, tc.isExec, errors.As(err, &execErr))
			assert.True(t, errors.Is(err, tc.wantErr), err)
		})
	}
}

func TestExecutor_Execute_textFileBusy(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("ETXTBSY is only reported on linux")
	}

	script := filepath.Join(t.TempDir(), "busy.sh")
	fd, err := os.OpenFile(script, os.O_CREATE|os.O_WRONLY, 0755)
	require.NoError(t, err)
	defer fd.Close()
	_, err = fd.WriteString("#!/bin/sh\nexit 0\n")
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	hostOS := vos.NewHostOS(vos.NewVIOAdapter(nil, &stdout, &stderr))

	_, err = (&Executor{OS: hostOS}).Execute([]string{script})
	require.Error(t, err)

	var execErr *ExecError
	assert.True(t, errors.As(err, &execErr), err)
	assert.False(t, errors.Is(err, ErrSpawnContext), err)
	assert.True(t, errors.Is(err, syscall.ETXTBSY), err)
}

func ExampleExecError() {
	fmt.Println(&ExecError{Name: "ls", Err: vos.ErrNotFound})
	fmt.Println(&ExecError{Name: "./notes", Err: fs.ErrPermission})

	// Output: ls: command not found
	// ./notes: permission denied
}
