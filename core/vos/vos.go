// Package vos abstracts the parts of the operating system the shell touches:
// the environment, the working directory, the filesystem, standard I/O and
// child processes. HostOS talks to the real system; vostest provides an
// in-memory implementation for tests.
package vos

import "github.com/spf13/afero"

// VDir controls the working directory.
type VDir interface {
	// Getwd returns a rooted path name corresponding to the current directory.
	Getwd() (string, error)

	// Chdir changes the current working directory to the named directory.
	Chdir(dir string) error
}

// VFS gives access to the filesystem the shell reads and writes its own
// files through.
type VFS interface {
	Fs() afero.Fs
}

// VOS provides a virtual OS interface.
type VOS interface {
	VEnv
	VDir
	VFS
	VIO
	VProc
}
