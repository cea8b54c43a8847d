package vos

// ProcAttr holds the attributes that will be applied to a new process.
type ProcAttr struct {
	// If Dir is non-empty, the child changes into the directory before
	// creating the process.
	Dir string
	// Env holds the environment of the new process in the form returned by
	// Environ.
	Env []string
	// Files holds the standard streams of the new process.
	Files VIO
}

// Process is a started child process.
type Process interface {
	// Pid returns the process id of the child.
	Pid() int

	// Wait blocks until this process exits and returns its exit status. A
	// process that ran and exited with a nonzero status is not an error.
	Wait() (int, error)
}

// VProc starts child processes.
type VProc interface {
	// StartProcess starts the program at path with the given argument vector,
	// argv[0] is the program name as the user typed it.
	StartProcess(path string, argv []string, attr *ProcAttr) (Process, error)
}
