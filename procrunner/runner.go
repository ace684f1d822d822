// Package procrunner launches shell commands and returns handles exposing
// the pid, a non-blocking first-stdout-line read (for LSF job-id
// extraction), full stdio capture, and tree-kill.
package procrunner

import "context"

// Runner spawns shell commands. Identity env vars are passed via env, never
// written to the calling process's environment.
type Runner interface {
	// Spawn launches `sh -c command` with the given working directory (empty
	// for the caller's own cwd) and an environment built from os.Environ()
	// plus env. It returns immediately once the process has started.
	Spawn(ctx context.Context, command string, env map[string]string, dir string) (Handle, error)

	// KillTree terminates the process group rooted at pid. It returns once
	// the termination signal has been issued, not once the tree has
	// actually exited.
	KillTree(pid int) error
}

// Handle is a running (or just-finished) child process.
type Handle interface {
	// Pid returns the OS process id of the spawned leader process.
	Pid() int

	// ReadFirstStdoutLine blocks until the first line of stdout is
	// available (or the process exits without producing one), or ctx is
	// done. Used by the Run Executor to extract the LSF job id from a
	// `bsub -I` submission's first line of output.
	ReadFirstStdoutLine(ctx context.Context) (string, error)

	// Communicate blocks until the process terminates and returns the full
	// captured stdout/stderr and exit code.
	Communicate() (stdout, stderr []byte, exitCode int, err error)
}
