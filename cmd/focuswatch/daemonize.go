package main

import (
	"fmt"
	"io"
	"os"
)

// daemonize re-executes the current command detached from the terminal.
func daemonize(out io.Writer, logFile string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	env := append(os.Environ(), daemonChildEnv+"=1")
	procAttr := &os.ProcAttr{
		Env:   env,
		Files: []*os.File{nil, nil, nil}, // stdin, stdout, stderr to /dev/null
		Sys:   detachedAttr(),
	}

	process, err := os.StartProcess(exe, os.Args, procAttr)
	if err != nil {
		return fmt.Errorf("failed to start background process: %w", err)
	}

	fmt.Fprintf(out, "Watcher started successfully (PID: %d)\n", process.Pid)
	fmt.Fprintf(out, "Logs: %s\n", logFile)
	return process.Release()
}
