package wrapper

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
)

// StartDetached launches cmd in its own session with stdout and stderr
// appended to logPath, then releases the child. The contract is
// fire-and-forget: no supervision, no result propagation; the return value
// only says whether the process started. Stronger guarantees would need a
// supervising daemon, which this tool does not provide.
func StartDetached(cmd Command, dir, logPath string) (int, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return 0, fmt.Errorf("create log directory for %s: %w", logPath, err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open upload log %s: %w", logPath, err)
	}
	defer logFile.Close()

	c := exec.Command(cmd.Path, cmd.Args...)
	c.Dir = dir
	c.Stdout = logFile
	c.Stderr = logFile
	// New session so the upload survives this process and its terminal.
	c.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := c.Start(); err != nil {
		return 0, fmt.Errorf("start upload process: %w", err)
	}
	pid := c.Process.Pid
	_ = c.Process.Release()
	return pid, nil
}
