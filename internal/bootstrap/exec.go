package bootstrap

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// Handoff replaces the current process image with argv, inheriting the
// environment and standard streams. The wrapped command's exit code becomes
// the process's exit code. Returns only on error (or for an empty argv).
func Handoff(argv []string) error {
	if len(argv) == 0 {
		return nil
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return fmt.Errorf("wrapped command %s: %w", argv[0], err)
	}

	if err := syscall.Exec(path, argv, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}
	return nil
}
