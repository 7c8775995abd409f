//go:build unix

package buildtool

import (
	"os/exec"
	"syscall"
)

// killProcessGroup starts the tool in its own process group and makes
// cancellation signal the whole group, so make/ninja workers and compilers
// stop with it.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
