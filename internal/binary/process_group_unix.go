//go:build unix

package binary

import (
	"os/exec"
	"syscall"
)

// Engines are often wrapper scripts. Killing only the direct child would
// leave the real engine running with our output pipes open.
func killProcessGroupOnCancel(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
