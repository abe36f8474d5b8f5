//go:build !unix

package binary

import "os/exec"

func killProcessGroupOnCancel(cmd *exec.Cmd) {}
