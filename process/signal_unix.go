//go:build unix

package process

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"honk/domain"

	"golang.org/x/sys/unix"
)

// setProcessGroup puts the child in its own group so stop signals reach
// everything the agent spawned.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminate sends SIGTERM to the process group
func terminate(p *os.Process) error {
	return signalGroup(p, unix.SIGTERM)
}

// kill sends SIGKILL to the process group
func kill(p *os.Process) error {
	return signalGroup(p, unix.SIGKILL)
}

func signalGroup(p *os.Process, sig unix.Signal) error {
	err := unix.Kill(-p.Pid, sig)
	if errors.Is(err, unix.ESRCH) {
		// Group already gone; the leader may still be waiting to be reaped
		err = p.Signal(sig)
	}
	if errors.Is(err, os.ErrProcessDone) || errors.Is(err, unix.ESRCH) {
		return nil
	}
	return err
}

// exitStatusOf converts the reaped process state into an ExitStatus
func exitStatusOf(state *os.ProcessState, waitErr error) domain.ExitStatus {
	if state == nil {
		return domain.ExitStatus{Signaled: true}
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return domain.ExitStatus{Signaled: true, Signal: unix.SignalName(ws.Signal())}
	}
	return domain.ExitStatus{Code: state.ExitCode()}
}
