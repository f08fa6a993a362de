//go:build windows

package process

import (
	"errors"
	"os"
	"os/exec"

	"honk/domain"
)

// setProcessGroup is a no-op; Windows has no POSIX process groups
func setProcessGroup(cmd *exec.Cmd) {}

// terminate kills the process; Windows has no graceful termination signal for console children
func terminate(p *os.Process) error {
	return kill(p)
}

func kill(p *os.Process) error {
	if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

func exitStatusOf(state *os.ProcessState, waitErr error) domain.ExitStatus {
	if state == nil {
		return domain.ExitStatus{Signaled: true}
	}
	return domain.ExitStatus{Code: state.ExitCode()}
}
