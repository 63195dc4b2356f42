// Package dashboard manages an external dashboard process alongside the
// server, typically a Streamlit app rendering the ingested document stats.
package dashboard

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// stopGracePeriod is how long Stop waits after SIGTERM before killing.
const stopGracePeriod = 5 * time.Second

type Manager struct {
	command string
	args    []string
	logger  *zap.Logger

	cmd  *exec.Cmd
	done chan error
}

func NewManager(command string, args []string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{command: command, args: args, logger: logger}
}

// Start launches the dashboard process. The process inherits stdout and
// stderr so its own logs stay visible.
func (m *Manager) Start() error {
	if m.command == "" {
		return errors.New("dashboard command is empty")
	}
	if m.cmd != nil {
		return errors.New("dashboard already started")
	}

	cmd := exec.Command(m.command, m.args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start dashboard: %w", err)
	}

	m.cmd = cmd
	m.done = make(chan error, 1)
	go func() {
		m.done <- cmd.Wait()
	}()

	m.logger.Info("dashboard started",
		zap.String("command", m.command),
		zap.Strings("args", m.args),
		zap.Int("pid", cmd.Process.Pid))
	return nil
}

// Running reports whether the dashboard process is still alive.
func (m *Manager) Running() bool {
	if m.cmd == nil {
		return false
	}
	select {
	case <-m.done:
		return false
	default:
		return true
	}
}

// Stop terminates the dashboard: SIGTERM first, SIGKILL after the grace
// period. Stopping an unstarted or already-exited manager is a no-op.
func (m *Manager) Stop() error {
	if m.cmd == nil || m.cmd.Process == nil {
		return nil
	}

	select {
	case <-m.done:
		m.logger.Info("dashboard already exited", zap.Int("pid", m.cmd.Process.Pid))
		return nil
	default:
	}

	pid := m.cmd.Process.Pid
	if err := m.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// The process can exit between the done check and the signal.
		if errors.Is(err, os.ErrProcessDone) {
			m.logger.Info("dashboard already exited", zap.Int("pid", pid))
			return nil
		}
		return fmt.Errorf("failed to signal dashboard: %w", err)
	}

	select {
	case err := <-m.done:
		m.logger.Info("dashboard stopped", zap.Int("pid", pid), zap.Error(err))
		return nil
	case <-time.After(stopGracePeriod):
		m.logger.Warn("dashboard did not exit in time, killing", zap.Int("pid", pid))
		if err := m.cmd.Process.Kill(); err != nil {
			return fmt.Errorf("failed to kill dashboard: %w", err)
		}
		<-m.done
		return nil
	}
}
