package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/adrg/xdg"

	"github.com/manav03panchal/glowtrack/internal/config"
	"github.com/manav03panchal/glowtrack/internal/errors"
)

// PIDFileName is the PID file name.
const PIDFileName = "watch.pid"

// ErrAlreadyRunning is returned by Acquire when another watch process is alive.
var ErrAlreadyRunning = errors.New("watch is already running")

// PIDFile records the process running the watch loop. The loop holds the
// database lock, so other commands use it to explain why they cannot open it.
type PIDFile struct {
	path string
}

// NewPIDFile creates a PID file manager for path.
func NewPIDFile(path string) *PIDFile {
	return &PIDFile{path: path}
}

// DefaultPIDPath returns the PID file path under the XDG state directory.
func DefaultPIDPath() string {
	return filepath.Join(xdg.StateHome, config.AppName, PIDFileName)
}

// Acquire writes the current PID unless a live process already owns the file.
// A stale file is overwritten.
func (p *PIDFile) Acquire() error {
	if pid := p.RunningPID(); pid != 0 {
		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	}
	return p.WritePID(os.Getpid())
}

// WritePID writes a specific PID to the file.
func (p *PIDFile) WritePID(pid int) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}
	if err := os.WriteFile(p.path, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Read reads the PID from the file. A missing file reads as 0.
func (p *PIDFile) Read() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %w", err)
	}
	return pid, nil
}

// Release removes the file if it still names this process.
func (p *PIDFile) Release() error {
	if pid, err := p.Read(); err == nil && pid != os.Getpid() {
		return nil
	}
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// RunningPID returns the recorded PID if that process is alive, or 0.
func (p *PIDFile) RunningPID() int {
	pid, err := p.Read()
	if err != nil || !IsProcessRunning(pid) {
		return 0
	}
	return pid
}

// Path returns the PID file path.
func (p *PIDFile) Path() string {
	return p.path
}

// IsProcessRunning checks if a process with the given PID is running.
func IsProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// On Unix, FindProcess always succeeds, so we need to send signal 0 to check
	return process.Signal(syscall.Signal(0)) == nil
}
