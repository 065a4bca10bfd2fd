// Package lock implements the single-instance lock that prevents two server
// processes from binding the same port. The lock is a JSON file recording
// the owning PID, the bound port, and the start time; staleness is detected
// by probing the recorded PID with signal 0.
package lock

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrPortInUse is returned when the target TCP port is already bound.
	ErrPortInUse = errors.New("port is already in use")

	// ErrAlreadyRunning is returned when a live process holds the lock file.
	ErrAlreadyRunning = errors.New("another instance is already running")
)

// File is the persisted lock record.
type File struct {
	PID       int       `json:"pid"`
	Port      int       `json:"port"`
	StartTime time.Time `json:"startTime"`
}

// Lock guards a port with an on-disk lock file.
type Lock struct {
	path   string
	logger *zap.Logger
	held   bool
}

// New creates a lock manager for the given lock file path.
func New(path string, logger *zap.Logger) *Lock {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lock{
		path:   path,
		logger: logger.Named("lock"),
	}
}

// Acquire takes the lock for the given port. The port is probed with a
// transient listen; an existing lock file held by a live process fails the
// acquisition, while a corrupt file or a dead owner is removed and the lock
// is taken over.
func (l *Lock) Acquire(port int) error {
	if err := probePort(port); err != nil {
		return err
	}

	if existing, err := l.read(); err == nil {
		if processAlive(existing.PID) {
			return fmt.Errorf("%w (pid %d, started %s)",
				ErrAlreadyRunning, existing.PID, existing.StartTime.Format(time.RFC3339))
		}
		l.logger.Warn("removing stale lock file",
			zap.Int("pid", existing.PID),
			zap.String("path", l.path))
		os.Remove(l.path)
	} else if !os.IsNotExist(err) {
		// Unparsable or unreadable lock file: recover by deleting it.
		l.logger.Warn("removing corrupt lock file",
			zap.String("path", l.path), zap.Error(err))
		os.Remove(l.path)
	}

	record := File{
		PID:       os.Getpid(),
		Port:      port,
		StartTime: time.Now().UTC(),
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode lock file: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write lock file: %w", err)
	}

	l.held = true
	l.logger.Info("lock acquired", zap.Int("port", port), zap.Int("pid", record.PID))
	return nil
}

// Release deletes the lock file. Deletion failures are logged, not returned;
// the staleness check recovers from a leftover file on the next start.
func (l *Lock) Release() {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		l.logger.Warn("failed to remove lock file",
			zap.String("path", l.path), zap.Error(err))
		return
	}
	l.held = false
	l.logger.Info("lock released")
}

// Held reports whether this process currently holds the lock.
func (l *Lock) Held() bool {
	return l.held
}

func (l *Lock) read() (*File, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid lock file: %w", err)
	}
	if f.PID <= 0 {
		return nil, fmt.Errorf("invalid lock file: pid must be positive, got %d", f.PID)
	}
	return &f, nil
}

// probePort attempts a transient listen-then-close on the port.
func probePort(port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("%w: port %d", ErrPortInUse, port)
	}
	ln.Close()
	return nil
}

// processAlive probes a PID with signal 0. FindProcess always succeeds on
// Unix, so the signal result is the actual liveness answer.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	// EPERM means the process exists but belongs to another user.
	return errors.Is(err, syscall.EPERM)
}
