// Package lifecycle owns the pipeline's single on-disk lockfile: it
// prevents a second pipeline instance from starting against the same
// lock, tracks live progress for the `status` CLI command, and
// distinguishes a graceful stop (cooperative cancel, await exit) from
// a forced one (terminate the PID without awaiting the in-flight
// flush, safe because high-water only advances post-commit).
package lifecycle

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/process"
)

// Status is the lockfile's "status" field.
type Status string

const (
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusStopping Status = "stopping"
	StatusError    Status = "error"
)

// Progress summarizes one shard's ingest position for the lockfile.
type Progress struct {
	Shard        uint32 `json:"shard"`
	Block        uint64 `json:"block"`
	TotalFlushed int64  `json:"total_flushed"`
	RangeFrom    uint64 `json:"range_from,omitempty"`
	RangeTo      uint64 `json:"range_to,omitempty"`
}

// State is the full JSON body persisted to the lockfile.
type State struct {
	RunID      string     `json:"run_id"`
	PID        int        `json:"pid"`
	StartTime  time.Time  `json:"start_time"`
	LastUpdate time.Time  `json:"last_update"`
	Status     Status     `json:"status"`
	Progress   []Progress `json:"progress,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// DefaultPath is the lockfile's default location, matching the CLI's
// default working directory.
const DefaultPath = "./snaprag.lock"

// Lock guards DefaultPath (or a caller-supplied path) with an
// exclusive OS-level file lock plus a JSON state body, so a live
// process is detectable even across a crashed owner (a dead PID's
// lock is released by the OS on process exit).
type Lock struct {
	path  string
	flock *flock.Flock
	state State
}

// Acquire takes the lock at path, refusing to start if another live
// PID already holds it. An empty path uses DefaultPath.
func Acquire(path string) (*Lock, error) {
	if path == "" {
		path = DefaultPath
	}

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lifecycle: acquire lock %s: %w", path, err)
	}
	if !locked {
		if held, reason := heldByLiveProcess(path); held {
			return nil, fmt.Errorf("lifecycle: lock %s held by a running pipeline: %s", path, reason)
		}
		return nil, fmt.Errorf("lifecycle: lock %s is held", path)
	}

	now := time.Now()
	l := &Lock{
		path:  path,
		flock: fl,
		state: State{
			RunID:      uuid.NewString(),
			PID:        os.Getpid(),
			StartTime:  now,
			LastUpdate: now,
			Status:     StatusStarting,
		},
	}
	if err := l.persist(); err != nil {
		fl.Unlock()
		return nil, err
	}
	return l, nil
}

// heldByLiveProcess inspects the existing lockfile body (if any) and
// reports whether its PID is still alive, for a clearer refusal
// message than "lock is held".
func heldByLiveProcess(path string) (bool, string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return true, "lockfile present but unreadable"
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return true, "lockfile present but not parseable"
	}
	exists, err := process.PidExists(int32(s.PID))
	if err != nil || !exists {
		return false, ""
	}
	return true, fmt.Sprintf("pid %d, started %s", s.PID, s.StartTime.Format(time.RFC3339))
}

// Update replaces the progress/status body and rewrites the lockfile.
func (l *Lock) Update(status Status, progress []Progress, errMsg string) error {
	l.state.Status = status
	l.state.Progress = progress
	l.state.Error = errMsg
	l.state.LastUpdate = time.Now()
	return l.persist()
}

// Heartbeat bumps LastUpdate without changing status/progress. Acquire
// does not read LastUpdate: a held lock is judged only by whether the
// recorded PID is alive, so a wedged live process is not detected.
func (l *Lock) Heartbeat() error {
	l.state.LastUpdate = time.Now()
	return l.persist()
}

func (l *Lock) persist() error {
	data, err := json.MarshalIndent(l.state, "", "  ")
	if err != nil {
		return fmt.Errorf("lifecycle: marshal state: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("lifecycle: write lockfile %s: %w", l.path, err)
	}
	return nil
}

// Release releases the OS-level lock and removes the lockfile; the
// status field is not rewritten first. Call after the owning process
// has finished its graceful (or forced) shutdown.
func (l *Lock) Release() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("lifecycle: unlock %s: %w", l.path, err)
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("lifecycle: remove lockfile %s: %w", l.path, err)
	}
	return nil
}

// Read loads the State from path without acquiring the lock, for the
// `status` CLI command to inspect a running pipeline's progress.
func Read(path string) (*State, error) {
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: read lockfile %s: %w", path, err)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("lifecycle: parse lockfile %s: %w", path, err)
	}
	return &s, nil
}
