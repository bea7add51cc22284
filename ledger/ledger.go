// Package ledger records completed job runs so repeated invocations can skip
// jobs whose inputs have not changed.
package ledger

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrAlreadyRecorded is returned by Record when an entry for the same job
// and digest exists.
var ErrAlreadyRecorded = errors.New("ledger: run already recorded")

// Entry records one completed job run.
type Entry struct {
	// Job is the job blob name.
	Job string
	// Digest identifies the job contents.
	Digest string
	// RunID is the ID of the Interpolator that produced the output.
	RunID string
	// Output is the name of the written result blob.
	Output     string
	FinishedAt time.Time
}

// Ledger stores Entries keyed by (Job, Digest).
// Implementations must be safe for concurrent use.
type Ledger interface {
	// Lookup returns the entry for job and digest, if any.
	Lookup(ctx context.Context, job, digest string) (Entry, bool, error)

	// Record stores e unless an entry with the same key exists, in which case
	// it returns ErrAlreadyRecorded.
	Record(ctx context.Context, e Entry) error
}

// Memory is an in-process Ledger.
type Memory struct {
	mu      sync.RWMutex
	entries map[[2]string]Entry
}

// NewMemory creates an empty in-process ledger.
func NewMemory() *Memory {
	return &Memory{entries: make(map[[2]string]Entry)}
}

// Lookup implements Ledger.
func (m *Memory) Lookup(_ context.Context, job, digest string) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[[2]string{job, digest}]
	return e, ok, nil
}

// Record implements Ledger.
func (m *Memory) Record(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]string{e.Job, e.Digest}
	if _, ok := m.entries[key]; ok {
		return ErrAlreadyRecorded
	}
	m.entries[key] = e
	return nil
}
