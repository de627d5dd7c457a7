package tiling

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/1broseidon/gridis/internal/platform"
)

// Op names a mutating operation.
type Op string

const (
	OpArrange Op = "arrange"
	OpSwap    Op = "swap"
	OpUndo    Op = "undo"
)

// Entry is one window's rectangle as it was before a mutation.
type Entry struct {
	Window platform.WindowID `json:"window"`
	Rect   platform.Rect     `json:"rect"`
}

// Snapshot records where windows were before an arrange or swap pass.
// Entries keep the order in which windows were mutated.
type Snapshot struct {
	ID      ulid.ULID `json:"id"`
	Op      Op        `json:"op"`
	TakenAt time.Time `json:"taken_at"`
	Entries []Entry   `json:"entries"`
}

// NewSnapshot starts an empty snapshot for op.
func NewSnapshot(op Op) (*Snapshot, error) {
	now := time.Now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate snapshot id: %w", err)
	}
	return &Snapshot{ID: id, Op: op, TakenAt: now}, nil
}

// Record appends the prior rectangle of a window.
func (s *Snapshot) Record(id platform.WindowID, r platform.Rect) {
	s.Entries = append(s.Entries, Entry{Window: id, Rect: r})
}

// Len returns the number of recorded windows.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// Lookup returns the recorded rectangle of a window.
func (s *Snapshot) Lookup(id platform.WindowID) (platform.Rect, bool) {
	if s == nil {
		return platform.Rect{}, false
	}
	for _, e := range s.Entries {
		if e.Window == id {
			return e.Rect, true
		}
	}
	return platform.Rect{}, false
}
