// Package state persists rotation progress so a restarted daemon can resume
// mid-cycle instead of starting every output from scratch.
//
// The snapshot is a single JSON document at an XDG state path. It is written
// periodically by the scheduler and read once at startup; a missing file is
// not an error.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wallshift/internal/rotation"
)

// OutputRecord captures one queue's position at save time. Group and shared
// queues are recorded under their group name or the shared key, the same way
// independent outputs are recorded under their output name.
type OutputRecord struct {
	CurrentImage  string           `json:"current_image"`
	QueuePosition int              `json:"queue_position"`
	QueueSize     int              `json:"queue_size"`
	Sorting       rotation.Sorting `json:"sorting"`
	Images        []string         `json:"images"`
	LastUpdated   time.Time        `json:"last_updated"`
}

// Snapshot is the full durable record of daemon progress.
type Snapshot struct {
	Outputs      map[string]OutputRecord `json:"outputs"`
	GlobalPaused bool                    `json:"global_paused"`
	LastSave     time.Time               `json:"last_save"`
}

// NewSnapshot returns an empty snapshot ready for use.
func NewSnapshot() *Snapshot {
	return &Snapshot{Outputs: make(map[string]OutputRecord)}
}

// Record stores the state of one queue under name.
func (s *Snapshot) Record(name string, q *rotation.Queue) {
	current, ok := q.Current()
	if !ok {
		return
	}
	s.Outputs[name] = OutputRecord{
		CurrentImage:  current,
		QueuePosition: q.Position(),
		QueueSize:     q.Capacity(),
		Sorting:       q.Mode(),
		Images:        q.Images(),
		LastUpdated:   time.Now().UTC(),
	}
}

// Clone returns a copy safe to serialize while the original keeps changing.
func (s *Snapshot) Clone() *Snapshot {
	clone := &Snapshot{
		Outputs:      make(map[string]OutputRecord, len(s.Outputs)),
		GlobalPaused: s.GlobalPaused,
		LastSave:     s.LastSave,
	}
	for name, rec := range s.Outputs {
		rec.Images = append([]string(nil), rec.Images...)
		clone.Outputs[name] = rec
	}
	return clone
}

// Lookup returns the record saved under name, if any.
func (s *Snapshot) Lookup(name string) (OutputRecord, bool) {
	rec, ok := s.Outputs[name]
	return rec, ok
}

// Prune drops records older than maxAge. It runs at load and again during
// periodic saves so entries for long-gone outputs do not accumulate.
func (s *Snapshot) Prune(maxAge time.Duration) int {
	if maxAge <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for name, rec := range s.Outputs {
		if rec.LastUpdated.Before(cutoff) {
			delete(s.Outputs, name)
			removed++
		}
	}
	return removed
}

// Store reads and writes snapshots at a fixed path.
type Store struct {
	path string
}

// NewStore returns a store rooted at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the on-disk location backing the store.
func (st *Store) Path() string { return st.path }

// Load reads the snapshot from disk. A missing file yields an empty
// snapshot; a malformed file is an error callers downgrade to a fresh start.
func (st *Store) Load() (*Snapshot, error) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewSnapshot(), nil
		}
		return nil, fmt.Errorf("read state file %s: %w", st.path, err)
	}

	snap := NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("decode state file %s: %w", st.path, err)
	}
	if snap.Outputs == nil {
		snap.Outputs = make(map[string]OutputRecord)
	}
	return snap, nil
}

// Save writes the snapshot, stamping LastSave. The write goes through a temp
// file and rename so a crash mid-write cannot truncate the previous snapshot.
func (st *Store) Save(snap *Snapshot) error {
	snap.LastSave = time.Now().UTC()

	if dir := filepath.Dir(st.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state directory %s: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, st.path); err != nil {
		return fmt.Errorf("replace state file %s: %w", st.path, err)
	}
	return nil
}
