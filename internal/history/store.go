package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"contentradar/internal/model"
)

// Entry is one archived idea run.
type Entry struct {
	Timestamp time.Time    `json:"generated_at"`
	Ideas     []model.Idea `json:"ideas"`
}

// AppendResult reports whether an append reached disk. Persistence failures
// never abort a run; callers surface Err as a warning instead.
type AppendResult struct {
	Persisted bool
	Err       error
}

// Store is a bounded JSON-file run history. The newest limit entries are
// kept; older ones fall off the front.
type Store struct {
	path  string
	limit int

	mu sync.Mutex
}

func NewStore(path string, limit int) *Store {
	return &Store{path: path, limit: limit}
}

// Load returns the stored entries, oldest first. A missing or corrupt file
// yields an empty history, never an error.
func (s *Store) Load() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() []Entry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	return entries
}

// Append adds an entry and truncates to the limit. The write-back is
// best-effort; the result says whether it stuck.
func (s *Store) Append(e Entry) AppendResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := append(s.load(), e)
	if len(entries) > s.limit {
		entries = entries[len(entries)-s.limit:]
	}

	if err := s.write(entries); err != nil {
		return AppendResult{Persisted: false, Err: err}
	}
	return AppendResult{Persisted: true}
}

func (s *Store) write(entries []Entry) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
