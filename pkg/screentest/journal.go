package screentest

import (
	"fmt"
	"strings"
	"sync"
)

// Journal is an ordered, concurrency-safe log of lifecycle calls.
type Journal struct {
	mu      sync.Mutex
	entries []string
}

// Record appends a formatted entry.
func (j *Journal) Record(format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

// Entries returns a copy of the entries.
func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// Take returns the entries and clears the journal.
func (j *Journal) Take() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := j.entries
	j.entries = nil
	return out
}

// Reset clears the journal.
func (j *Journal) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
}

// String returns the entries, one per line.
func (j *Journal) String() string {
	return strings.Join(j.Entries(), "\n")
}
