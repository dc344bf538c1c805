package domain

import "time"

// InputEntry is one line of the recent-input log shown on displays
type InputEntry struct {
	Ordinal   int       `json:"ordinal"`
	Nickname  string    `json:"nickname"`
	Direction Direction `json:"direction"` // none means released
	Timestamp time.Time `json:"timestamp"`
}

// InputLog keeps the most recent vote changes, newest last
type InputLog struct {
	entries []InputEntry
	size    int
}

// NewInputLog creates a log holding at most size entries
func NewInputLog(size int) *InputLog {
	if size < 0 {
		size = 0
	}
	return &InputLog{
		entries: make([]InputEntry, 0, size),
		size:    size,
	}
}

// Add appends an entry, dropping the oldest when full
func (l *InputLog) Add(entry InputEntry) {
	if l.size == 0 {
		return
	}
	if len(l.entries) == l.size {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:len(l.entries)-1]
	}
	l.entries = append(l.entries, entry)
}

// Entries returns a copy of the log
func (l *InputLog) Entries() []InputEntry {
	out := make([]InputEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear empties the log
func (l *InputLog) Clear() {
	l.entries = l.entries[:0]
}
