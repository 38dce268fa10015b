package mover

import (
	"encoding/json"
	"os"
	"slices"
	"sync"
	"time"

	"photosort/internal/faults"
	"photosort/internal/fileutil"
)

// Record describes one attempted file operation. Records are never modified
// after they are appended.
type Record struct {
	Timestamp   time.Time `json:"timestamp"`
	Operation   string    `json:"operation"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Success     bool      `json:"success"`
	Error       *string   `json:"error"`
}

// ErrorMessage returns the recorded error, or "" for successes.
func (r Record) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}

// Log is an append-only, insertion-ordered sequence of records.
type Log struct {
	mu      sync.Mutex
	records []Record
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{records: []Record{}}
}

// Append adds r to the end of the log.
func (l *Log) Append(r Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, r)
}

// Records returns a copy of the records in insertion order.
func (l *Log) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.records)
}

// Len returns the number of records.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Save writes the log to path as an indented JSON array, replacing any
// previous file atomically.
func (l *Log) Save(path string) error {
	l.mu.Lock()
	records := l.records
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	l.mu.Unlock()
	if err != nil {
		return faults.Wrap(faults.ErrFilesystem, "mover", "save log", "encode records", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return faults.Wrap(faults.ErrFilesystem, "mover", "save log", path, err)
	}
	return nil
}

// LoadLog reads a log written by Save.
func LoadLog(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, faults.Wrap(faults.ErrFilesystem, "mover", "load log", path, err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, faults.Wrap(faults.ErrFilesystem, "mover", "load log", "decode records", err)
	}
	return records, nil
}
