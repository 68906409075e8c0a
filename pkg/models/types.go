package models

import "time"

// FileEntry is an expected file that was found
type FileEntry struct {
	Name string
	Size int64
}

// Run is a single recorded presence check
type Run struct {
	ID        int64
	Name      string
	BaseDir   string
	Backend   string
	CheckedAt time.Time
	Expected  int
	Missing   []string
	Duration  time.Duration
}

// Clean reports whether every expected file was present
func (r *Run) Clean() bool {
	return len(r.Missing) == 0
}

// Stats represents aggregate history for a named check
type Stats struct {
	TotalRuns  int64
	CleanRuns  int64
	FailedRuns int64
	MaxMissing int64
	LastRun    *Run
}
