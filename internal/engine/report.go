package engine

import (
	"time"

	"github.com/BadgerOps/fxsnap/internal/archive"
	"github.com/BadgerOps/fxsnap/internal/config"
)

// Run status values.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// SourceResult is the outcome for one source: Saved on success, Err on failure.
type SourceResult struct {
	Source   config.Source
	Saved    *archive.SavedFile
	Attempts int
	Err      error
}

// OK reports whether the source was archived.
func (r SourceResult) OK() bool {
	return r.Err == nil && r.Saved != nil
}

// Report aggregates one run.
type Report struct {
	RunID     string
	Folder    string
	Timestamp string
	Readme    string
	Results   []SourceResult
	StartTime time.Time
	EndTime   time.Time
}

// Saved returns the successful results in source order.
func (r *Report) Saved() []SourceResult {
	var out []SourceResult
	for _, res := range r.Results {
		if res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Failed returns the failed results in source order.
func (r *Report) Failed() []SourceResult {
	var out []SourceResult
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// SavedPaths lists written file paths in source order.
func (r *Report) SavedPaths() []string {
	var paths []string
	for _, res := range r.Saved() {
		paths = append(paths, res.Saved.Path)
	}
	return paths
}

// Status summarizes the run: success, partial or failed.
// A run with no sources counts as success.
func (r *Report) Status() string {
	failed := len(r.Failed())
	switch {
	case failed == 0:
		return StatusSuccess
	case failed == len(r.Results):
		return StatusFailed
	default:
		return StatusPartial
	}
}
