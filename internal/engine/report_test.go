package engine

import (
	"errors"
	"testing"

	"github.com/BadgerOps/fxsnap/internal/archive"
	"github.com/BadgerOps/fxsnap/internal/config"
)

func TestReportStatus(t *testing.T) {
	ok := SourceResult{Source: config.Source{Name: "a"}, Saved: &archive.SavedFile{Path: "x/a.pdf"}}
	bad := SourceResult{Source: config.Source{Name: "b"}, Err: errors.New("boom")}

	tests := []struct {
		name    string
		results []SourceResult
		want    string
	}{
		{"empty", nil, StatusSuccess},
		{"all ok", []SourceResult{ok, ok}, StatusSuccess},
		{"mixed", []SourceResult{ok, bad}, StatusPartial},
		{"all failed", []SourceResult{bad, bad}, StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Report{Results: tt.results}
			if got := r.Status(); got != tt.want {
				t.Errorf("Status() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReportSavedPathsOrder(t *testing.T) {
	r := &Report{Results: []SourceResult{
		{Saved: &archive.SavedFile{Path: "f/HDFC_Rates.pdf"}},
		{Err: errors.New("timeout")},
		{Saved: &archive.SavedFile{Path: "f/ICICI_Rates.html"}},
	}}

	got := r.SavedPaths()
	if len(got) != 2 || got[0] != "f/HDFC_Rates.pdf" || got[1] != "f/ICICI_Rates.html" {
		t.Errorf("SavedPaths() = %v", got)
	}
	if len(r.Failed()) != 1 {
		t.Errorf("Failed() length = %d, want 1", len(r.Failed()))
	}
}
