// Package snapshot builds the date-partitioned folder that holds one run's files.
package snapshot

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/BadgerOps/fxsnap/internal/config"
	"github.com/spf13/afero"
)

// TimestampLayout renders an instant with seconds precision and numeric offset,
// e.g. 2026-12-12T09:30:00+05:30.
const TimestampLayout = "2006-01-02T15:04:05-07:00"

// Layout selects the folder naming scheme.
type Layout string

const (
	// LayoutDated names folders <YYYY>/<FullMonth YY>/<DDMon YY>.
	LayoutDated Layout = config.LayoutDated
	// LayoutNumeric names folders <YYYY>/<MM>/<DD>.
	LayoutNumeric Layout = config.LayoutNumeric
)

// ParseLayout converts a config string into a Layout.
func ParseLayout(s string) (Layout, error) {
	switch Layout(s) {
	case LayoutDated, LayoutNumeric:
		return Layout(s), nil
	}
	return "", fmt.Errorf("unknown folder layout %q", s)
}

// RelPath returns the date folder, relative to the base dir, for t.
// t should already be in IST. Go's reference-time formatting always uses
// English month names, so the result does not depend on host locale.
func (l Layout) RelPath(t time.Time) string {
	switch l {
	case LayoutNumeric:
		return filepath.Join(t.Format("2006"), t.Format("01"), t.Format("02"))
	default:
		return filepath.Join(t.Format("2006"), t.Format("January 06"), t.Format("02Jan 06"))
	}
}

// Folder is a prepared snapshot folder.
type Folder struct {
	Path      string
	Timestamp string    // ISO-8601 in IST, seconds precision
	Time      time.Time // the instant, in IST
}

// Builder computes and creates snapshot folders.
type Builder struct {
	fs      afero.Fs
	baseDir string
	layout  Layout
	clock   Clock
}

// NewBuilder creates a Builder rooted at baseDir.
func NewBuilder(fs afero.Fs, baseDir string, layout Layout, clock Clock) *Builder {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Builder{
		fs:      fs,
		baseDir: baseDir,
		layout:  layout,
		clock:   clock,
	}
}

// Plan returns today's folder without touching the filesystem.
func (b *Builder) Plan() Folder {
	now := b.clock.Now().In(IST)
	return Folder{
		Path:      filepath.Join(b.baseDir, b.layout.RelPath(now)),
		Timestamp: now.Format(TimestampLayout),
		Time:      now,
	}
}

// Prepare returns today's folder and creates it with all parents.
// Calling it again on the same IST day yields the same path.
func (b *Builder) Prepare() (Folder, error) {
	f := b.Plan()
	if err := b.fs.MkdirAll(f.Path, 0o755); err != nil {
		return Folder{}, fmt.Errorf("creating snapshot folder %s: %w", f.Path, err)
	}
	return f, nil
}
