// Package archive persists fetched documents and the per-folder README.
package archive

import (
	"fmt"

	"github.com/BadgerOps/fxsnap/internal/safety"
	"github.com/spf13/afero"
)

// SavedFile records one written document.
type SavedFile struct {
	Path string
	Size int64
}

// KB returns the size reported to the operator.
func (s SavedFile) KB() int64 {
	return KiB(s.Size)
}

// KiB returns floor(n/1024), reported as at least 1 so tiny files do not
// show up as 0 KB.
func KiB(n int64) int64 {
	kb := n / 1024
	if kb < 1 {
		return 1
	}
	return kb
}

// Writer writes documents into snapshot folders.
type Writer struct {
	fs afero.Fs
}

// NewWriter creates a Writer over fs.
func NewWriter(fs afero.Fs) *Writer {
	return &Writer{fs: fs}
}

// Save writes data verbatim to <folder>/<name>.<ext>, replacing any
// existing file of that name.
func (w *Writer) Save(folder, name, ext string, data []byte) (SavedFile, error) {
	path, err := safety.JoinFile(folder, safety.FileName(name, ext))
	if err != nil {
		return SavedFile{}, fmt.Errorf("invalid file name: %w", err)
	}

	if err := afero.WriteFile(w.fs, path, data, 0o644); err != nil {
		return SavedFile{}, fmt.Errorf("writing %s: %w", path, err)
	}

	return SavedFile{Path: path, Size: int64(len(data))}, nil
}
