package archive

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ReadmeName is the manifest file written into every snapshot folder.
const ReadmeName = "README.txt"

// DefaultTitle heads the README when none is configured.
const DefaultTitle = "Daily currency rate snapshots"

// Manifest is the content of a README.
type Manifest struct {
	Title     string
	Timestamp string
	Files     []string // paths; only basenames are listed
}

// Render formats the manifest as plain text.
func (m Manifest) Render() string {
	title := m.Title
	if title == "" {
		title = DefaultTitle
	}

	var b strings.Builder
	b.WriteString(title + "\n")
	fmt.Fprintf(&b, "Run (IST): %s\n", m.Timestamp)
	b.WriteString("\n")
	b.WriteString("Files:\n")
	for _, f := range m.Files {
		fmt.Fprintf(&b, "- %s\n", filepath.Base(f))
	}
	return b.String()
}

// WriteReadme writes README.txt into folder and returns its path.
func WriteReadme(fs afero.Fs, folder string, m Manifest) (string, error) {
	path := filepath.Join(folder, ReadmeName)
	if err := afero.WriteFile(fs, path, []byte(m.Render()), 0o644); err != nil {
		return "", fmt.Errorf("writing readme: %w", err)
	}
	return path, nil
}
