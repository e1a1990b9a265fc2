package safety

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateFileName accepts a single path element suitable for a file inside
// a snapshot folder. Separators, "." and ".." are rejected.
func ValidateFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("file name is empty")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("file name must not contain path separators: %q", name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("file name must not be a directory reference: %q", name)
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("file name must not contain NUL: %q", name)
	}
	return nil
}

// JoinFile joins a validated file name onto dir and verifies the result is
// a direct child of dir.
func JoinFile(dir, name string) (string, error) {
	if err := ValidateFileName(name); err != nil {
		return "", err
	}
	p := filepath.Join(dir, name)
	if filepath.Dir(p) != filepath.Clean(dir) {
		return "", fmt.Errorf("path escapes folder: %q", p)
	}
	return p, nil
}

// FileName builds "<name>.<ext>"; a leading dot on ext is ignored.
func FileName(name, ext string) string {
	return name + "." + strings.TrimPrefix(ext, ".")
}
