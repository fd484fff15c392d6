package source

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store writes data as doc into dir, replacing any previous copy atomically.
// data is validated first so a bad download never replaces a good cache entry.
func Store(dir string, doc Document, data []byte) (string, error) {
	if err := validate(data); err != nil {
		return "", &MalformedError{Path: doc.Name, Err: err}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+doc.Name+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	dest := filepath.Join(dir, doc.Name)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("replace %s: %w", dest, err)
	}
	return dest, nil
}
