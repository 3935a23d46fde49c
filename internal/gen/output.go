package gen

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes files into dir, creating it when missing. A file whose
// content is already up to date is left untouched so its modification time
// does not change.
func WriteFiles(files []GeneratedFile, dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, f := range files {
		if err := writeIfChanged(filepath.Join(dir, f.Filename), f.Content); err != nil {
			return fmt.Errorf("writing %s: %w", f.Filename, err)
		}

		stale := filepath.Join(dir, debugName(f.Filename))
		if err := os.Remove(stale); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", debugName(f.Filename), err)
		}
	}

	return nil
}

// writeIfChanged replaces path with content through a temporary file in the
// same directory.
func writeIfChanged(path string, content []byte) error {
	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, content) {
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// debugName names the sidecar of a generated file. It does not end in .go
// so the Go tool never compiles it as part of the package.
func debugName(filename string) string {
	return filename + ".unformatted"
}

// writeDebugUnformatted stores source that failed to format next to the
// file it was meant for. An empty dir disables it.
func writeDebugUnformatted(dir, filename string, content []byte) error {
	if dir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	return writeIfChanged(filepath.Join(dir, debugName(filename)), content)
}
