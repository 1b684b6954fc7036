package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteArtifact persists an artifact under dir. The bytes go to a temp file
// first and are renamed into place, so a crash mid-write never leaves a
// partial document at the final path.
func WriteArtifact(dir string, artifact *Artifact) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(artifact.Data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	finalPath := filepath.Join(dir, artifact.Filename)
	if err := os.Rename(tmpName, finalPath); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to finalize artifact: %w", err)
	}

	return finalPath, nil
}
