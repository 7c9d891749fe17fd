package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// Save renders doc into dir and returns the final path. The file is written
// under a temporary name and renamed into place, so readers never see a
// partial report.
func Save(dir string, doc Document, format Format) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	final := filepath.Join(dir, fmt.Sprintf("%s.%s", doc.FileName, format))
	tmp, err := os.CreateTemp(dir, "."+doc.FileName+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp report: %w", err)
	}
	tmpName := tmp.Name()

	if err := Render(doc, format, tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("render %s: %w", format, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close temp report: %w", err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("move report into place: %w", err)
	}
	return final, nil
}
