package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	mberrors "github.com/asciipip/multiboard-parametric-stacked/pkg/errors"
)

// WriteArtifacts writes every artifact into dir, creating it if needed, and
// returns the written paths in artifact order.
func WriteArtifacts(dir string, artifacts []Artifact) ([]string, error) {
	if err := mberrors.ValidateOutputDir(dir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, mberrors.Wrap(mberrors.ErrCodeInvalidPath, err, "create output directory %s", dir)
	}

	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		path := filepath.Join(dir, a.Filename)
		if err := os.WriteFile(path, a.Data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
