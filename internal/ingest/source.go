package ingest

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads a CSV corpus from disk.
type FileSource struct {
	Path    string
	Options Options
}

// NewFileSource creates a file-backed corpus source.
func NewFileSource(path string, opts Options) *FileSource {
	return &FileSource{Path: path, Options: opts}
}

// Load reads and normalizes the file.
func (f *FileSource) Load(ctx context.Context) (Batch, error) {
	if err := ctx.Err(); err != nil {
		return Batch{}, err
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return Batch{}, fmt.Errorf("open corpus %s: %w", f.Path, err)
	}
	defer func() { _ = fh.Close() }()

	b, err := ReadCSV(fh, f.Options)
	if err != nil {
		return b, fmt.Errorf("load corpus %s: %w", f.Path, err)
	}
	return b, nil
}
