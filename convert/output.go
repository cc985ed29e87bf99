package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Output creates named result files.
type Output interface {
	Create(name string) (io.WriteCloser, error)
}

// dirOutput places results into destination directory.
type dirOutput struct {
	dir       string
	overwrite bool
	log       *zap.Logger
	created   []string
}

func newDirOutput(dir string, overwrite bool, log *zap.Logger) *dirOutput {
	return &dirOutput{dir: dir, overwrite: overwrite, log: log}
}

func (o *dirOutput) Create(name string) (io.WriteCloser, error) {
	path := filepath.Join(o.dir, name)

	// Check if output file already exists
	if _, err := os.Stat(path); err == nil {
		if !o.overwrite {
			return nil, fmt.Errorf("output file already exists: %s", path)
		}
		o.log.Warn("Overwriting existing file", zap.String("file", path))
		if err = os.Remove(path); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	} else if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("unable to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("unable to create output file: %w", err)
	}
	o.created = append(o.created, path)
	return f, nil
}

// Created returns paths of all files created so far.
func (o *dirOutput) Created() []string {
	return o.created
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// streamOutput sends everything into single stream, used for STDOUT.
type streamOutput struct {
	w io.Writer
}

func (o streamOutput) Create(string) (io.WriteCloser, error) {
	return nopCloser{o.w}, nil
}
