// Package source reads source units whole into memory and writes finished
// artifacts into place atomically.
package source

import (
	"fmt"
	"os"
	"path/filepath"
)

// IOError reports a failed file read or write. Every IOError is fatal to
// the run that raised it.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Unit is one fully loaded source file. The loader does not stream; a unit
// is read as a single piece or not at all.
type Unit struct {
	Path string
	Text string
}

// Load reads the file at path into a Unit.
func Load(path string) (*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return &Unit{Path: path, Text: string(data)}, nil
}

// WriteFile writes data to path, replacing any existing file. The data goes
// to a temporary file in the same directory first and is renamed into
// place, so a failure mid-write never leaves a truncated artifact at path.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	tmp, err := os.CreateTemp(dir, ".jscl-*")
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
