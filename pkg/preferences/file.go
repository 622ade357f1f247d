// Package preferences holds the small key-value stores of the client: UI
// settings and the last known account snapshot. Each is one YAML file.
package preferences

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// File is a value of type T persisted as YAML.
type File[T any] struct {
	path     string
	defaults T

	mu sync.Mutex
}

// NewFile returns a File at path. Load returns defaults while the file
// does not exist.
func NewFile[T any](path string, defaults T) *File[T] {
	return &File[T]{path: path, defaults: defaults}
}

// Path returns the path of the file.
func (f *File[T]) Path() string {
	return f.path
}

// Load reads the value.
func (f *File[T]) Load() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

// Save replaces the value.
func (f *File[T]) Save(v T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.save(v)
}

// Update applies fn to the current value and saves the result. Nothing is
// written if fn fails.
func (f *File[T]) Update(fn func(v *T) error) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, err := f.load()
	if err != nil {
		return v, err
	}

	if err := fn(&v); err != nil {
		return v, err
	}

	return v, f.save(v)
}

func (f *File[T]) load() (T, error) {
	v := f.defaults

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return v, nil
	}
	if err != nil {
		return v, fmt.Errorf("reading %s: %w", f.path, err)
	}

	if err := yaml.Unmarshal(data, &v); err != nil {
		return f.defaults, fmt.Errorf("parsing %s: %w", f.path, err)
	}
	return v, nil
}

func (f *File[T]) save(v T) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(f.path), err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replacing %s: %w", f.path, err)
	}
	return nil
}
