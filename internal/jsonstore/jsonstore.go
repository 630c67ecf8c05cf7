// Package jsonstore keeps a value of type T in a single JSON document on disk.
// Every read-modify-write cycle runs under one mutex and the file is replaced
// atomically, so concurrent writers never lose each other's updates.
package jsonstore

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"mugen/internal/domain"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type Document[T any] struct {
	path string
	log  zerolog.Logger

	mu     sync.Mutex
	onLoad func(T)
}

func New[T any](path string, log zerolog.Logger) *Document[T] {
	return &Document[T]{
		path: path,
		log:  log.With().Str("store", filepath.Base(path)).Logger(),
	}
}

// OnLoad registers fn to observe every value read from or written to disk.
// It runs with the document lock held.
func (d *Document[T]) OnLoad(fn func(T)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onLoad = fn
}

func (d *Document[T]) Path() string {
	return d.path
}

// Load returns the stored value. A missing file yields the zero value. A file
// that cannot be decoded yields the zero value and an ErrStoreCorrupt error.
func (d *Document[T]) Load() (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.load()
}

// View is Load with corruption downgraded to a warning.
func (d *Document[T]) View() T {
	v, err := d.Load()
	if err != nil {
		d.log.Warn().Err(err).Msg("treating store as empty")
	}
	return v
}

// Update reads the document, applies fn and writes the result back, all while
// holding the lock. If fn returns an error nothing is written. A corrupt
// document is replaced.
func (d *Document[T]) Update(fn func(v *T) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, err := d.load()
	if err != nil {
		d.log.Warn().Err(err).Msg("overwriting unreadable store")
	}

	if err := fn(&v); err != nil {
		return err
	}

	if err := d.write(v); err != nil {
		return domain.NewOpError("write store", d.path, domain.ErrStoreWrite, err)
	}

	if d.onLoad != nil {
		d.onLoad(v)
	}

	return nil
}

func (d *Document[T]) load() (T, error) {
	var v T

	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			d.observe(v)
			return v, nil
		}
		return v, domain.NewOpError("read store", d.path, domain.ErrStoreCorrupt, err)
	}

	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &v); err != nil {
			var zero T
			d.observe(zero)
			return zero, domain.NewOpError("read store", d.path, domain.ErrStoreCorrupt, err)
		}
	}

	d.observe(v)
	return v, nil
}

func (d *Document[T]) observe(v T) {
	if d.onLoad != nil {
		d.onLoad(v)
	}
}

func (d *Document[T]) write(v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "could not encode store")
	}

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return errors.Wrapf(err, "could not create store directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "could not create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "could not write temp file")
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "could not sync temp file")
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "could not close temp file")
	}

	if err := os.Rename(tmp.Name(), d.path); err != nil {
		return errors.Wrapf(err, "could not replace %s", d.path)
	}

	return nil
}
