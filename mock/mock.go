// Package mock provides function-field test doubles for gitpatch's
// collaborator interfaces.
package mock

import (
	"io/fs"

	"github.com/fwojciec/gitpatch"
)

// Compile-time interface verification.
var (
	_ gitpatch.Engine      = (*Engine)(nil)
	_ gitpatch.Blob        = (*Blob)(nil)
	_ gitpatch.DeltaSource = (*DeltaSource)(nil)
	_ gitpatch.Driver      = (*Driver)(nil)
)

// Engine is a mock diff engine.
type Engine struct {
	DiffFn func(old, new []byte, contextLines int, out gitpatch.Output) error
}

func (e *Engine) Diff(old, new []byte, contextLines int, out gitpatch.Output) error {
	return e.DiffFn(old, new, contextLines, out)
}

// Blob is a mock content blob. Nil ID and Mode functions report zero values.
type Blob struct {
	IDFn   func() string
	ModeFn func() fs.FileMode
	DataFn func() ([]byte, error)
}

func (b *Blob) ID() string {
	if b.IDFn == nil {
		return ""
	}
	return b.IDFn()
}

func (b *Blob) Mode() fs.FileMode {
	if b.ModeFn == nil {
		return 0
	}
	return b.ModeFn()
}

func (b *Blob) Data() ([]byte, error) {
	return b.DataFn()
}

// DeltaSource is a mock delta source.
type DeltaSource struct {
	NumDeltasFn func() int
	DeltaFn     func(index int) (gitpatch.Delta, error)
	ContentsFn  func(index int) (old, new []byte, err error)
}

func (s *DeltaSource) NumDeltas() int {
	return s.NumDeltasFn()
}

func (s *DeltaSource) Delta(index int) (gitpatch.Delta, error) {
	return s.DeltaFn(index)
}

func (s *DeltaSource) Contents(index int) (old, new []byte, err error) {
	return s.ContentsFn(index)
}

// Driver is a mock diff driver.
type Driver struct {
	IsBinaryFn func(data []byte) bool
}

func (d *Driver) IsBinary(data []byte) bool {
	return d.IsBinaryFn(data)
}
