// Package gogit adapts go-git repository objects to gitpatch's
// content-source and driver contracts.
package gogit

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"

	"github.com/fwojciec/gitpatch"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/binary"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// Compile-time interface verification.
var (
	_ gitpatch.Blob        = (*Blob)(nil)
	_ gitpatch.DeltaSource = (*DeltaSource)(nil)
	_ gitpatch.Driver      = (*Driver)(nil)
)

// Blob exposes a file from a go-git tree as patch content.
type Blob struct {
	file *object.File
}

// NewBlob wraps a go-git tree file.
func NewBlob(file *object.File) *Blob {
	return &Blob{file: file}
}

// ID returns the blob's object hash.
func (b *Blob) ID() string {
	return b.file.Hash.String()
}

// Mode returns the file mode recorded in the tree, or 0 if it has no OS
// equivalent.
func (b *Blob) Mode() fs.FileMode {
	mode, err := b.file.Mode.ToOSFileMode()
	if err != nil {
		return 0
	}
	return mode
}

// Data reads the blob's content from the object store.
func (b *Blob) Data() ([]byte, error) {
	r, err := b.file.Blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("opening blob %s: %w", b.file.Hash, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

// DeltaSource exposes a tree-to-tree change set, as produced by
// object.DiffTree, as an indexable set of file-pair deltas.
type DeltaSource struct {
	changes object.Changes
}

// NewDeltaSource wraps a go-git change set.
func NewDeltaSource(changes object.Changes) *DeltaSource {
	return &DeltaSource{changes: changes}
}

// NumDeltas implements gitpatch.DeltaSource.
func (s *DeltaSource) NumDeltas() int {
	return len(s.changes)
}

// Delta implements gitpatch.DeltaSource.
func (s *DeltaSource) Delta(index int) (gitpatch.Delta, error) {
	if index < 0 || index >= len(s.changes) {
		return gitpatch.Delta{}, gitpatch.ErrNotFound
	}
	change := s.changes[index]
	action, err := change.Action()
	if err != nil {
		return gitpatch.Delta{}, fmt.Errorf("resolving change action: %w", err)
	}

	delta := gitpatch.Delta{
		OldPath: change.From.Name,
		NewPath: change.To.Name,
	}
	switch action {
	case merkletrie.Insert:
		delta.Op = gitpatch.FileAdded
	case merkletrie.Delete:
		delta.Op = gitpatch.FileDeleted
	default:
		delta.Op = gitpatch.FileModified
		if change.From.Name != change.To.Name {
			delta.Op = gitpatch.FileRenamed
		}
	}
	if action != merkletrie.Insert {
		delta.OldID = change.From.TreeEntry.Hash.String()
		if mode, err := change.From.TreeEntry.Mode.ToOSFileMode(); err == nil {
			delta.OldMode = mode
		}
	}
	if action != merkletrie.Delete {
		delta.NewID = change.To.TreeEntry.Hash.String()
		if mode, err := change.To.TreeEntry.Mode.ToOSFileMode(); err == nil {
			delta.NewMode = mode
		}
	}
	return delta, nil
}

// Contents implements gitpatch.DeltaSource, resolving both sides' blobs.
func (s *DeltaSource) Contents(index int) (oldData, newData []byte, err error) {
	if index < 0 || index >= len(s.changes) {
		return nil, nil, gitpatch.ErrNotFound
	}
	from, to, err := s.changes[index].Files()
	if err != nil {
		return nil, nil, fmt.Errorf("resolving change files: %w", err)
	}
	if from != nil {
		if oldData, err = NewBlob(from).Data(); err != nil {
			return nil, nil, err
		}
	}
	if to != nil {
		if newData, err = NewBlob(to).Data(); err != nil {
			return nil, nil, err
		}
	}
	return oldData, newData, nil
}

// Driver classifies content with go-git's binary detection.
type Driver struct{}

// NewDriver creates a go-git backed diff driver.
func NewDriver() *Driver {
	return &Driver{}
}

// IsBinary implements gitpatch.Driver.
func (d *Driver) IsBinary(data []byte) bool {
	bin, err := binary.IsBinary(bytes.NewReader(data))
	return err == nil && bin
}
