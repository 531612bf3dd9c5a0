package gitpatch

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultContextLines is the number of unchanged lines shown around each
// change region unless the options say otherwise.
const DefaultContextLines = 3

// Options configure patch construction. Engine is required; a nil Driver
// selects the built-in NUL-byte binary heuristic.
type Options struct {
	// ContextLines is the number of unchanged lines included around each
	// change region. Zero is meaningful and produces hunks with no context.
	ContextLines int

	// ForceText skips binary detection and always diffs as text.
	ForceText bool

	// ForceBinary classifies the pair as binary without inspecting content.
	ForceBinary bool

	Driver Driver
	Engine Engine
}

// NewOptions returns options with default settings for the given engine.
func NewOptions(engine Engine) *Options {
	return &Options{ContextLines: DefaultContextLines, Engine: engine}
}

// FromBlobs generates a patch from the difference between two blobs. A nil
// blob stands for an empty side. The paths override the names recorded in
// the delta metadata; either may be empty when the corresponding side is
// absent.
func FromBlobs(oldBlob Blob, oldPath string, newBlob Blob, newPath string, opts *Options) (*Patch, error) {
	if opts == nil || opts.Engine == nil {
		return nil, ErrNoEngine
	}

	var oldData, newData []byte
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		if oldData, err = blobData(oldBlob); err != nil {
			return fmt.Errorf("resolving old content: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if newData, err = blobData(newBlob); err != nil {
			return fmt.Errorf("resolving new content: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	delta := Delta{OldPath: oldPath, NewPath: newPath}
	delta.Op = fileOp(oldBlob != nil, newBlob != nil, oldPath, newPath)
	if oldBlob != nil {
		delta.OldID = oldBlob.ID()
		delta.OldMode = oldBlob.Mode()
	}
	if newBlob != nil {
		delta.NewID = newBlob.ID()
		delta.NewMode = newBlob.Mode()
	}
	return build(delta, oldData, newData, opts)
}

// FromBlobAndBuffer generates a patch from the difference between a blob and
// a raw buffer. A nil blob or nil buffer stands for an empty side.
func FromBlobAndBuffer(oldBlob Blob, oldPath string, buffer []byte, bufferPath string, opts *Options) (*Patch, error) {
	if opts == nil || opts.Engine == nil {
		return nil, ErrNoEngine
	}

	oldData, err := blobData(oldBlob)
	if err != nil {
		return nil, fmt.Errorf("resolving old content: %w", err)
	}

	delta := Delta{OldPath: oldPath, NewPath: bufferPath}
	delta.Op = fileOp(oldBlob != nil, buffer != nil, oldPath, bufferPath)
	if oldBlob != nil {
		delta.OldID = oldBlob.ID()
		delta.OldMode = oldBlob.Mode()
	}
	return build(delta, oldData, buffer, opts)
}

// FromDelta generates a patch for one file pair of a larger diff, addressed
// by delta index. It returns ErrNotFound when index is out of range.
func FromDelta(src DeltaSource, index int, opts *Options) (*Patch, error) {
	if opts == nil || opts.Engine == nil {
		return nil, ErrNoEngine
	}
	if src == nil || index < 0 || index >= src.NumDeltas() {
		return nil, ErrNotFound
	}

	delta, err := src.Delta(index)
	if err != nil {
		return nil, fmt.Errorf("resolving delta %d: %w", index, err)
	}
	oldData, newData, err := src.Contents(index)
	if err != nil {
		return nil, fmt.Errorf("resolving delta %d content: %w", index, err)
	}
	return build(delta, oldData, newData, opts)
}

func blobData(b Blob) ([]byte, error) {
	if b == nil {
		return nil, nil
	}
	return b.Data()
}

func fileOp(hasOld, hasNew bool, oldPath, newPath string) FileOp {
	switch {
	case !hasOld && hasNew:
		return FileAdded
	case hasOld && !hasNew:
		return FileDeleted
	case oldPath != "" && newPath != "" && oldPath != newPath:
		return FileRenamed
	default:
		return FileModified
	}
}

// build runs binary classification and, for text content, drives the engine
// to populate the patch. Construction is all-or-nothing: an engine failure
// discards any partially accumulated state.
func build(delta Delta, oldData, newData []byte, opts *Options) (*Patch, error) {
	p := &Patch{
		delta:   delta,
		driver:  opts.Driver,
		oldData: oldData,
		newData: newData,
	}

	binary := opts.ForceBinary
	if !binary && !opts.ForceText {
		binary = isBinary(opts.Driver, oldData) || isBinary(opts.Driver, newData)
	}
	if binary {
		p.binary = true
		return p, nil
	}

	contextLines := opts.ContextLines
	if contextLines < 0 {
		contextLines = 0
	}
	if err := opts.Engine.Diff(oldData, newData, contextLines, (*patchSink)(p)); err != nil {
		return nil, fmt.Errorf("diff engine: %w", err)
	}
	return p, nil
}

// patchSink adapts a patch under construction to the engine Output
// contract, accumulating hunks and lines in emission order.
type patchSink Patch

var _ Output = (*patchSink)(nil)

func (s *patchSink) Hunk(oldStart, oldLines, newStart, newLines int) error {
	s.hunks = append(s.hunks, Hunk{
		OldStart: oldStart,
		OldLines: oldLines,
		NewStart: newStart,
		NewLines: newLines,
		Header:   hunkHeader(oldStart, oldLines, newStart, newLines),
	})
	s.lineStart = append(s.lineStart, len(s.lines))
	return nil
}

func (s *patchSink) Line(origin LineOrigin, content []byte, oldLineno, newLineno int) error {
	if len(s.hunks) == 0 {
		return errors.New("gitpatch: engine emitted a line before any hunk")
	}
	s.lines = append(s.lines, Line{
		Origin:    origin,
		Content:   content,
		OldLineno: oldLineno,
		NewLineno: newLineno,
	})
	s.hunks[len(s.hunks)-1].NumLines++
	return nil
}
