// Package gitpatch computes and represents line-level patches between two
// pieces of text content as indexable, serializable objects: a sequence of
// hunks, each containing a sequence of classified lines.
package gitpatch

import (
	"errors"
	"io/fs"
)

// Errors returned by patch constructors and accessors.
var (
	// ErrNotFound reports an out-of-range hunk, line, or delta index.
	ErrNotFound = errors.New("gitpatch: not found")

	// ErrNoEngine reports that patch construction was attempted without a
	// diff engine configured in the options.
	ErrNoEngine = errors.New("gitpatch: no diff engine configured")
)

// LineOrigin classifies a single span of diff output. The values double as
// the conventional unified-diff prefix characters.
type LineOrigin byte

// Line origins. The first six are produced during diff computation; the
// header and binary variants are synthesized only while rendering text.
const (
	LineContext  LineOrigin = ' '
	LineAddition LineOrigin = '+'
	LineDeletion LineOrigin = '-'

	LineContextNoEOL  LineOrigin = '=' // context line without trailing newline
	LineAdditionNoEOL LineOrigin = '>' // added line without trailing newline
	LineDeletionNoEOL LineOrigin = '<' // deleted line without trailing newline

	LineFileHeader LineOrigin = 'F'
	LineHunkHeader LineOrigin = 'H'
	LineBinary     LineOrigin = 'B'
)

// Base folds the no-eol variants onto their base category.
func (o LineOrigin) Base() LineOrigin {
	switch o {
	case LineContextNoEOL:
		return LineContext
	case LineAdditionNoEOL:
		return LineAddition
	case LineDeletionNoEOL:
		return LineDeletion
	}
	return o
}

// NoEOL reports whether the origin marks a line without a trailing newline.
func (o LineOrigin) NoEOL() bool {
	return o == LineContextNoEOL || o == LineAdditionNoEOL || o == LineDeletionNoEOL
}

// Prefix returns the character that introduces the line in unified-diff
// output.
func (o LineOrigin) Prefix() byte {
	return byte(o.Base())
}

// Line is a single span of diff data, generally one line of output.
//
// Content is a subslice of the buffer owned by the patch the line belongs
// to; it is never independently allocated and must not be mutated.
type Line struct {
	Origin    LineOrigin
	Content   []byte
	OldLineno int // 1-based line number in the old file, 0 if line is added
	NewLineno int // 1-based line number in the new file, 0 if line is deleted
}

// Hunk describes one contiguous change region of a patch.
//
// OldStart/NewStart are the 1-based starting line numbers per unified-diff
// hunk-header semantics; for an empty range the value is the line just
// before the range (0 for an insertion at the very beginning).
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Header   string // literal hunk header text, "@@ -a,b +c,d @@\n"
	NumLines int    // total lines of data in this hunk
}

// FileOp represents the type of operation performed on a file.
type FileOp int

// File operation types.
const (
	FileModified FileOp = iota
	FileAdded
	FileDeleted
	FileRenamed
	FileCopied
)

// Delta is the metadata describing one file-pair's change: paths, modes and
// object identifiers. IDs and modes are zero-valued when the content did not
// come from an object database.
type Delta struct {
	OldPath string
	NewPath string
	OldID   string
	NewID   string
	OldMode fs.FileMode
	NewMode fs.FileMode
	Op      FileOp
}

// Patch is the computed difference between two pieces of content: delta
// metadata plus ordered hunks and lines. A patch is immutable after
// construction and safe for concurrent readers. Line contents borrow from
// buffers owned by the patch; they stay valid as long as the patch is
// reachable.
type Patch struct {
	delta  Delta
	driver Driver
	binary bool

	oldData []byte
	newData []byte

	hunks []Hunk
	lines []Line

	// lineStart[i] is the index into lines of hunk i's first line.
	lineStart []int
}

// Delta returns the delta metadata associated with the patch.
func (p *Patch) Delta() Delta { return p.delta }

// Driver returns the diff driver the patch was built with, or nil when the
// built-in defaults were used.
func (p *Patch) Driver() Driver { return p.driver }

// IsBinary reports whether either side was classified as binary content, in
// which case the patch has no hunks or lines.
func (p *Patch) IsBinary() bool { return p.binary }

// NumHunks returns the number of hunks in the patch. Binary and unchanged
// patches have zero hunks.
func (p *Patch) NumHunks() int { return len(p.hunks) }

// Hunk returns the hunk at index, or ErrNotFound if index is out of range.
func (p *Patch) Hunk(index int) (*Hunk, error) {
	if index < 0 || index >= len(p.hunks) {
		return nil, ErrNotFound
	}
	return &p.hunks[index], nil
}

// NumLinesInHunk returns the number of lines in the hunk at index, or -1 if
// index is out of range. A valid hunk with zero lines reports 0, not -1.
func (p *Patch) NumLinesInHunk(index int) int {
	if index < 0 || index >= len(p.hunks) {
		return -1
	}
	return p.hunks[index].NumLines
}

// LineInHunk returns the line at lineIndex within the hunk at hunkIndex, or
// ErrNotFound if either index is out of range.
func (p *Patch) LineInHunk(hunkIndex, lineIndex int) (*Line, error) {
	if hunkIndex < 0 || hunkIndex >= len(p.hunks) {
		return nil, ErrNotFound
	}
	if lineIndex < 0 || lineIndex >= p.hunks[hunkIndex].NumLines {
		return nil, ErrNotFound
	}
	return &p.lines[p.lineStart[hunkIndex]+lineIndex], nil
}

// LineStats tallies the patch's lines by origin category in a single pass.
// No-eol variants count under their base category.
func (p *Patch) LineStats() (context, additions, deletions int) {
	for i := range p.lines {
		switch p.lines[i].Origin.Base() {
		case LineContext:
			context++
		case LineAddition:
			additions++
		case LineDeletion:
			deletions++
		}
	}
	return context, additions, deletions
}
