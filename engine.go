package gitpatch

import "bytes"

// Engine computes the line-level difference between two byte buffers and
// reports it through the Output callbacks: one Hunk call per change region,
// followed by one Line call per line the region contains, in emission order.
type Engine interface {
	// Diff compares old and new with the requested number of context lines.
	// An error from either Output callback must abort the computation and be
	// returned as-is.
	Diff(old, new []byte, contextLines int, out Output) error
}

// Output receives hunk boundaries and line spans from an Engine. It is
// implemented by the patch builder; engine implementations only call it.
type Output interface {
	// Hunk opens a new hunk. Start values follow unified-diff hunk-header
	// semantics: 1-based first line of the range, or the line just before
	// the range when the range is empty.
	Hunk(oldStart, oldLines, newStart, newLines int) error

	// Line reports one line belonging to the most recently opened hunk.
	// Content must be a subslice of the old buffer for deletions and
	// context, and of the new buffer for additions. A line number is 0 on
	// the side the line does not belong to.
	Line(origin LineOrigin, content []byte, oldLineno, newLineno int) error
}

// SplitLines splits data into lines for diffing, preserving line
// terminators. The returned slices alias data; the last line has no
// trailing newline when data doesn't end with one. Empty data yields no
// lines.
func SplitLines(data []byte) [][]byte {
	var lines [][]byte
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			lines = append(lines, data)
			break
		}
		lines = append(lines, data[:i+1])
		data = data[i+1:]
	}
	return lines
}
