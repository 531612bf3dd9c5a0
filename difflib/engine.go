// Package difflib provides a diff engine built on the go-difflib sequence
// matcher.
package difflib

import (
	"github.com/fwojciec/gitpatch"
	"github.com/pmezard/go-difflib/difflib"
)

// Compile-time interface verification.
var _ gitpatch.Engine = (*Engine)(nil)

// Engine computes line diffs with difflib's SequenceMatcher, using its
// grouped opcodes for hunk boundaries.
type Engine struct{}

// NewEngine creates a new difflib-based engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Diff implements gitpatch.Engine.
//
// Lines are split here rather than with difflib.SplitLines, which appends a
// newline to the final line and would lose no-eol information.
func (e *Engine) Diff(old, new []byte, contextLines int, out gitpatch.Output) error {
	oldLines := gitpatch.SplitLines(old)
	newLines := gitpatch.SplitLines(new)

	matcher := difflib.NewMatcher(asStrings(oldLines), asStrings(newLines))
	for _, group := range matcher.GetGroupedOpCodes(contextLines) {
		first, last := group[0], group[len(group)-1]
		oldStart, oldCount := hunkRange(first.I1, last.I2)
		newStart, newCount := hunkRange(first.J1, last.J2)
		if err := out.Hunk(oldStart, oldCount, newStart, newCount); err != nil {
			return err
		}
		for _, op := range group {
			if op.Tag == 'e' {
				for k := op.I1; k < op.I2; k++ {
					line := oldLines[k]
					if err := out.Line(origin(gitpatch.LineContext, line), line, k+1, op.J1+(k-op.I1)+1); err != nil {
						return err
					}
				}
				continue
			}
			// Replacements emit all deletions before all additions; pure
			// deletes and inserts have an empty range on the other side.
			for k := op.I1; k < op.I2; k++ {
				line := oldLines[k]
				if err := out.Line(origin(gitpatch.LineDeletion, line), line, k+1, 0); err != nil {
					return err
				}
			}
			for k := op.J1; k < op.J2; k++ {
				line := newLines[k]
				if err := out.Line(origin(gitpatch.LineAddition, line), line, 0, k+1); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// hunkRange converts a 0-based [start, stop) opcode range to the 1-based
// start and count used in hunk headers. An empty range reports the line
// just before it, per the unified-diff convention.
func hunkRange(start, stop int) (first, count int) {
	count = stop - start
	if count == 0 {
		return start, 0
	}
	return start + 1, count
}

func origin(base gitpatch.LineOrigin, line []byte) gitpatch.LineOrigin {
	if len(line) > 0 && line[len(line)-1] == '\n' {
		return base
	}
	switch base {
	case gitpatch.LineAddition:
		return gitpatch.LineAdditionNoEOL
	case gitpatch.LineDeletion:
		return gitpatch.LineDeletionNoEOL
	default:
		return gitpatch.LineContextNoEOL
	}
}

func asStrings(lines [][]byte) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = string(line)
	}
	return out
}
