// Package godiff provides a diff engine built on sergi/go-diff's
// diff-match-patch running in line mode.
package godiff

import (
	"unicode/utf8"

	"github.com/fwojciec/gitpatch"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Compile-time interface verification.
var _ gitpatch.Engine = (*Engine)(nil)

// Engine computes line diffs by mapping lines to runes, diffing the rune
// strings, and regrouping the flat edit stream into context-bounded hunks.
type Engine struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewEngine creates a new diff-match-patch based engine.
func NewEngine() *Engine {
	return &Engine{dmp: diffmatchpatch.New()}
}

// record is one line of the flattened edit stream, in emission order.
type record struct {
	origin    gitpatch.LineOrigin
	content   []byte
	oldLineno int
	newLineno int
}

// Diff implements gitpatch.Engine.
func (e *Engine) Diff(old, new []byte, contextLines int, out gitpatch.Output) error {
	recs := e.records(old, new)

	// Collect change clusters: runs of non-context records separated by at
	// most 2n context lines share a hunk, mirroring grouped-opcode behavior.
	type cluster struct{ first, last int }
	var clusters []cluster
	for i, r := range recs {
		if r.origin.Base() == gitpatch.LineContext {
			continue
		}
		if n := len(clusters); n > 0 && i-clusters[n-1].last-1 <= 2*contextLines {
			clusters[n-1].last = i
			continue
		}
		clusters = append(clusters, cluster{first: i, last: i})
	}

	for _, c := range clusters {
		lo := max(c.first-contextLines, 0)
		hi := min(c.last+contextLines, len(recs)-1)
		group := recs[lo : hi+1]

		oldStart, oldCount := sideRange(recs, lo, hi, func(r *record) int { return r.oldLineno })
		newStart, newCount := sideRange(recs, lo, hi, func(r *record) int { return r.newLineno })
		if err := out.Hunk(oldStart, oldCount, newStart, newCount); err != nil {
			return err
		}
		for i := range group {
			r := &group[i]
			if err := out.Line(r.origin, r.content, r.oldLineno, r.newLineno); err != nil {
				return err
			}
		}
	}
	return nil
}

// records flattens the diff-match-patch output into numbered line records.
// Each rune of a diff fragment stands for exactly one line.
func (e *Engine) records(old, new []byte) []record {
	oldLines := gitpatch.SplitLines(old)
	newLines := gitpatch.SplitLines(new)

	oldRunes, newRunes, _ := e.dmp.DiffLinesToRunes(string(old), string(new))
	diffs := e.dmp.DiffMainRunes(oldRunes, newRunes, false)
	diffs = e.dmp.DiffCleanupMerge(diffs)

	var recs []record
	i, j := 0, 0
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		for k := 0; k < n; k++ {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				line := oldLines[i]
				recs = append(recs, record{origin(gitpatch.LineContext, line), line, i + 1, j + 1})
				i++
				j++
			case diffmatchpatch.DiffDelete:
				line := oldLines[i]
				recs = append(recs, record{origin(gitpatch.LineDeletion, line), line, i + 1, 0})
				i++
			case diffmatchpatch.DiffInsert:
				line := newLines[j]
				recs = append(recs, record{origin(gitpatch.LineAddition, line), line, 0, j + 1})
				j++
			}
		}
	}
	return recs
}

// sideRange computes one side's hunk-header range for recs[lo:hi+1]. When
// the group has no lines on that side, the start is the last line number
// seen on that side before the group, or 0 at the beginning of the file.
func sideRange(recs []record, lo, hi int, lineno func(*record) int) (start, count int) {
	for i := lo; i <= hi; i++ {
		if n := lineno(&recs[i]); n > 0 {
			if start == 0 {
				start = n
			}
			count++
		}
	}
	if count > 0 {
		return start, count
	}
	for i := lo - 1; i >= 0; i-- {
		if n := lineno(&recs[i]); n > 0 {
			return n, 0
		}
	}
	return 0, 0
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
