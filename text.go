package gitpatch

import (
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
)

// noEOLMarker follows a body line whose content lacks a trailing newline.
var noEOLMarker = []byte("\n\\ No newline at end of file\n")

// devNull is the conventional name for an absent side in file headers.
const devNull = "/dev/null"

// ToText renders the patch as unified-diff text: file header block, then
// each hunk header followed by its prefixed lines. Binary patches render the
// binary notice instead of hunks; unchanged patches render nothing. The only
// error path is a failed write to w.
func (p *Patch) ToText(w io.Writer) error {
	return p.render(true, true, true, func(_ LineOrigin, segments ...[]byte) error {
		for _, seg := range segments {
			if _, err := w.Write(seg); err != nil {
				return fmt.Errorf("writing patch text: %w", err)
			}
		}
		return nil
	})
}

// String renders the patch as unified-diff text.
func (p *Patch) String() string {
	var b strings.Builder
	_ = p.ToText(&b) // strings.Builder writes cannot fail
	return b.String()
}

// Size returns the exact byte length ToText would produce, selectively
// excluding context lines, hunk headers, or the file header block, without
// materializing the text. With includeContext false, context lines are
// elided and hunk header numeric fields reflect only the remaining line
// population.
func (p *Patch) Size(includeContext, includeHunkHeaders, includeFileHeaders bool) int {
	var n int
	_ = p.render(includeContext, includeHunkHeaders, includeFileHeaders,
		func(_ LineOrigin, segments ...[]byte) error {
			for _, seg := range segments {
				n += len(seg)
			}
			return nil
		})
	return n
}

// render is the single enumeration routine behind both ToText and Size: it
// walks the patch and emits every byte segment of the rendering under the
// three inclusion switches, tagged with the origin it belongs to. Keeping
// one implementation guarantees the two views cannot disagree.
func (p *Patch) render(includeContext, includeHunkHeaders, includeFileHeaders bool, emit func(LineOrigin, ...[]byte) error) error {
	if p.binary {
		if includeFileHeaders {
			if err := emit(LineFileHeader, []byte(p.fileHeader())); err != nil {
				return err
			}
		}
		return emit(LineBinary, []byte(p.binaryNotice()))
	}
	if len(p.hunks) == 0 {
		return nil
	}

	if includeFileHeaders {
		if err := emit(LineFileHeader, []byte(p.fileHeader())); err != nil {
			return err
		}
	}
	for i := range p.hunks {
		h := &p.hunks[i]
		header := h.Header
		if !includeContext {
			stripped, changed := p.strippedHeader(i)
			if !changed {
				// Nothing but context in this hunk; it disappears entirely.
				continue
			}
			header = stripped
		}
		if includeHunkHeaders {
			if err := emit(LineHunkHeader, []byte(header)); err != nil {
				return err
			}
		}
		start := p.lineStart[i]
		for j := 0; j < h.NumLines; j++ {
			line := &p.lines[start+j]
			if !includeContext && line.Origin.Base() == LineContext {
				continue
			}
			prefix := []byte{line.Origin.Prefix()}
			if line.Origin.NoEOL() {
				if err := emit(line.Origin, prefix, line.Content, noEOLMarker); err != nil {
					return err
				}
				continue
			}
			if err := emit(line.Origin, prefix, line.Content); err != nil {
				return err
			}
		}
	}
	return nil
}

// strippedHeader recomputes hunk i's header for a rendering without context
// lines, as though the engine had been run with zero context: counts cover
// only additions and deletions, starts follow the empty-range convention.
// changed is false when the hunk contains no additions or deletions at all.
func (p *Patch) strippedHeader(i int) (header string, changed bool) {
	h := &p.hunks[i]

	// Seed the anchors with "the line before the hunk" on each side.
	lastOld := h.OldStart
	if h.OldLines > 0 {
		lastOld = h.OldStart - 1
	}
	lastNew := h.NewStart
	if h.NewLines > 0 {
		lastNew = h.NewStart - 1
	}

	var dels, adds, delStart, addStart, oldAnchor, newAnchor int
	start := p.lineStart[i]
	for j := 0; j < h.NumLines; j++ {
		line := &p.lines[start+j]
		switch line.Origin.Base() {
		case LineContext:
			lastOld, lastNew = line.OldLineno, line.NewLineno
		case LineDeletion:
			if dels == 0 {
				delStart = line.OldLineno
				newAnchor = lastNew
			}
			dels++
			lastOld = line.OldLineno
		case LineAddition:
			if adds == 0 {
				addStart = line.NewLineno
				oldAnchor = lastOld
			}
			adds++
			lastNew = line.NewLineno
		}
	}
	if dels == 0 && adds == 0 {
		return "", false
	}

	oldStart := delStart
	if dels == 0 {
		oldStart = oldAnchor
	}
	newStart := addStart
	if adds == 0 {
		newStart = newAnchor
	}
	return hunkHeader(oldStart, dels, newStart, adds), true
}

// hunkHeader formats the conventional "@@ -a,b +c,d @@" header line. Ranges
// of length one omit the count; empty ranges carry the line just before the
// range as their start.
func hunkHeader(oldStart, oldLines, newStart, newLines int) string {
	return "@@ -" + formatRange(oldStart, oldLines) + " +" + formatRange(newStart, newLines) + " @@\n"
}

func formatRange(start, lines int) string {
	if lines == 1 {
		return strconv.Itoa(start)
	}
	return strconv.Itoa(start) + "," + strconv.Itoa(lines)
}

// fileHeader synthesizes the git-style file header block from the delta
// metadata.
func (p *Patch) fileHeader() string {
	d := p.delta
	oldPath, newPath := d.OldPath, d.NewPath
	if oldPath == "" {
		oldPath = newPath
	}
	if newPath == "" {
		newPath = oldPath
	}

	var b strings.Builder
	fmt.Fprintf(&b, "diff --git a/%s b/%s\n", oldPath, newPath)
	switch d.Op {
	case FileAdded:
		if d.NewMode != 0 {
			fmt.Fprintf(&b, "new file mode %06o\n", gitFileMode(d.NewMode))
		}
	case FileDeleted:
		if d.OldMode != 0 {
			fmt.Fprintf(&b, "deleted file mode %06o\n", gitFileMode(d.OldMode))
		}
	default:
		if d.OldMode != 0 && d.NewMode != 0 && d.OldMode != d.NewMode {
			fmt.Fprintf(&b, "old mode %06o\n", gitFileMode(d.OldMode))
			fmt.Fprintf(&b, "new mode %06o\n", gitFileMode(d.NewMode))
		}
	}
	if d.OldID != "" || d.NewID != "" {
		fmt.Fprintf(&b, "index %s..%s", idOrZeros(d.OldID), idOrZeros(d.NewID))
		if d.OldMode != 0 && d.OldMode == d.NewMode {
			fmt.Fprintf(&b, " %06o", gitFileMode(d.OldMode))
		}
		b.WriteByte('\n')
	}
	// Binary patches carry no ---/+++ lines, matching git's output.
	if !p.binary {
		if d.Op == FileAdded {
			b.WriteString("--- " + devNull + "\n")
		} else {
			fmt.Fprintf(&b, "--- a/%s\n", oldPath)
		}
		if d.Op == FileDeleted {
			b.WriteString("+++ " + devNull + "\n")
		} else {
			fmt.Fprintf(&b, "+++ b/%s\n", newPath)
		}
	}
	return b.String()
}

func (p *Patch) binaryNotice() string {
	oldName, newName := devNull, devNull
	if p.delta.Op != FileAdded && p.delta.OldPath != "" {
		oldName = "a/" + p.delta.OldPath
	}
	if p.delta.Op != FileDeleted && p.delta.NewPath != "" {
		newName = "b/" + p.delta.NewPath
	}
	return fmt.Sprintf("Binary files %s and %s differ\n", oldName, newName)
}

func idOrZeros(id string) string {
	if id == "" {
		return "0000000"
	}
	return id
}

// gitFileMode maps an fs.FileMode onto the octal mode values git records:
// symlinks, executables, and regular files.
func gitFileMode(m fs.FileMode) uint32 {
	const regular = 0o100000
	switch {
	case m&fs.ModeSymlink != 0:
		return 0o120000
	case m&0o111 != 0:
		return regular | 0o755
	default:
		return regular | 0o644
	}
}
