package difflib_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/gitpatch"
	"github.com/fwojciec/gitpatch/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hunkRec struct {
	oldStart, oldLines, newStart, newLines int
}

type lineRec struct {
	origin    gitpatch.LineOrigin
	content   string
	oldLineno int
	newLineno int
}

// recorder collects engine output, optionally failing after a number of
// line callbacks.
type recorder struct {
	hunks    []hunkRec
	lines    []lineRec
	failLine int // fail on the n-th line callback when > 0
}

var _ gitpatch.Output = (*recorder)(nil)

func (r *recorder) Hunk(oldStart, oldLines, newStart, newLines int) error {
	r.hunks = append(r.hunks, hunkRec{oldStart, oldLines, newStart, newLines})
	return nil
}

func (r *recorder) Line(origin gitpatch.LineOrigin, content []byte, oldLineno, newLineno int) error {
	if r.failLine > 0 && len(r.lines)+1 == r.failLine {
		return errors.New("sink full")
	}
	r.lines = append(r.lines, lineRec{origin, string(content), oldLineno, newLineno})
	return nil
}

func TestEngine_Diff(t *testing.T) {
	t.Parallel()

	engine := difflib.NewEngine()

	t.Run("identical content yields no hunks", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		require.NoError(t, engine.Diff([]byte("a\nb\n"), []byte("a\nb\n"), 3, rec))
		assert.Empty(t, rec.hunks)
		assert.Empty(t, rec.lines)
	})

	t.Run("both sides empty yields no hunks", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		require.NoError(t, engine.Diff(nil, nil, 3, rec))
		assert.Empty(t, rec.hunks)
	})

	t.Run("empty old side yields one all-addition hunk", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		require.NoError(t, engine.Diff(nil, []byte("a\nb\n"), 3, rec))

		require.Equal(t, []hunkRec{{0, 0, 1, 2}}, rec.hunks)
		require.Equal(t, []lineRec{
			{gitpatch.LineAddition, "a\n", 0, 1},
			{gitpatch.LineAddition, "b\n", 0, 2},
		}, rec.lines)
	})

	t.Run("empty new side yields one all-deletion hunk", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		require.NoError(t, engine.Diff([]byte("a\nb\n"), nil, 3, rec))

		require.Equal(t, []hunkRec{{1, 2, 0, 0}}, rec.hunks)
		require.Equal(t, []lineRec{
			{gitpatch.LineDeletion, "a\n", 1, 0},
			{gitpatch.LineDeletion, "b\n", 2, 0},
		}, rec.lines)
	})

	t.Run("replacement emits deletions before additions", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		old := []byte("one\ntwo\nthree\nfour\nfive\n")
		new := []byte("one\ntwo\n3\nfour\nfive\n")
		require.NoError(t, engine.Diff(old, new, 1, rec))

		require.Equal(t, []hunkRec{{2, 3, 2, 3}}, rec.hunks)
		require.Equal(t, []lineRec{
			{gitpatch.LineContext, "two\n", 2, 2},
			{gitpatch.LineDeletion, "three\n", 3, 0},
			{gitpatch.LineAddition, "3\n", 0, 3},
			{gitpatch.LineContext, "four\n", 4, 4},
		}, rec.lines)
	})

	t.Run("distant changes split into separate hunks", func(t *testing.T) {
		t.Parallel()

		old := []byte("a1\na2\na3\na4\na5\na6\na7\na8\na9\na10\n")
		new := []byte("x1\na2\na3\na4\na5\na6\na7\na8\na9\nx10\n")
		rec := &recorder{}
		require.NoError(t, engine.Diff(old, new, 1, rec))

		require.Len(t, rec.hunks, 2)
		assert.Equal(t, hunkRec{1, 2, 1, 2}, rec.hunks[0])
		assert.Equal(t, hunkRec{9, 2, 9, 2}, rec.hunks[1])
	})

	t.Run("nearby changes share a hunk", func(t *testing.T) {
		t.Parallel()

		old := []byte("a\nb\nc\nd\n")
		new := []byte("x\nb\nc\ny\n")
		rec := &recorder{}
		require.NoError(t, engine.Diff(old, new, 1, rec))

		// The two-line gap is within 2*context, so the changes merge.
		require.Equal(t, []hunkRec{{1, 4, 1, 4}}, rec.hunks)
	})

	t.Run("zero context produces bare change hunks", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		require.NoError(t, engine.Diff([]byte("a\nb\nc\n"), []byte("a\nx\nc\n"), 0, rec))

		require.Equal(t, []hunkRec{{2, 1, 2, 1}}, rec.hunks)
		require.Equal(t, []lineRec{
			{gitpatch.LineDeletion, "b\n", 2, 0},
			{gitpatch.LineAddition, "x\n", 0, 2},
		}, rec.lines)
	})

	t.Run("marks lines without trailing newline", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		require.NoError(t, engine.Diff([]byte("a\nb"), []byte("a\nc"), 0, rec))

		require.Equal(t, []lineRec{
			{gitpatch.LineDeletionNoEOL, "b", 2, 0},
			{gitpatch.LineAdditionNoEOL, "c", 0, 2},
		}, rec.lines)
	})

	t.Run("sink errors abort the diff", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{failLine: 1}
		err := engine.Diff([]byte("a\n"), []byte("b\n"), 0, rec)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sink full")
	})
}
