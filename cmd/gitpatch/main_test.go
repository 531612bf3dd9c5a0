package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	main "github.com/fwojciec/gitpatch/cmd/gitpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestApp_Run_PrintsUnifiedDiff(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.txt", "shared\nbefore\nshared\n")
	newPath := writeFile(t, dir, "new.txt", "shared\nafter\nshared\n")

	var out bytes.Buffer
	app := &main.App{OldPath: oldPath, NewPath: newPath, Context: 1, Out: &out}

	patch, err := app.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, patch)
	assert.Equal(t, 1, patch.NumHunks())

	text := out.String()
	assert.Contains(t, text, "@@ -1,3 +1,3 @@")
	assert.Contains(t, text, "-before\n")
	assert.Contains(t, text, "+after\n")
}

func TestApp_Run_IdenticalFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	oldPath := writeFile(t, dir, "old.txt", "same\n")
	newPath := writeFile(t, dir, "new.txt", "same\n")

	var out bytes.Buffer
	app := &main.App{OldPath: oldPath, NewPath: newPath, Context: 3, Out: &out}

	patch, err := app.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, patch.NumHunks())
	assert.Empty(t, out.String())
}

func TestApp_Run_MissingFile(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	app := &main.App{
		OldPath: filepath.Join(t.TempDir(), "absent.txt"),
		NewPath: filepath.Join(t.TempDir(), "also-absent.txt"),
		Out:     &out,
	}

	_, err := app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such file")
}
