// Command gitpatch prints the unified diff between two files.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/fwojciec/gitpatch"
	"github.com/fwojciec/gitpatch/difflib"
)

// App diffs two files and writes the unified-diff text to Out.
type App struct {
	OldPath string
	NewPath string
	Context int
	Out     io.Writer
}

// Run computes the patch and writes its text rendering. The returned patch
// lets the caller inspect whether the files differ.
func (a *App) Run(ctx context.Context) (*gitpatch.Patch, error) {
	oldBlob, err := readBlob(a.OldPath)
	if err != nil {
		return nil, err
	}
	newBlob, err := readBlob(a.NewPath)
	if err != nil {
		return nil, err
	}

	opts := gitpatch.NewOptions(difflib.NewEngine())
	opts.ContextLines = a.Context

	patch, err := gitpatch.FromBlobs(oldBlob, a.OldPath, newBlob, a.NewPath, opts)
	if err != nil {
		return nil, err
	}
	if err := patch.ToText(a.Out); err != nil {
		return nil, err
	}
	return patch, nil
}

// fileBlob serves a file's content as a patch content source.
type fileBlob struct {
	mode fs.FileMode
	data []byte
}

var _ gitpatch.Blob = (*fileBlob)(nil)

func (b *fileBlob) ID() string        { return "" }
func (b *fileBlob) Mode() fs.FileMode { return b.mode }

func (b *fileBlob) Data() ([]byte, error) { return b.data, nil }

func readBlob(path string) (*fileBlob, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &fileBlob{mode: info.Mode(), data: data}, nil
}

func main() {
	contextLines := flag.Int("U", gitpatch.DefaultContextLines, "number of context lines")
	flag.Parse()
	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: gitpatch [-U n] <old-file> <new-file>")
		os.Exit(2)
	}

	app := &App{
		OldPath: flag.Arg(0),
		NewPath: flag.Arg(1),
		Context: *contextLines,
		Out:     os.Stdout,
	}
	patch, err := app.Run(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "gitpatch:", err)
		os.Exit(2)
	}
	// Mirror diff's exit convention: 1 when the files differ.
	if patch.NumHunks() > 0 || patch.IsBinary() {
		os.Exit(1)
	}
}
