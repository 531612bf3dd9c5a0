package gitpatch

import "io/fs"

// Blob is one side's content as resolved from an object store.
type Blob interface {
	// ID identifies the blob's content, typically an object hash.
	ID() string

	// Mode is the file mode recorded for the blob, 0 when unknown.
	Mode() fs.FileMode

	// Data materializes the blob's content.
	Data() ([]byte, error)
}

// DeltaSource is a larger diff that patches can be constructed from by
// delta index: it resolves per-file-pair metadata and content.
type DeltaSource interface {
	// NumDeltas returns the number of file pairs in the diff.
	NumDeltas() int

	// Delta returns the metadata for the file pair at index.
	Delta(index int) (Delta, error)

	// Contents resolves both sides' content for the file pair at index. A
	// nil slice means the side is absent.
	Contents(index int) (old, new []byte, err error)
}
