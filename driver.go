package gitpatch

import "bytes"

// Driver is per-file diff configuration owned outside the core. The builder
// consults it for binary classification and the patch keeps an opaque
// reference to it; it is never mutated.
type Driver interface {
	// IsBinary classifies one side's content as binary.
	IsBinary(data []byte) bool
}

// firstBlockSize is how much of a buffer the default binary heuristic
// inspects, matching git's own cutoff.
const firstBlockSize = 8000

// isBinary applies the driver, or the git NUL-byte heuristic when no driver
// is configured.
func isBinary(d Driver, data []byte) bool {
	if d != nil {
		return d.IsBinary(data)
	}
	block := data
	if len(block) > firstBlockSize {
		block = block[:firstBlockSize]
	}
	return bytes.IndexByte(block, 0) >= 0
}
