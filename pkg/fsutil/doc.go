// Package fsutil provides utilities for filesystem operations.
//
// Key functionality:
//   - Locking: Lock (cross-process advisory lock on a file)
//   - File writing: WriteFromReader, AppendLineOnce, RemoveIfExists
//   - Path operations: ExpandHomePath, Resolve
package fsutil
