// Package fs abstracts the filesystem operations behind the atomic
// container save, so tests can inject write, sync, and close failures.
//
// Production code uses [Default], which is a [LocalFS]. Tests wrap it
// in a [FaultyFS] and register per-file [Fault] rules:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp-", fs.Fault{FailOnSync: true})
//
// The interfaces carry no context.Context: local file operations are
// not interruptible at the syscall level. Remote storage with real
// cancellation lives in the blobstore package.
package fs
