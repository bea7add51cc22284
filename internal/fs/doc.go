// Package fs provides the filesystem abstraction behind the local blob store
// and a fault-injecting implementation for tests.
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: injects write, sync, close and rename failures
//
// Tests inject [FaultyFS] to simulate failures:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("result", fs.Fault{FailAfterBytes: 1024})
package fs
