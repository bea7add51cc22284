// Package resource governs the job runner's use of memory, concurrency and
// blob IO.
//
//   - Memory: fail-fast reservation of each job's estimated working set
//   - Concurrency: a bounded number of jobs run at once
//   - IO: token-bucket throttling of blob transfers
//
// # Memory
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30,
//	})
//
//	if err := rc.AcquireMemory(n); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(n)
//
// # Jobs
//
//	if err := rc.AcquireJob(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseJob()
//
// # IO
//
//	store := resource.NewLimitedStore(blobstore.NewLocalStore(dir), rc)
//
// All methods handle a nil Controller as unlimited.
package resource
