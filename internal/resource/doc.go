// Package resource implements a Controller for memory and allocation limits.
//
// The Controller governs two resources shared by every allocator it is handed to:
//
//   - Memory: track and limit bytes held by live blocks (non-blocking, fail-fast)
//   - Allocation rate: token bucket limiting how many blocks are created per second
//
// # Memory Management
//
// Memory tracking uses a weighted semaphore for hard limits and atomic counters
// for usage tracking. AcquireMemory is non-blocking and returns immediately
// with ErrMemoryLimitExceeded if the limit would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 20, // 1MB limit
//	})
//
//	if err := rc.AcquireMemory(4096); err != nil {
//	    // ErrMemoryLimitExceeded - caller decides retry/backoff
//	}
//	defer rc.ReleaseMemory(4096)
//
// # Allocation Rate
//
//	rc := resource.NewController(resource.Config{
//	    AllocsPerSec: 1000,
//	    AllocBurst:   64,
//	})
//
//	if err := rc.AllowAlloc(); err != nil {
//	    // ErrRateLimited
//	}
//
// # Nil Safety
//
// All methods handle nil Controller gracefully - they become no-ops.
// This allows optional resource limiting without nil checks everywhere.
package resource
