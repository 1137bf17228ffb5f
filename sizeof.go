package profiler

// These constants describe cache geometry used to pad the pool's hot atomic
// words (pool.free, pool.loopID, pool.root) apart, avoiding false sharing
// between producer goroutines and the drain goroutine; see pool.go and
// pool_alignment_test.go. Same convention as the teacher package's
// sizeof.go/ringHeadPadSize.
const (
	// cacheLineSize is the size of a CPU cache line. 64 bytes is standard
	// for x86-64; 128 bytes covers Apple Silicon and other ARM64 parts. We
	// use the larger value to satisfy the widest common alignment
	// requirement.
	cacheLineSize = 128

	sizeOfAtomicUint64 = 8
	sizeOfAtomicUint32 = 4
)
