// Package pool provides bucketed sync.Pool instances for reducing
// allocations in the QOI encoder's hot path, where every call needs a
// scratch output buffer sized roughly to the source image.
package pool

import "sync"

// Size classes for bucketed pools.
const (
	Size256B = 256
	Size1K   = 1024
	Size4K   = 4096
	Size16K  = 16384
	Size64K  = 65536
	Size256K = 262144
	Size1M   = 1048576
	Size4M   = 4194304
	Size16M  = 16777216
)

var sizes = [9]int{Size256B, Size1K, Size4K, Size16K, Size64K, Size256K, Size1M, Size4M, Size16M}

var pools [9]sync.Pool

func init() {
	for i := range pools {
		sz := sizes[i]
		pools[i] = sync.Pool{
			New: func() any {
				b := make([]byte, sz)
				return &b
			},
		}
	}
}

// bucketIndex returns the pool index for a given size.
func bucketIndex(size int) int {
	for i, sz := range sizes {
		if size <= sz {
			return i
		}
	}
	return len(sizes) - 1
}

// Get returns a byte slice of at least the requested size from the pool.
// The returned slice has length == size and may have a larger capacity.
// The caller must call Put when done; Get never reuses a slice's old
// contents as zeroed memory, callers that need zeroing must do it
// themselves.
func Get(size int) []byte {
	idx := bucketIndex(size)
	bp := pools[idx].Get().(*[]byte)
	b := *bp
	if cap(b) < size {
		b = make([]byte, size)
		*bp = b
		return b
	}
	return b[:size]
}

// Put returns a byte slice to the pool. The slice must have been obtained
// from Get. Slices smaller than Size256B are not pooled.
func Put(b []byte) {
	c := cap(b)
	if c < Size256B {
		return
	}
	idx := bucketIndex(c)
	// A slice whose capacity overshoots every bucket still belongs in the
	// largest bucket; bucketIndex already clamps to len(sizes)-1 for that.
	b = b[:c]
	pools[idx].Put(&b)
}
