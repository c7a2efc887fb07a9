package propagate

import "sync"

// bufferPool recycles the per-digit gather buffers used by strided local
// multiplication. It is what lets one Engine serve many goroutines: every
// cache behind a propagator lookup is mutex-guarded, and the only other
// mutable state is the buffer handed out here.
type bufferPool struct {
	pool sync.Pool
	size int
}

func newBufferPool(size int) *bufferPool {
	return &bufferPool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]complex128, size)
			},
		},
	}
}

func (p *bufferPool) get() []complex128 {
	return p.pool.Get().([]complex128)
}

func (p *bufferPool) put(buf []complex128) {
	if len(buf) == p.size {
		p.pool.Put(buf)
	}
}
