package media

import (
	"fmt"
	"sync"
)

// FrameBuffer is pre-allocated, writable I420 plane storage handed out
// by a BufferPool. A producer fills Y, U and V, then seals the storage
// with Commit. The planes arrive holding whatever the previous user
// wrote; producers must overwrite every row they expose.
type FrameBuffer struct {
	// Writable until Commit or Discard.
	Y []byte
	U []byte
	V []byte

	width, height             int
	strideY, strideU, strideV int

	recycle func()
}

// Width returns the frame width the storage was sized for.
func (b *FrameBuffer) Width() int { return b.width }

// Height returns the frame height the storage was sized for.
func (b *FrameBuffer) Height() int { return b.height }

// StrideY returns the Y plane's bytes per row.
func (b *FrameBuffer) StrideY() int { return b.strideY }

// StrideU returns the U plane's bytes per row.
func (b *FrameBuffer) StrideU() int { return b.strideU }

// StrideV returns the V plane's bytes per row.
func (b *FrameBuffer) StrideV() int { return b.strideV }

// Commit seals the storage into an immutable, reference-counted
// I420Buffer with a count of one. The storage goes back to its pool
// when the last reference is released; until then the planes must not
// be written again.
func (b *FrameBuffer) Commit() *I420Buffer {
	return WrapI420Buffer(b.width, b.height,
		b.Y, b.strideY,
		b.U, b.strideU,
		b.V, b.strideV,
		b.recycle)
}

// Discard returns unused storage to the pool without producing a
// buffer. The planes must not be touched afterwards.
func (b *FrameBuffer) Discard() { b.recycle() }

// BufferPool recycles I420 plane storage for one frame geometry, so
// that producers running at capture rate do not allocate per frame.
// It is safe for concurrent use.
type BufferPool struct {
	width, height int
	metrics       poolMetrics
	pool          sync.Pool
}

// NewBufferPool creates a pool of frame storage with tight strides for
// the given dimensions.
func NewBufferPool(width, height int) *BufferPool {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("media: invalid pool dimensions %dx%d", width, height))
	}
	p := &BufferPool{
		width:   width,
		height:  height,
		metrics: newPoolMetrics(fmt.Sprintf("%dx%d", width, height)),
	}
	p.pool.New = func() any {
		p.metrics.allocated.Inc()
		return p.newFrameBuffer()
	}
	return p
}

// Get hands out writable frame storage, allocating only when the pool
// is empty.
func (p *BufferPool) Get() *FrameBuffer {
	buf := p.pool.Get().(*FrameBuffer)
	p.metrics.served.Inc()
	p.metrics.outstanding.Inc()
	return buf
}

// Width returns the pool's frame width.
func (p *BufferPool) Width() int { return p.width }

// Height returns the pool's frame height.
func (p *BufferPool) Height() int { return p.height }

func (p *BufferPool) newFrameBuffer() *FrameBuffer {
	cw, ch := chromaSize(p.width), chromaSize(p.height)
	ySize := p.width * p.height
	cSize := cw * ch
	data := make([]byte, ySize+2*cSize)

	b := &FrameBuffer{
		Y:       data[:ySize:ySize],
		U:       data[ySize : ySize+cSize : ySize+cSize],
		V:       data[ySize+cSize:],
		width:   p.width,
		height:  p.height,
		strideY: p.width,
		strideU: cw,
		strideV: cw,
	}
	// One closure per storage object, reused across recycles.
	b.recycle = func() {
		p.metrics.outstanding.Dec()
		p.pool.Put(b)
	}
	return b
}
