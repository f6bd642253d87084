package glrender

import (
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/video-editor/media"
)

var queueOverwritten = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "media_gl_queue_overwritten_total",
	Help: "Frames replaced in a frame queue before the renderer took them",
}, []string{"queue"})

// FrameQueue hands frames from producer goroutines to the rendering
// goroutine with minimal latency: it keeps only the most recent frame
// and drops older ones that were never taken. Suitable for live
// display, not for recording.
type FrameQueue struct {
	overwritten prometheus.Counter

	mu      sync.Mutex
	pending *media.Frame
}

var _ media.VideoSink = (*FrameQueue)(nil)

// NewFrameQueue creates a frame queue. The name labels its metrics.
func NewFrameQueue(name string) *FrameQueue {
	q := &FrameQueue{overwritten: queueOverwritten.WithLabelValues(name)}
	q.overwritten.Add(0)
	return q
}

// OnFrame retains frame as the new pending frame. A previous pending
// frame that was never taken is released and counted as overwritten.
func (q *FrameQueue) OnFrame(frame *media.Frame) {
	frame.Retain()

	q.mu.Lock()
	old := q.pending
	q.pending = frame
	q.mu.Unlock()

	if old != nil {
		old.Release()
		q.overwritten.Inc()
	}
}

// Take removes and returns the pending frame, or nil when no new frame
// arrived since the last call. The caller owns the returned reference
// and releases it after uploading.
func (q *FrameQueue) Take() *media.Frame {
	q.mu.Lock()
	defer q.mu.Unlock()
	frame := q.pending
	q.pending = nil
	return frame
}

// Close releases a pending frame nobody will take.
func (q *FrameQueue) Close() {
	q.mu.Lock()
	old := q.pending
	q.pending = nil
	q.mu.Unlock()

	if old != nil {
		old.Release()
	}
}

// DeleteQueue collects texture handles whose owning buffers hit zero
// references on goroutines that cannot call GL. Drain it on the
// rendering goroutine.
type DeleteQueue struct {
	mu  sync.Mutex
	ids []uint32
}

// Put schedules id for deletion. Safe from any goroutine.
func (q *DeleteQueue) Put(id uint32) {
	q.mu.Lock()
	q.ids = append(q.ids, id)
	q.mu.Unlock()
}

// Drain deletes every scheduled texture and reports how many. Call on
// the GL goroutine.
func (q *DeleteQueue) Drain() int {
	q.mu.Lock()
	ids := q.ids
	q.ids = nil
	q.mu.Unlock()

	if len(ids) == 0 {
		return 0
	}
	gl.DeleteTextures(int32(len(ids)), &ids[0])
	return len(ids)
}

// WrapTexture wraps an existing GL texture as a reference-counted
// buffer. The final release schedules the texture on q instead of
// touching GL, so buffers may die on any goroutine.
func WrapTexture(q *DeleteQueue, texType media.TextureType, id uint32, width, height int,
	transform mgl32.Mat3, converter media.YUVConverter) *media.TextureBuffer {

	return media.NewTextureBuffer(texType, id, width, height, transform, converter, func() {
		q.Put(id)
	})
}
