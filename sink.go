package media

import "sync"

// VideoSink consumes frames from a producer. OnFrame runs synchronously
// on the producer's goroutine with a borrowed frame: the frame is valid
// only for the duration of the call, and a sink that keeps the frame or
// its buffer must retain it before returning.
type VideoSink interface {
	OnFrame(frame *Frame)
}

// VideoSinkFunc adapts a plain function to the VideoSink interface.
type VideoSinkFunc func(frame *Frame)

func (f VideoSinkFunc) OnFrame(frame *Frame) { f(frame) }

type sinkEntry struct {
	id   uint64
	sink VideoSink
}

// FrameBroadcaster fans frames out from one producer to any number of
// sinks in registration order. Registration and broadcast may happen
// from different goroutines.
type FrameBroadcaster struct {
	metrics broadcastMetrics

	mu    sync.RWMutex
	seq   uint64
	sinks []sinkEntry
}

// NewFrameBroadcaster creates an empty broadcaster. name labels the
// broadcaster's metrics.
func NewFrameBroadcaster(name string) *FrameBroadcaster {
	return &FrameBroadcaster{metrics: newBroadcastMetrics(name)}
}

// AddSink registers sink for future broadcasts and returns a function
// that unregisters it. The returned function is idempotent. Registering
// the same sink twice delivers every frame to it twice.
func (b *FrameBroadcaster) AddSink(sink VideoSink) (remove func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	id := b.seq
	b.sinks = append(b.sinks, sinkEntry{id: id, sink: sink})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, e := range b.sinks {
			if e.id == id {
				b.sinks = append(b.sinks[:i], b.sinks[i+1:]...)
				return
			}
		}
	}
}

// SinkCount reports the number of registered sinks.
func (b *FrameBroadcaster) SinkCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.sinks)
}

// Broadcast delivers frame to every registered sink, synchronously on
// the calling goroutine. The frame is borrowed for the duration of the
// call: the caller keeps its reference and releases it afterwards, and
// sinks that keep the frame retain it themselves. A frame arriving with
// no sinks registered counts as dropped.
func (b *FrameBroadcaster) Broadcast(frame *Frame) {
	// Snapshot so that sinks may add or remove registrations from
	// inside OnFrame without deadlocking.
	b.mu.RLock()
	sinks := append([]sinkEntry(nil), b.sinks...)
	b.mu.RUnlock()

	if len(sinks) == 0 {
		b.metrics.dropped.Inc()
		return
	}
	for _, e := range sinks {
		e.sink.OnFrame(frame)
	}
	b.metrics.delivered.Add(float64(len(sinks)))
}

// OnFrame implements VideoSink by broadcasting the borrowed frame, so a
// broadcaster can sit directly under any producer.
func (b *FrameBroadcaster) OnFrame(frame *Frame) { b.Broadcast(frame) }
