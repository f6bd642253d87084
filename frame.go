package media

import (
	"errors"
	"fmt"
)

// Rotation values commonly passed to NewFrame, in clockwise degrees.
// Any multiple of 90 is accepted.
const (
	Rotation0   = 0
	Rotation90  = 90
	Rotation180 = 180
	Rotation270 = 270
)

var (
	// ErrNilBuffer reports a Frame constructed without a buffer.
	ErrNilBuffer = errors.New("media: frame buffer is nil")

	// ErrInvalidRotation reports a rotation that is not a multiple of
	// 90 degrees.
	ErrInvalidRotation = errors.New("media: rotation must be a multiple of 90 degrees")
)

// Frame pairs one pixel Buffer with a display rotation and a capture
// timestamp. It is an immutable, cheap handle: copying a Frame moves no
// pixels, and the Frame keeps no reference count of its own. Retain and
// Release act directly on the underlying buffer, so a Frame's lifetime
// is exactly its buffer's.
type Frame struct {
	buffer      Buffer
	rotation    int
	timestampNs int64
}

var _ RefCounted = (*Frame)(nil)

// NewFrame wraps buffer with rotation metadata and a capture timestamp
// in nanoseconds. On success, ownership of the caller's buffer reference
// transfers to the Frame: release the Frame, not the buffer, when done.
// On error no reference is taken and the caller keeps its own.
//
// rotation is the clockwise rotation a renderer must apply for upright
// display and must be a multiple of 90 degrees.
func NewFrame(buffer Buffer, rotation int, timestampNs int64) (*Frame, error) {
	if buffer == nil {
		return nil, ErrNilBuffer
	}
	if rotation%90 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRotation, rotation)
	}
	return &Frame{
		buffer:      buffer,
		rotation:    rotation,
		timestampNs: timestampNs,
	}, nil
}

// Buffer returns the held buffer without adding a reference. A caller
// that needs the buffer to outlive the Frame must retain it itself.
func (f *Frame) Buffer() Buffer { return f.buffer }

// Rotation returns the clockwise display rotation in degrees.
func (f *Frame) Rotation() int { return f.rotation }

// TimestampNs returns the capture timestamp in nanoseconds.
func (f *Frame) TimestampNs() int64 { return f.timestampNs }

// RotatedWidth returns the frame width as displayed: the buffer width
// for 0 and 180 degree rotations, the buffer height otherwise.
func (f *Frame) RotatedWidth() int {
	if f.rotation%180 == 0 {
		return f.buffer.Width()
	}
	return f.buffer.Height()
}

// RotatedHeight returns the frame height as displayed: the buffer
// height for 0 and 180 degree rotations, the buffer width otherwise.
func (f *Frame) RotatedHeight() int {
	if f.rotation%180 == 0 {
		return f.buffer.Height()
	}
	return f.buffer.Width()
}

// Retain adds a reference to the underlying buffer.
func (f *Frame) Retain() { f.buffer.Retain() }

// Release drops a reference to the underlying buffer. The final release
// across all holders reclaims the buffer's backing store.
func (f *Frame) Release() { f.buffer.Release() }
