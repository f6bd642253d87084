// Core buffer and frame types used across the media package.
package media

import "fmt"

// BufferType identifies the backing store of a Buffer.
type BufferType int

const (
	// BufferTypeNative tags backing stores that are opaque to CPU
	// consumers, such as GPU textures or platform media handles.
	BufferTypeNative BufferType = iota
	// BufferTypeI420 is 8-bit 4:2:0 planar YUV (Y + U + V).
	BufferTypeI420
	// BufferTypeNV12 is 8-bit 4:2:0 semi-planar YUV (Y + interleaved UV).
	BufferTypeNV12
)

func (t BufferType) String() string {
	switch t {
	case BufferTypeNative:
		return "Native"
	case BufferTypeI420:
		return "I420"
	case BufferTypeNV12:
		return "NV12"
	default:
		return "Unknown"
	}
}

// Buffer holds one video frame's pixel data in some backing store. It
// might be, for example, an OpenGL texture or a memory region containing
// I420 data.
//
// Buffers are reference counted because a single frame is commonly
// shared between multiple consumers, and the backing store must be
// returned to its producer as soon as all references are gone. Once
// constructed a buffer's pixel data and dimensions never change; the
// reference count is the only mutable state.
type Buffer interface {
	RefCounted

	// Type reports the backing-store kind, letting consumers dispatch
	// on it without type inspection. Opaque stores report
	// BufferTypeNative.
	Type() BufferType

	// Width and Height are the buffer's native (unrotated) resolution
	// in pixels.
	Width() int
	Height() int

	// ToI420 returns a memory-backed buffer in I420 format, converting
	// if the pixel data is stored in another format. Every
	// implementation must provide this fallback so that consumers which
	// only understand planar data (software encoders, for one) can take
	// any buffer. The result holds its own reference, which the caller
	// must release; it may alias the source when the source is already
	// I420.
	ToI420() (*I420Buffer, error)

	// CropAndScale returns a new buffer of size scaleWidth×scaleHeight
	// holding the region [cropX, cropX+cropWidth) × [cropY,
	// cropY+cropHeight) of the source resampled to the target size. The
	// crop rectangle must lie within the source bounds. The source is
	// never mutated and keeps its own reference count; the result must
	// be released independently.
	CropAndScale(cropX, cropY, cropWidth, cropHeight, scaleWidth, scaleHeight int) (Buffer, error)
}

// I420Size returns the total byte size of an I420 frame of the given
// dimensions with tight strides. Chroma planes are half resolution in
// both directions, rounded up for odd sizes.
func I420Size(width, height int) int {
	return width*height + 2*chromaSize(width)*chromaSize(height)
}

// chromaSize halves a luma dimension, rounding up.
func chromaSize(n int) int {
	return (n + 1) / 2
}

// checkCropRegion validates CropAndScale arguments against the source
// size. Violations are caller contract errors, reported synchronously
// with no partial result.
func checkCropRegion(width, height, cropX, cropY, cropWidth, cropHeight, scaleWidth, scaleHeight int) error {
	if cropX < 0 || cropY < 0 || cropWidth <= 0 || cropHeight <= 0 ||
		cropX+cropWidth > width || cropY+cropHeight > height {
		return fmt.Errorf("crop region %dx%d at (%d,%d) outside %dx%d buffer",
			cropWidth, cropHeight, cropX, cropY, width, height)
	}
	if scaleWidth <= 0 || scaleHeight <= 0 {
		return fmt.Errorf("invalid scale target %dx%d", scaleWidth, scaleHeight)
	}
	return nil
}
