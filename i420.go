package media

import "fmt"

// I420Buffer is CPU memory holding one frame of 8-bit 4:2:0 planar YUV:
// a full-resolution Y plane followed by half-resolution U and V planes
// (rounded up for odd sizes), each with its own row stride.
//
// The pixel data is immutable once the buffer is constructed. Producers
// that already own plane memory hand it over with WrapI420Buffer instead
// of copying it in; consumers read through DataY/DataU/DataV, which
// return detached copies so that no reader can corrupt the shared bytes
// or observe a pooled buffer being recycled.
type I420Buffer struct {
	*RefCounter

	width, height int

	y, u, v                   []byte
	strideY, strideU, strideV int
}

var _ Buffer = (*I420Buffer)(nil)

// NewI420Buffer allocates a zeroed I420 buffer with tight strides and a
// reference count of one. Dimensions must be positive.
func NewI420Buffer(width, height int) *I420Buffer {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("media: invalid I420 dimensions %dx%d", width, height))
	}
	cw, ch := chromaSize(width), chromaSize(height)
	ySize := width * height
	cSize := cw * ch

	// One allocation backs all three planes.
	data := make([]byte, ySize+2*cSize)
	return &I420Buffer{
		RefCounter: NewRefCounter(nil),
		width:      width,
		height:     height,
		y:          data[:ySize:ySize],
		u:          data[ySize : ySize+cSize : ySize+cSize],
		v:          data[ySize+cSize:],
		strideY:    width,
		strideU:    cw,
		strideV:    cw,
	}
}

// WrapI420Buffer adopts caller-owned plane memory without copying it.
// The caller transfers ownership: the planes must not be written again
// until release runs. release, which may be nil, is called exactly once
// when the reference count reaches zero, and is where the memory goes
// back to its allocator (a pool, a mapped device buffer, a native heap).
//
// Each plane must hold at least stride × rows bytes, where rows is the
// full height for Y and ceil(height/2) for U and V. Undersized planes
// and strides shorter than the logical row width panic.
func WrapI420Buffer(width, height int,
	dataY []byte, strideY int,
	dataU []byte, strideU int,
	dataV []byte, strideV int,
	release func()) *I420Buffer {

	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("media: invalid I420 dimensions %dx%d", width, height))
	}
	cw, ch := chromaSize(width), chromaSize(height)
	checkPlane("Y", dataY, strideY, width, height)
	checkPlane("U", dataU, strideU, cw, ch)
	checkPlane("V", dataV, strideV, cw, ch)

	return &I420Buffer{
		RefCounter: NewRefCounter(release),
		width:      width,
		height:     height,
		y:          dataY,
		u:          dataU,
		v:          dataV,
		strideY:    strideY,
		strideU:    strideU,
		strideV:    strideV,
	}
}

func checkPlane(name string, data []byte, stride, rowWidth, rows int) {
	if stride < rowWidth {
		panic(fmt.Sprintf("media: %s stride %d shorter than row width %d", name, stride, rowWidth))
	}
	if len(data) < stride*rows {
		panic(fmt.Sprintf("media: %s plane holds %d bytes, need %d", name, len(data), stride*rows))
	}
}

// Type reports BufferTypeI420.
func (b *I420Buffer) Type() BufferType { return BufferTypeI420 }

// Width returns the luma plane width in pixels.
func (b *I420Buffer) Width() int { return b.width }

// Height returns the luma plane height in pixels.
func (b *I420Buffer) Height() int { return b.height }

// DataY returns a copy of the Y plane, stride × height bytes. Every call
// returns a fresh slice: writes to a returned slice are never visible
// through the buffer or through any other returned view, and the slice
// stays valid after the buffer is released.
func (b *I420Buffer) DataY() []byte { return copyPlane(b.y, b.strideY, b.height) }

// DataU returns a copy of the U plane, stride × ceil(height/2) bytes,
// with the same independence contract as DataY.
func (b *I420Buffer) DataU() []byte { return copyPlane(b.u, b.strideU, chromaSize(b.height)) }

// DataV returns a copy of the V plane, stride × ceil(height/2) bytes,
// with the same independence contract as DataY.
func (b *I420Buffer) DataV() []byte { return copyPlane(b.v, b.strideV, chromaSize(b.height)) }

// StrideY returns the Y plane's bytes per row.
func (b *I420Buffer) StrideY() int { return b.strideY }

// StrideU returns the U plane's bytes per row.
func (b *I420Buffer) StrideU() int { return b.strideU }

// StrideV returns the V plane's bytes per row.
func (b *I420Buffer) StrideV() int { return b.strideV }

// ToI420 returns the buffer itself under a fresh reference. The data is
// already planar, so nothing is converted or copied; the caller owns the
// returned reference and must release it in addition to any reference it
// already held.
func (b *I420Buffer) ToI420() (*I420Buffer, error) {
	b.Retain()
	return b, nil
}

// CropAndScale resamples the crop region into a newly allocated
// I420Buffer of the target size. The source is unchanged; an identity
// crop and scale still yields an independent buffer.
func (b *I420Buffer) CropAndScale(cropX, cropY, cropWidth, cropHeight, scaleWidth, scaleHeight int) (Buffer, error) {
	if err := checkCropRegion(b.width, b.height, cropX, cropY, cropWidth, cropHeight, scaleWidth, scaleHeight); err != nil {
		return nil, err
	}
	dst := NewI420Buffer(scaleWidth, scaleHeight)
	cropAndScaleI420(b, dst, cropX, cropY, cropWidth, cropHeight)
	return dst, nil
}

func copyPlane(plane []byte, stride, rows int) []byte {
	out := make([]byte, stride*rows)
	copy(out, plane)
	return out
}
