package media

import "fmt"

// NV12Buffer is CPU memory holding one frame of 8-bit 4:2:0 semi-planar
// YUV: a full-resolution Y plane and a single half-resolution chroma
// plane with U and V bytes interleaved per sample. Hardware decoders and
// camera pipelines commonly emit this layout.
//
// The same immutability and view rules as I420Buffer apply: the pixel
// data never changes after construction and the Data accessors return
// detached copies.
type NV12Buffer struct {
	*RefCounter

	width, height int

	y, uv             []byte
	strideY, strideUV int
}

var _ Buffer = (*NV12Buffer)(nil)

// NewNV12Buffer allocates a zeroed NV12 buffer with tight strides and a
// reference count of one. Dimensions must be positive.
func NewNV12Buffer(width, height int) *NV12Buffer {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("media: invalid NV12 dimensions %dx%d", width, height))
	}
	ySize := width * height
	strideUV := 2 * chromaSize(width)
	uvSize := strideUV * chromaSize(height)

	data := make([]byte, ySize+uvSize)
	return &NV12Buffer{
		RefCounter: NewRefCounter(nil),
		width:      width,
		height:     height,
		y:          data[:ySize:ySize],
		uv:         data[ySize:],
		strideY:    width,
		strideUV:   strideUV,
	}
}

// WrapNV12Buffer adopts caller-owned Y and interleaved UV memory without
// copying, under the same ownership-transfer contract as WrapI420Buffer.
// The UV plane must hold at least strideUV × ceil(height/2) bytes with
// strideUV ≥ 2 × ceil(width/2).
func WrapNV12Buffer(width, height int,
	dataY []byte, strideY int,
	dataUV []byte, strideUV int,
	release func()) *NV12Buffer {

	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("media: invalid NV12 dimensions %dx%d", width, height))
	}
	checkPlane("Y", dataY, strideY, width, height)
	checkPlane("UV", dataUV, strideUV, 2*chromaSize(width), chromaSize(height))

	return &NV12Buffer{
		RefCounter: NewRefCounter(release),
		width:      width,
		height:     height,
		y:          dataY,
		uv:         dataUV,
		strideY:    strideY,
		strideUV:   strideUV,
	}
}

// Type reports BufferTypeNV12.
func (b *NV12Buffer) Type() BufferType { return BufferTypeNV12 }

// Width returns the luma plane width in pixels.
func (b *NV12Buffer) Width() int { return b.width }

// Height returns the luma plane height in pixels.
func (b *NV12Buffer) Height() int { return b.height }

// DataY returns a copy of the Y plane with the same independence
// contract as I420Buffer.DataY.
func (b *NV12Buffer) DataY() []byte { return copyPlane(b.y, b.strideY, b.height) }

// DataUV returns a copy of the interleaved chroma plane, strideUV ×
// ceil(height/2) bytes.
func (b *NV12Buffer) DataUV() []byte { return copyPlane(b.uv, b.strideUV, chromaSize(b.height)) }

// StrideY returns the Y plane's bytes per row.
func (b *NV12Buffer) StrideY() int { return b.strideY }

// StrideUV returns the chroma plane's bytes per row.
func (b *NV12Buffer) StrideUV() int { return b.strideUV }

// ToI420 deinterleaves the chroma plane into separate U and V planes.
// This is byte repacking, not colorspace math; the result is a fresh
// buffer with its own reference.
func (b *NV12Buffer) ToI420() (*I420Buffer, error) {
	dst := NewI420Buffer(b.width, b.height)
	if yuvNV12ToI420(b.y, b.strideY, b.uv, b.strideUV,
		dst.y, dst.strideY, dst.u, dst.strideU, dst.v, dst.strideV,
		b.width, b.height) {
		return dst, nil
	}
	nv12ToI420(b, dst)
	return dst, nil
}

// CropAndScale resamples the crop region into a newly allocated
// NV12Buffer, keeping the semi-planar layout. The U and V samples of the
// interleaved plane are resampled as two independent half-resolution
// planes with a pixel stride of two.
func (b *NV12Buffer) CropAndScale(cropX, cropY, cropWidth, cropHeight, scaleWidth, scaleHeight int) (Buffer, error) {
	if err := checkCropRegion(b.width, b.height, cropX, cropY, cropWidth, cropHeight, scaleWidth, scaleHeight); err != nil {
		return nil, err
	}
	dst := NewNV12Buffer(scaleWidth, scaleHeight)

	scalePlane(b.y, b.strideY, cropX, cropY, cropWidth, cropHeight,
		dst.y, dst.strideY, dst.width, dst.height, 1)
	scalePlane(b.uv, b.strideUV, cropX/2, cropY/2, chromaSize(cropWidth), chromaSize(cropHeight),
		dst.uv, dst.strideUV, chromaSize(dst.width), chromaSize(dst.height), 2)
	scalePlane(b.uv[1:], b.strideUV, cropX/2, cropY/2, chromaSize(cropWidth), chromaSize(cropHeight),
		dst.uv[1:], dst.strideUV, chromaSize(dst.width), chromaSize(dst.height), 2)
	return dst, nil
}

// nv12ToI420 is the pure-Go deinterleave fallback.
func nv12ToI420(src *NV12Buffer, dst *I420Buffer) {
	for y := 0; y < src.height; y++ {
		copy(dst.y[y*dst.strideY:y*dst.strideY+src.width],
			src.y[y*src.strideY:y*src.strideY+src.width])
	}
	cw, ch := chromaSize(src.width), chromaSize(src.height)
	for y := 0; y < ch; y++ {
		srcRow := src.uv[y*src.strideUV:]
		uRow := dst.u[y*dst.strideU:]
		vRow := dst.v[y*dst.strideV:]
		for x := 0; x < cw; x++ {
			uRow[x] = srcRow[2*x]
			vRow[x] = srcRow[2*x+1]
		}
	}
}
