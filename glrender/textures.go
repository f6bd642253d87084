// Package glrender uploads decoded video frames into OpenGL textures
// and bridges GPU textures back into the reference-counted buffer
// world. Everything that touches GL state must run on the goroutine
// that owns the GL context; hand frames across goroutines with a
// FrameQueue and texture deletions with a DeleteQueue.
package glrender

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/video-editor/media"
)

var uploadedBytes = promauto.NewCounter(prometheus.CounterOpts{
	Name: "media_gl_uploaded_bytes_total",
	Help: "Total bytes uploaded to GPU textures",
})

// PlaneSet is a triplet of single-channel textures holding the Y, U and
// V planes of one video geometry. Chroma textures are half size in both
// dimensions, rounded up for odd frames.
type PlaneSet struct {
	ids    [3]uint32
	width  int
	height int
}

// NewPlaneSet allocates the three plane textures for width x height
// frames. Call on the GL goroutine.
func NewPlaneSet(width, height int) *PlaneSet {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("glrender: invalid plane set dimensions %dx%d", width, height))
	}

	chromaW := (width + 1) / 2
	chromaH := (height + 1) / 2

	p := &PlaneSet{width: width, height: height}
	p.ids[0] = setupPlaneTexture(width, height)
	p.ids[1] = setupPlaneTexture(chromaW, chromaH)
	p.ids[2] = setupPlaneTexture(chromaW, chromaH)
	return p
}

// IDs returns the Y, U and V texture handles in that order.
func (p *PlaneSet) IDs() [3]uint32 { return p.ids }

// Width returns the luma width in pixels.
func (p *PlaneSet) Width() int { return p.width }

// Height returns the luma height in pixels.
func (p *PlaneSet) Height() int { return p.height }

// Upload copies the planes of buf into the three textures. The buffer
// geometry must match the plane set.
func (p *PlaneSet) Upload(buf *media.I420Buffer) error {
	if buf.Width() != p.width || buf.Height() != p.height {
		return fmt.Errorf("glrender: buffer %dx%d does not fit plane set %dx%d",
			buf.Width(), buf.Height(), p.width, p.height)
	}

	chromaW := (p.width + 1) / 2
	chromaH := (p.height + 1) / 2

	sendPlaneToGPU(p.ids[0], 0, p.width, p.height, buf.StrideY(), buf.DataY())
	sendPlaneToGPU(p.ids[1], 1, chromaW, chromaH, buf.StrideU(), buf.DataU())
	sendPlaneToGPU(p.ids[2], 2, chromaW, chromaH, buf.StrideV(), buf.DataV())
	return nil
}

// Delete frees the textures. Call on the GL goroutine; the plane set is
// unusable afterwards.
func (p *PlaneSet) Delete() {
	gl.DeleteTextures(3, &p.ids[0])
	p.ids = [3]uint32{}
}

func setupPlaneTexture(width, height int) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	// Clamp to edge so half-texel sampling at the borders does not wrap.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	buf := make([]uint8, width*height)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RED,
		int32(width),
		int32(height),
		0,
		gl.RED,
		gl.UNSIGNED_BYTE,
		gl.Ptr(&buf[0]),
	)
	return id
}

func sendPlaneToGPU(texID uint32, unit int, w, h, stride int, data []byte) {
	gl.ActiveTexture(uint32(gl.TEXTURE0 + unit))
	gl.BindTexture(gl.TEXTURE_2D, texID)
	// Plane strides rarely match GL's default 4-byte row alignment.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(stride))
	gl.TexSubImage2D(
		gl.TEXTURE_2D,
		0, 0, 0,
		int32(w), int32(h),
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(data),
	)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	uploadedBytes.Add(float64(len(data)))
}

// BindForSampling binds the texture behind b to the given texture unit
// using the sampling target its type dictates.
func BindForSampling(b *media.TextureBuffer, unit int) {
	gl.ActiveTexture(uint32(gl.TEXTURE0 + unit))
	gl.BindTexture(b.TextureType().GLTarget(), b.TextureID())
}
