package glrender

import (
	"fmt"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/video-editor/media"
)

// TexImageConverter converts RGB textures to I420 by reading the texels
// back with GetTexImage and downsampling on the CPU. External OES
// textures are not legal arguments to GetTexImage on desktop GL and
// need a platform-specific converter instead.
//
// ToI420 must run on the goroutine that owns the GL context.
type TexImageConverter struct {
	mu   sync.Mutex
	pool *media.BufferPool
}

var _ media.YUVConverter = (*TexImageConverter)(nil)

// ToI420 samples the buffer's region of its texture, honoring the
// sampling transform, into a pooled I420 buffer of the buffer's nominal
// size.
func (c *TexImageConverter) ToI420(b *media.TextureBuffer) (*media.I420Buffer, error) {
	if b.TextureType() != media.TextureRGB {
		return nil, fmt.Errorf("glrender: no read-back path for %v textures", b.TextureType())
	}

	gl.BindTexture(gl.TEXTURE_2D, b.TextureID())

	// The buffer's nominal size is the display size. The backing texture
	// can be larger; the transform picks the region to sample.
	var texW, texH int32
	gl.GetTexLevelParameteriv(gl.TEXTURE_2D, 0, gl.TEXTURE_WIDTH, &texW)
	gl.GetTexLevelParameteriv(gl.TEXTURE_2D, 0, gl.TEXTURE_HEIGHT, &texH)
	if texW <= 0 || texH <= 0 {
		return nil, fmt.Errorf("glrender: texture %d has no storage", b.TextureID())
	}

	rgba := make([]byte, int(texW)*int(texH)*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.GetTexImage(gl.TEXTURE_2D, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))

	storage := c.storageFor(b.Width(), b.Height())
	sampleToI420(rgba, int(texW), int(texH), b.TransformMatrix(), storage)
	return storage.Commit(), nil
}

// storageFor hands out pooled storage, replacing the pool when the
// requested geometry changes.
func (c *TexImageConverter) storageFor(width, height int) *media.FrameBuffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pool == nil || c.pool.Width() != width || c.pool.Height() != height {
		c.pool = media.NewBufferPool(width, height)
	}
	return c.pool.Get()
}

// sampleToI420 nearest-samples the RGBA texels through the transform and
// converts to limited-range BT.601.
func sampleToI420(rgba []byte, texW, texH int, transform mgl32.Mat3, dst *media.FrameBuffer) {
	w, h := dst.Width(), dst.Height()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy := mapTexel(transform, x, y, w, h, texW, texH)
			off := (sy*texW + sx) * 4
			r := int(rgba[off])
			g := int(rgba[off+1])
			b := int(rgba[off+2])

			dst.Y[y*dst.StrideY()+x] = uint8((66*r+129*g+25*b+128)>>8 + 16)

			if x%2 == 0 && y%2 == 0 {
				dst.U[(y/2)*dst.StrideU()+x/2] = uint8((-38*r-74*g+112*b+128)>>8 + 128)
				dst.V[(y/2)*dst.StrideV()+x/2] = uint8((112*r-94*g-18*b+128)>>8 + 128)
			}
		}
	}
}

// mapTexel maps the center of output pixel (x, y) through the sampling
// transform onto a clamped texel coordinate.
func mapTexel(transform mgl32.Mat3, x, y, w, h, texW, texH int) (int, int) {
	p := transform.Mul3x1(mgl32.Vec3{
		(float32(x) + 0.5) / float32(w),
		(float32(y) + 0.5) / float32(h),
		1,
	})
	sx := int(p.X() * float32(texW))
	sy := int(p.Y() * float32(texH))
	return min(max(sx, 0), texW-1), min(max(sy, 0), texH-1)
}
