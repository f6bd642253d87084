package media

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// TextureType identifies how a GPU texture must be sampled.
type TextureType int

const (
	// TextureOES is an external image bound through the
	// OES_EGL_image_external extension; its pixel format is opaque to
	// the sampler. Camera and hardware-decoder output commonly arrives
	// this way.
	TextureOES TextureType = iota
	// TextureRGB is a standard 2D RGB texture.
	TextureRGB
)

func (t TextureType) String() string {
	switch t {
	case TextureOES:
		return "OES"
	case TextureRGB:
		return "RGB"
	default:
		return "Unknown"
	}
}

// GL sampling-target enums. The external target belongs to the
// OES_EGL_image_external extension, which desktop GL bindings do not
// export, so both values are spelled out here.
const (
	glTexture2D          = 0x0DE1
	glTextureExternalOES = 0x8D65
)

// GLTarget returns the GL sampling target a renderer must bind this
// texture kind to, or 0 for an unknown kind.
func (t TextureType) GLTarget() uint32 {
	switch t {
	case TextureOES:
		return glTextureExternalOES
	case TextureRGB:
		return glTexture2D
	default:
		return 0
	}
}

// ErrNoConverter reports ToI420 on a texture buffer constructed without
// a YUVConverter.
var ErrNoConverter = errors.New("media: texture buffer has no YUV converter")

// YUVConverter reads a GPU texture back into CPU planar memory. It is
// the collaborator that owns the GL context, shaders and read-back
// plumbing; implementations must honor the buffer's sampling transform
// and sampling target. Conversion runs synchronously on the calling
// goroutine.
type YUVConverter interface {
	ToI420(b *TextureBuffer) (*I420Buffer, error)
}

// TextureBuffer is a video buffer backed by a single GPU texture. The
// handle is only meaningful inside the GL context that created it, and
// the pixel data is opaque to CPU consumers, so Type reports
// BufferTypeNative and CPU access goes through ToI420.
//
// The transform matrix maps normalized [0,1]² frame coordinates onto
// texture sampling coordinates. It is frame-specific; every sampler
// must apply it.
type TextureBuffer struct {
	*RefCounter

	texType   TextureType
	id        uint32
	width     int
	height    int
	transform mgl32.Mat3
	converter YUVConverter
}

var _ Buffer = (*TextureBuffer)(nil)

// NewTextureBuffer wraps a GPU texture handle with dimensions, a
// sampling transform and an optional converter for CPU read-back.
// release, which may be nil, runs exactly once when the last reference
// is gone; it is where the texture itself gets deleted, on whichever
// goroutine performs the final Release.
func NewTextureBuffer(texType TextureType, id uint32, width, height int,
	transform mgl32.Mat3, converter YUVConverter, release func()) *TextureBuffer {

	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("media: invalid texture dimensions %dx%d", width, height))
	}
	return &TextureBuffer{
		RefCounter: NewRefCounter(release),
		texType:    texType,
		id:         id,
		width:      width,
		height:     height,
		transform:  transform,
		converter:  converter,
	}
}

// Type reports BufferTypeNative: the texture contents are opaque until
// converted.
func (b *TextureBuffer) Type() BufferType { return BufferTypeNative }

// Width returns the frame width in pixels.
func (b *TextureBuffer) Width() int { return b.width }

// Height returns the frame height in pixels.
func (b *TextureBuffer) Height() int { return b.height }

// TextureType reports how the texture must be sampled.
func (b *TextureBuffer) TextureType() TextureType { return b.texType }

// TextureID returns the GL texture handle. It is valid only within the
// owning GL context.
func (b *TextureBuffer) TextureID() uint32 { return b.id }

// TransformMatrix returns the sampling transform from normalized frame
// coordinates to texture coordinates.
func (b *TextureBuffer) TransformMatrix() mgl32.Mat3 { return b.transform }

// ToI420 reads the texture back into planar CPU memory through the
// attached converter. Conversion failures (a lost context, for one)
// propagate wrapped; no partial buffer is returned.
func (b *TextureBuffer) ToI420() (*I420Buffer, error) {
	if b.converter == nil {
		return nil, ErrNoConverter
	}
	out, err := b.converter.ToI420(b)
	if err != nil {
		return nil, fmt.Errorf("convert texture %d to I420: %w", b.id, err)
	}
	return out, nil
}

// CropAndScale moves no pixels: the crop and scale fold into the
// sampling transform of a new TextureBuffer sharing the same texture.
// The new buffer retains the source and releases it when its own count
// reaches zero, so the texture outlives every derived view.
func (b *TextureBuffer) CropAndScale(cropX, cropY, cropWidth, cropHeight, scaleWidth, scaleHeight int) (Buffer, error) {
	if err := checkCropRegion(b.width, b.height, cropX, cropY, cropWidth, cropHeight, scaleWidth, scaleHeight); err != nil {
		return nil, err
	}

	w, h := float32(b.width), float32(b.height)
	transform := b.transform.
		Mul3(mgl32.Translate2D(float32(cropX)/w, float32(cropY)/h)).
		Mul3(mgl32.Scale2D(float32(cropWidth)/w, float32(cropHeight)/h))

	b.Retain()
	return &TextureBuffer{
		RefCounter: NewRefCounter(b.Release),
		texType:    b.texType,
		id:         b.id,
		width:      scaleWidth,
		height:     scaleHeight,
		transform:  transform,
		converter:  b.converter,
	}, nil
}
