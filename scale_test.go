package media

import "testing"

func TestScalePlaneFlat(t *testing.T) {
	src := make([]byte, 32*32)
	for i := range src {
		src[i] = 100
	}

	tests := []struct {
		name       string
		dstW, dstH int
	}{
		{"downscale", 16, 16},
		{"upscale", 64, 64},
		{"non-uniform", 48, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, tt.dstW*tt.dstH)
			scalePlane(src, 32, 0, 0, 32, 32, dst, tt.dstW, tt.dstW, tt.dstH, 1)
			for i, v := range dst {
				if v != 100 {
					t.Fatalf("dst[%d] = %d, want 100 (flat input must stay flat)", i, v)
				}
			}
		})
	}
}

func TestScalePlaneCropOrigin(t *testing.T) {
	src := make([]byte, 16*16)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			src[y*16+x] = byte(16*y + x)
		}
	}

	// The first output pixel always samples the crop origin exactly.
	dst := make([]byte, 4*4)
	scalePlane(src, 16, 5, 7, 8, 8, dst, 4, 4, 4, 1)
	if want := src[7*16+5]; dst[0] != want {
		t.Errorf("dst[0] = %d, want %d (crop origin)", dst[0], want)
	}
}

func TestScalePlaneGradientMonotonic(t *testing.T) {
	src := make([]byte, 64)
	for x := 0; x < 64; x++ {
		src[x] = byte(x * 4)
	}

	dst := make([]byte, 24)
	scalePlane(src, 64, 0, 0, 64, 1, dst, 24, 24, 1, 1)
	for x := 1; x < 24; x++ {
		if dst[x] < dst[x-1] {
			t.Fatalf("dst[%d] = %d < dst[%d] = %d; gradient must stay monotonic", x, dst[x], x-1, dst[x-1])
		}
	}
}

func TestScalePlaneInterleaved(t *testing.T) {
	// Interleaved UV rows, as in NV12 chroma: U samples even offsets,
	// V samples odd. Scaling the U samples with pixelStride 2 must not
	// touch the V bytes of the destination.
	const srcW, srcH = 8, 8
	src := make([]byte, srcW*2*srcH)
	for i := 0; i < len(src); i += 2 {
		src[i] = 40    // U
		src[i+1] = 200 // V
	}

	const dstW, dstH = 4, 4
	dst := make([]byte, dstW*2*dstH)
	for i := 1; i < len(dst); i += 2 {
		dst[i] = 0xEE
	}

	scalePlane(src, srcW*2, 0, 0, srcW, srcH, dst, dstW*2, dstW, dstH, 2)

	for i := 0; i < len(dst); i += 2 {
		if dst[i] != 40 {
			t.Fatalf("U sample at %d = %d, want 40", i, dst[i])
		}
		if dst[i+1] != 0xEE {
			t.Fatalf("V byte at %d = %d, want untouched 0xEE", i+1, dst[i+1])
		}
	}
}

func TestScalePlaneDegenerateSizes(t *testing.T) {
	src := make([]byte, 16)
	dst := make([]byte, 16)

	// Zero-extent regions must be a no-op rather than a panic.
	scalePlane(src, 4, 0, 0, 0, 4, dst, 4, 4, 4, 1)
	scalePlane(src, 4, 0, 0, 4, 4, dst, 4, 0, 4, 1)

	// 1x1 source to many pixels replicates the single sample.
	src[0] = 77
	scalePlane(src, 4, 0, 0, 1, 1, dst, 4, 4, 4, 1)
	for i := 0; i < 4; i++ {
		if dst[i] != 77 {
			t.Fatalf("dst[%d] = %d, want 77", i, dst[i])
		}
	}
}

func BenchmarkCropAndScale_720pTo360p(b *testing.B) {
	src := NewI420Buffer(1280, 720)
	defer src.Release()
	dst := NewI420Buffer(640, 360)
	defer dst.Release()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cropAndScaleI420(src, dst, 0, 0, 1280, 720)
	}
}

func BenchmarkCropAndScale_Quadrant1080p(b *testing.B) {
	src := NewI420Buffer(1920, 1080)
	defer src.Release()
	dst := NewI420Buffer(960, 540)
	defer dst.Release()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cropAndScaleI420(src, dst, 960, 540, 960, 540)
	}
}
