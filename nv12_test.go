package media

import (
	"bytes"
	"testing"
)

// fillNV12 writes distinct gradients into the Y, U and V samples.
func fillNV12(b *NV12Buffer) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			b.y[y*b.strideY+x] = byte(3*x + y)
		}
	}
	// Even bytes carry U, odd bytes carry V.
	for y := 0; y < chromaSize(b.height); y++ {
		for x := 0; x < chromaSize(b.width); x++ {
			b.uv[y*b.strideUV+2*x] = byte(64 + x + y)
			b.uv[y*b.strideUV+2*x+1] = byte(192 - x - y)
		}
	}
}

func TestNewNV12BufferGeometry(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantStrideUV  int
		wantUVLen     int
	}{
		{"even 8x6", 8, 6, 8, 24},
		{"odd 5x5", 5, 5, 6, 18},
		{"single pixel", 1, 1, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewNV12Buffer(tt.width, tt.height)
			defer b.Release()

			if got := b.Type(); got != BufferTypeNV12 {
				t.Errorf("Type() = %v, want %v", got, BufferTypeNV12)
			}
			if got := b.StrideUV(); got != tt.wantStrideUV {
				t.Errorf("StrideUV() = %d, want %d", got, tt.wantStrideUV)
			}
			if got := len(b.DataUV()); got != tt.wantUVLen {
				t.Errorf("len(DataUV()) = %d, want %d", got, tt.wantUVLen)
			}
			if got := len(b.DataY()); got != tt.width*tt.height {
				t.Errorf("len(DataY()) = %d, want %d", got, tt.width*tt.height)
			}
		})
	}
}

func TestNV12BufferToI420(t *testing.T) {
	b := NewNV12Buffer(6, 4)
	defer b.Release()
	fillNV12(b)

	got, err := b.ToI420()
	if err != nil {
		t.Fatalf("ToI420() error: %v", err)
	}
	defer got.Release()

	if got.Width() != 6 || got.Height() != 4 {
		t.Fatalf("ToI420() size = %dx%d, want 6x4", got.Width(), got.Height())
	}

	// Luma copies through unchanged.
	wantY := b.DataY()
	if !bytes.Equal(got.DataY(), wantY) {
		t.Error("Y plane does not match the source")
	}

	// Chroma deinterleaves: even bytes to U, odd bytes to V.
	gotU, gotV := got.DataU(), got.DataV()
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			wantU := b.uv[y*b.strideUV+2*x]
			wantV := b.uv[y*b.strideUV+2*x+1]
			if u := gotU[y*got.strideU+x]; u != wantU {
				t.Fatalf("U(%d,%d) = %d, want %d", x, y, u, wantU)
			}
			if v := gotV[y*got.strideV+x]; v != wantV {
				t.Fatalf("V(%d,%d) = %d, want %d", x, y, v, wantV)
			}
		}
	}
}

func TestNV12BufferCropAndScaleIdentity(t *testing.T) {
	b := NewNV12Buffer(8, 8)
	defer b.Release()
	fillNV12(b)

	out, err := b.CropAndScale(0, 0, 8, 8, 8, 8)
	if err != nil {
		t.Fatalf("CropAndScale identity error: %v", err)
	}
	defer out.Release()

	got, ok := out.(*NV12Buffer)
	if !ok {
		t.Fatalf("CropAndScale returned %T, want *NV12Buffer", out)
	}
	if got == b {
		t.Error("identity crop/scale aliased the source buffer")
	}
	if !bytes.Equal(got.DataY(), b.DataY()) {
		t.Error("identity crop/scale altered Y bytes")
	}
	if !bytes.Equal(got.DataUV(), b.DataUV()) {
		t.Error("identity crop/scale altered UV bytes")
	}
}

func TestNV12BufferCropAndScaleDownscale(t *testing.T) {
	b := NewNV12Buffer(8, 8)
	defer b.Release()
	fillNV12(b)

	out, err := b.CropAndScale(0, 0, 8, 8, 4, 4)
	if err != nil {
		t.Fatalf("CropAndScale error: %v", err)
	}
	defer out.Release()

	scaled := out.(*NV12Buffer)
	if scaled.Width() != 4 || scaled.Height() != 4 {
		t.Fatalf("size = %dx%d, want 4x4", scaled.Width(), scaled.Height())
	}

	// 2:1 lands on integer sample coordinates for both U and V.
	gotUV := scaled.DataUV()
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			wantU := b.uv[(2*y)*b.strideUV+2*(2*x)]
			wantV := b.uv[(2*y)*b.strideUV+2*(2*x)+1]
			if u := gotUV[y*scaled.strideUV+2*x]; u != wantU {
				t.Fatalf("U(%d,%d) = %d, want %d", x, y, u, wantU)
			}
			if v := gotUV[y*scaled.strideUV+2*x+1]; v != wantV {
				t.Fatalf("V(%d,%d) = %d, want %d", x, y, v, wantV)
			}
		}
	}
}

func TestNV12BufferCropAndScaleErrors(t *testing.T) {
	b := NewNV12Buffer(8, 8)
	defer b.Release()

	if out, err := b.CropAndScale(4, 4, 8, 8, 4, 4); err == nil {
		out.Release()
		t.Fatal("CropAndScale accepted a region past the buffer edge")
	}
	if out, err := b.CropAndScale(0, 0, 8, 8, 0, 4); err == nil {
		out.Release()
		t.Fatal("CropAndScale accepted a zero scale width")
	}
}

func TestWrapNV12Buffer(t *testing.T) {
	released := 0
	y := make([]byte, 8*4)
	uv := make([]byte, 8*2)

	b := WrapNV12Buffer(8, 4, y, 8, uv, 8, func() { released++ })
	if got := b.StrideUV(); got != 8 {
		t.Errorf("StrideUV() = %d, want 8", got)
	}
	b.Release()
	if released != 1 {
		t.Fatalf("release hook ran %d times, want 1", released)
	}
}

func TestWrapNV12BufferValidatesPlanes(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("WrapNV12Buffer accepted an undersized UV plane")
		}
	}()
	WrapNV12Buffer(8, 4, make([]byte, 32), 8, make([]byte, 8), 8, nil)
}
