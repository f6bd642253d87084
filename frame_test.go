package media

import (
	"errors"
	"testing"
)

func TestBufferType_String(t *testing.T) {
	tests := []struct {
		typ  BufferType
		want string
	}{
		{BufferTypeNative, "Native"},
		{BufferTypeI420, "I420"},
		{BufferTypeNV12, "NV12"},
		{BufferType(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("BufferType.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFrameRotatedDimensions(t *testing.T) {
	tests := []struct {
		rotation   int
		wantWidth  int
		wantHeight int
	}{
		{Rotation0, 64, 48},
		{Rotation90, 48, 64},
		{Rotation180, 64, 48},
		{Rotation270, 48, 64},
		{360, 64, 48},
		{-90, 48, 64},
		{-180, 64, 48},
	}
	for _, tt := range tests {
		buf := NewI420Buffer(64, 48)
		f, err := NewFrame(buf, tt.rotation, 0)
		if err != nil {
			t.Fatalf("NewFrame(rotation=%d) error: %v", tt.rotation, err)
		}
		if got := f.RotatedWidth(); got != tt.wantWidth {
			t.Errorf("rotation %d: RotatedWidth() = %d, want %d", tt.rotation, got, tt.wantWidth)
		}
		if got := f.RotatedHeight(); got != tt.wantHeight {
			t.Errorf("rotation %d: RotatedHeight() = %d, want %d", tt.rotation, got, tt.wantHeight)
		}
		f.Release()
	}
}

func TestNewFrameRejectsBadArguments(t *testing.T) {
	t.Run("nil buffer", func(t *testing.T) {
		f, err := NewFrame(nil, Rotation0, 0)
		if !errors.Is(err, ErrNilBuffer) {
			t.Fatalf("NewFrame(nil, ...) error = %v, want ErrNilBuffer", err)
		}
		if f != nil {
			t.Error("NewFrame returned a partial frame alongside an error")
		}
	})

	for _, rotation := range []int{45, 1, 91, -45} {
		buf := NewI420Buffer(4, 4)
		f, err := NewFrame(buf, rotation, 0)
		if !errors.Is(err, ErrInvalidRotation) {
			t.Fatalf("NewFrame(rotation=%d) error = %v, want ErrInvalidRotation", rotation, err)
		}
		if f != nil {
			t.Errorf("NewFrame(rotation=%d) returned a partial frame", rotation)
		}
		// The failed constructor took no reference.
		buf.Release()
	}
}

func TestFrameAccessors(t *testing.T) {
	buf := NewI420Buffer(16, 8)
	f, err := NewFrame(buf, Rotation180, 1234567890)
	if err != nil {
		t.Fatalf("NewFrame error: %v", err)
	}
	defer f.Release()

	if got := f.Buffer(); got != Buffer(buf) {
		t.Error("Buffer() did not return the wrapped buffer")
	}
	if got := f.Rotation(); got != Rotation180 {
		t.Errorf("Rotation() = %d, want %d", got, Rotation180)
	}
	if got := f.TimestampNs(); got != 1234567890 {
		t.Errorf("TimestampNs() = %d, want 1234567890", got)
	}
}

func TestFrameReleaseDelegatesToBuffer(t *testing.T) {
	released := 0
	size := I420Size(640, 480)
	data := make([]byte, size)
	buf := WrapI420Buffer(640, 480,
		data[:640*480], 640,
		data[640*480:640*480+320*240], 320,
		data[640*480+320*240:], 320,
		func() { released++ })

	f, err := NewFrame(buf, Rotation90, 42)
	if err != nil {
		t.Fatalf("NewFrame error: %v", err)
	}

	if got := f.RotatedWidth(); got != 480 {
		t.Errorf("RotatedWidth() = %d, want 480", got)
	}
	if got := f.RotatedHeight(); got != 640 {
		t.Errorf("RotatedHeight() = %d, want 640", got)
	}

	// A second holder retains through the frame.
	f.Retain()
	f.Release()
	if released != 0 {
		t.Fatal("buffer reclaimed while the frame still held a reference")
	}

	// The sole remaining release reclaims the wrapped planes.
	f.Release()
	if released != 1 {
		t.Fatalf("release hook ran %d times, want 1", released)
	}
}
