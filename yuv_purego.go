//go:build (darwin || linux) && !noyuv

// Optional libyuv acceleration, loaded dynamically at runtime via purego.
//
// Library locations checked (in order):
//   - MEDIA_YUV_LIB_PATH environment variable
//   - MEDIA_SDK_LIB_PATH environment variable (shared with the other FFI
//     bindings)
//   - Next to the executable
//   - build/ under the module root (development)
//   - System library paths
//
// When the library is missing, or a candidate lacks the symbols we need,
// the pure-Go scale and convert paths take over. Results differ only in
// rounding.

package media

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

var (
	libyuvOnce   sync.Once
	libyuvHandle uintptr
	libyuvLoaded bool
)

// libyuv function pointers
var (
	libyuvScalePlane func(src uintptr, srcStride, srcWidth, srcHeight int32,
		dst uintptr, dstStride, dstWidth, dstHeight, filtering int32)
	libyuvNV12ToI420 func(srcY uintptr, srcStrideY int32, srcUV uintptr, srcStrideUV int32,
		dstY uintptr, dstStrideY int32, dstU uintptr, dstStrideU int32, dstV uintptr, dstStrideV int32,
		width, height int32) int32
)

// FilterMode values from libyuv/scale.h.
const (
	yuvFilterNone     = 0
	yuvFilterBilinear = 2
)

// loadLibYUV loads libyuv once and reports whether it is usable.
func loadLibYUV() bool {
	libyuvOnce.Do(func() {
		for _, path := range libyuvPaths() {
			handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
			if err != nil {
				continue
			}
			// Probe before registering: RegisterLibFunc panics on a
			// missing symbol, and a stale or stripped build may lack
			// these.
			if !hasSymbols(handle, "ScalePlane", "NV12ToI420") {
				purego.Dlclose(handle)
				continue
			}
			purego.RegisterLibFunc(&libyuvScalePlane, handle, "ScalePlane")
			purego.RegisterLibFunc(&libyuvNV12ToI420, handle, "NV12ToI420")
			libyuvHandle = handle
			libyuvLoaded = true
			return
		}
	})
	return libyuvLoaded
}

func hasSymbols(handle uintptr, names ...string) bool {
	for _, name := range names {
		if _, err := purego.Dlsym(handle, name); err != nil {
			return false
		}
	}
	return true
}

func libyuvPaths() []string {
	libName := "libyuv.so"
	if runtime.GOOS == "darwin" {
		libName = "libyuv.dylib"
	}

	var paths []string

	// Environment variable overrides
	if envPath := os.Getenv("MEDIA_YUV_LIB_PATH"); envPath != "" {
		paths = append(paths, envPath)
	}
	if envPath := os.Getenv("MEDIA_SDK_LIB_PATH"); envPath != "" {
		paths = append(paths, filepath.Join(envPath, libName))
	}

	// Next to the executable
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), libName))
	}

	// Development build directory
	if root := findModuleRoot(); root != "" {
		paths = append(paths, filepath.Join(root, "build", libName))
	}

	// System paths
	switch runtime.GOOS {
	case "darwin":
		paths = append(paths,
			"libyuv.dylib",
			"/usr/local/lib/libyuv.dylib",
			"/opt/homebrew/lib/libyuv.dylib",
		)
	case "linux":
		paths = append(paths,
			"libyuv.so",
			"libyuv.so.0",
			"/usr/local/lib/libyuv.so",
			"/usr/lib/libyuv.so",
		)
	}

	return paths
}

func yuvAccelAvailable() bool {
	return loadLibYUV()
}

// yuvI420Scale resamples three I420 planes with libyuv's ScalePlane.
// Reports false when the library is not loaded so callers can fall back
// to the pure-Go path. Source slices may be crop offsets into larger
// planes; the strides describe the full parent rows.
func yuvI420Scale(srcY []byte, srcStrideY int, srcU []byte, srcStrideU int, srcV []byte, srcStrideV int,
	srcWidth, srcHeight int,
	dstY []byte, dstStrideY int, dstU []byte, dstStrideU int, dstV []byte, dstStrideV int,
	dstWidth, dstHeight int) bool {

	if !loadLibYUV() {
		return false
	}

	libyuvScalePlane(bytePtr(srcY), int32(srcStrideY), int32(srcWidth), int32(srcHeight),
		bytePtr(dstY), int32(dstStrideY), int32(dstWidth), int32(dstHeight), yuvFilterBilinear)
	libyuvScalePlane(bytePtr(srcU), int32(srcStrideU), int32(chromaSize(srcWidth)), int32(chromaSize(srcHeight)),
		bytePtr(dstU), int32(dstStrideU), int32(chromaSize(dstWidth)), int32(chromaSize(dstHeight)), yuvFilterBilinear)
	libyuvScalePlane(bytePtr(srcV), int32(srcStrideV), int32(chromaSize(srcWidth)), int32(chromaSize(srcHeight)),
		bytePtr(dstV), int32(dstStrideV), int32(chromaSize(dstWidth)), int32(chromaSize(dstHeight)), yuvFilterBilinear)
	return true
}

// yuvNV12ToI420 deinterleaves an NV12 image into I420 planes with libyuv.
// Reports false when the library is not loaded or the call fails.
func yuvNV12ToI420(srcY []byte, srcStrideY int, srcUV []byte, srcStrideUV int,
	dstY []byte, dstStrideY int, dstU []byte, dstStrideU int, dstV []byte, dstStrideV int,
	width, height int) bool {

	if !loadLibYUV() {
		return false
	}

	rc := libyuvNV12ToI420(bytePtr(srcY), int32(srcStrideY), bytePtr(srcUV), int32(srcStrideUV),
		bytePtr(dstY), int32(dstStrideY), bytePtr(dstU), int32(dstStrideU), bytePtr(dstV), int32(dstStrideV),
		int32(width), int32(height))
	return rc == 0
}

func bytePtr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}
