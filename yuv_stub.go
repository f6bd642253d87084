//go:build !(darwin || linux) || noyuv

package media

// The pure-Go scale and convert paths are always compiled; these stubs
// make the libyuv fast path report "not loaded" on platforms where the
// purego loader is unavailable or explicitly disabled.

func yuvAccelAvailable() bool { return false }

func yuvI420Scale(srcY []byte, srcStrideY int, srcU []byte, srcStrideU int, srcV []byte, srcStrideV int,
	srcWidth, srcHeight int,
	dstY []byte, dstStrideY int, dstU []byte, dstStrideU int, dstV []byte, dstStrideV int,
	dstWidth, dstHeight int) bool {
	return false
}

func yuvNV12ToI420(srcY []byte, srcStrideY int, srcUV []byte, srcStrideUV int,
	dstY []byte, dstStrideY int, dstU []byte, dstStrideU int, dstV []byte, dstStrideV int,
	width, height int) bool {
	return false
}
