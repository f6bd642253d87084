package media

// YUVAccelAvailable reports whether a system libyuv was found and the
// accelerated scale/convert paths are active. Purely informational; the
// pure-Go paths produce the same layouts.
func YUVAccelAvailable() bool {
	return yuvAccelAvailable()
}

// cropAndScaleI420 resamples the crop region of src so that it exactly
// fills dst. Chroma crop offsets round down and chroma extents round up,
// keeping odd crop rectangles inside the half-resolution planes.
func cropAndScaleI420(src, dst *I420Buffer, cropX, cropY, cropWidth, cropHeight int) {
	if yuvI420Scale(
		src.y[cropY*src.strideY+cropX:], src.strideY,
		src.u[(cropY/2)*src.strideU+cropX/2:], src.strideU,
		src.v[(cropY/2)*src.strideV+cropX/2:], src.strideV,
		cropWidth, cropHeight,
		dst.y, dst.strideY,
		dst.u, dst.strideU,
		dst.v, dst.strideV,
		dst.width, dst.height,
	) {
		return
	}

	scalePlane(src.y, src.strideY, cropX, cropY, cropWidth, cropHeight,
		dst.y, dst.strideY, dst.width, dst.height, 1)
	scalePlane(src.u, src.strideU, cropX/2, cropY/2, chromaSize(cropWidth), chromaSize(cropHeight),
		dst.u, dst.strideU, chromaSize(dst.width), chromaSize(dst.height), 1)
	scalePlane(src.v, src.strideV, cropX/2, cropY/2, chromaSize(cropWidth), chromaSize(cropHeight),
		dst.v, dst.strideV, chromaSize(dst.width), chromaSize(dst.height), 1)
}

// scalePlane scales one 8-bit sample plane using bilinear interpolation,
// reading the srcW×srcH region at (srcX, srcY) and writing all of
// dstW×dstH. pixelStride is the byte distance between horizontally
// adjacent samples: 1 for planar data, 2 for the interleaved chroma of a
// semi-planar plane.
func scalePlane(src []byte, srcStride, srcX, srcY, srcW, srcH int,
	dst []byte, dstStride, dstW, dstH, pixelStride int) {

	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return
	}

	// Fixed-point scaling factors (16.16)
	xRatio := (srcW << 16) / dstW
	yRatio := (srcH << 16) / dstH

	for y := 0; y < dstH; y++ {
		// Source Y coordinate in fixed-point
		srcYFP := y * yRatio
		srcYInt := srcYFP >> 16
		srcYFrac := srcYFP & 0xFFFF

		// Clamp to valid range
		y0 := srcYInt + srcY
		y1 := y0 + 1
		if y1 >= srcY+srcH {
			y1 = y0
		}

		for x := 0; x < dstW; x++ {
			// Source X coordinate in fixed-point
			srcXFP := x * xRatio
			srcXInt := srcXFP >> 16
			srcXFrac := srcXFP & 0xFFFF

			// Clamp to valid range
			x0 := srcXInt + srcX
			x1 := x0 + 1
			if x1 >= srcX+srcW {
				x1 = x0
			}

			// Get four surrounding pixels
			p00 := int(src[y0*srcStride+x0*pixelStride])
			p10 := int(src[y0*srcStride+x1*pixelStride])
			p01 := int(src[y1*srcStride+x0*pixelStride])
			p11 := int(src[y1*srcStride+x1*pixelStride])

			// Bilinear interpolation
			xWeight := srcXFrac
			yWeight := srcYFrac

			// Interpolate horizontally
			top := (p00*(0x10000-xWeight) + p10*xWeight) >> 16
			bottom := (p01*(0x10000-xWeight) + p11*xWeight) >> 16

			// Interpolate vertically
			result := (top*(0x10000-yWeight) + bottom*yWeight) >> 16

			dst[y*dstStride+x*pixelStride] = byte(result)
		}
	}
}
