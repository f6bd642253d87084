// Package media provides reference-counted video frame primitives in Go,
// with optional libyuv acceleration loaded through purego.
//
// Key pieces include:
//   - RefCounted/RefCounter for manual reference counting with
//     reclaim-on-last-release semantics
//   - I420Buffer, NV12Buffer, and TextureBuffer pixel buffer variants
//     behind the Buffer interface
//   - Frame, a buffer plus rotation and capture timestamp
//   - BufferPool and FrameBuffer for allocation-free frame production
//   - VideoSink/FrameBroadcaster for fan-out delivery
//   - TestPatternSource for synthetic frame generation
//
// # Ownership
//
// Every Buffer starts with one reference owned by the caller that created
// or received it. Retain before sharing, Release when done; the last
// Release reclaims the memory, returning pooled planes to their pool or
// firing the release hook passed to the Wrap constructors. Frames handed
// to a VideoSink are borrowed: a sink that keeps the frame past OnFrame
// must Retain it.
//
// # Pixel Access
//
// DataY/DataU/DataV (and DataUV on NV12Buffer) return independent copies
// of the underlying planes, so a returned view never observes later writes
// to the buffer. Producers that need zero-copy access write into pooled
// FrameBuffer storage before Commit, or wrap memory they own with
// WrapI420Buffer/WrapNV12Buffer.
//
// # Native Libraries
//
// Conversion and scaling use libyuv when it can be loaded at runtime.
// Set MEDIA_YUV_LIB_PATH to the library file, or MEDIA_SDK_LIB_PATH to
// the directory holding it. The package uses purego (CGO_ENABLED=0);
// when no library is found, a pure Go bilinear path handles everything.
//
// # Build Tags
//
//   - noyuv: disable libyuv loading, always use the pure Go path
package media
