package media

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// PatternType defines the type of test pattern to generate.
type PatternType int

const (
	PatternColorBars    PatternType = iota // SMPTE color bars
	PatternGradient                        // Horizontal gradient
	PatternCheckerboard                    // Checkerboard pattern
	PatternSolidColor                      // Solid color
	PatternNoise                           // Random noise
	PatternMovingBox                       // Moving box (animated)
)

func (p PatternType) String() string {
	switch p {
	case PatternColorBars:
		return "ColorBars"
	case PatternGradient:
		return "Gradient"
	case PatternCheckerboard:
		return "Checkerboard"
	case PatternSolidColor:
		return "SolidColor"
	case PatternNoise:
		return "Noise"
	case PatternMovingBox:
		return "MovingBox"
	default:
		return "Unknown"
	}
}

// TestPatternConfig configures a test pattern source.
type TestPatternConfig struct {
	Width    int         // Frame width (default: 1280)
	Height   int         // Frame height (default: 720)
	FPS      int         // Frames per second (default: 30)
	Pattern  PatternType // Pattern type (default: ColorBars)
	Animated bool        // Enable animation for static patterns (MovingBox/Noise always animate)
	Rotation int         // Display rotation tagged onto emitted frames, multiple of 90

	// For SolidColor pattern
	SolidR, SolidG, SolidB uint8

	// For Checkerboard pattern
	CheckerSize int // Size of each checker square (default: 32)
}

// DefaultTestPatternConfig returns a default test pattern configuration.
func DefaultTestPatternConfig() TestPatternConfig {
	return TestPatternConfig{
		Width:       1280,
		Height:      720,
		FPS:         30,
		Pattern:     PatternColorBars,
		Animated:    false,
		CheckerSize: 32,
	}
}

// TestPatternSource generates synthetic video frames with test patterns.
// Frames come out of a BufferPool, wrapped as reference-counted I420
// buffers, and are pushed to the configured sink with borrowed-frame
// semantics: the source releases its reference after OnFrame returns.
// Static patterns render once and every emitted frame shares the same
// buffer; animated patterns repaint pooled storage on every tick, so
// the storage recycles as soon as every sink is done with it.
type TestPatternSource struct {
	config TestPatternConfig
	pool   *BufferPool

	// Frame timing
	frameDuration time.Duration
	frameCount    uint64
	startTime     time.Time

	// State
	running atomic.Bool
	cancel  context.CancelFunc
	doneCh  chan struct{}

	// Rendered once and shared across frames when the pattern is static.
	// Touched only by the generator goroutine and by Stop after it exits.
	staticBuf *I420Buffer

	// Random state for noise pattern
	rngState uint64

	mu   sync.RWMutex
	sink VideoSink
}

// NewTestPatternSource creates a new test pattern video source.
func NewTestPatternSource(config TestPatternConfig) *TestPatternSource {
	// Apply defaults
	if config.Width <= 0 {
		config.Width = 1280
	}
	if config.Height <= 0 {
		config.Height = 720
	}
	if config.FPS <= 0 {
		config.FPS = 30
	}
	if config.CheckerSize <= 0 {
		config.CheckerSize = 32
	}

	return &TestPatternSource{
		config:        config,
		pool:          NewBufferPool(config.Width, config.Height),
		frameDuration: time.Second / time.Duration(config.FPS),
		rngState:      uint64(time.Now().UnixNano()),
	}
}

// SetSink directs emitted frames to sink. Frames produced while no sink
// is set are generated and recycled without delivery.
func (s *TestPatternSource) SetSink(sink VideoSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

// Config returns the source configuration after default backfill.
func (s *TestPatternSource) Config() TestPatternConfig {
	return s.config
}

// Start begins generating frames until ctx is canceled or Stop is
// called.
func (s *TestPatternSource) Start(ctx context.Context) error {
	if s.running.Load() {
		return fmt.Errorf("source already running")
	}
	if s.config.Rotation%90 != 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidRotation, s.config.Rotation)
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.doneCh = make(chan struct{})
	s.running.Store(true)
	s.startTime = time.Now()
	s.frameCount = 0

	go s.generateLoop(ctx)

	return nil
}

// Stop stops generating frames and waits for the goroutine to exit.
func (s *TestPatternSource) Stop() error {
	if !s.running.Load() {
		return nil
	}

	s.running.Store(false)
	if s.cancel != nil {
		s.cancel()
	}
	if s.doneCh != nil {
		<-s.doneCh
	}

	if s.staticBuf != nil {
		s.staticBuf.Release()
		s.staticBuf = nil
	}

	return nil
}

func (s *TestPatternSource) generateLoop(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.frameDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.frameCount++
			s.emitFrame(s.frameCount)
		}
	}
}

// emitFrame obtains this tick's buffer and pushes it as a borrowed frame.
func (s *TestPatternSource) emitFrame(frameNum uint64) {
	buf := s.frameBuffer(frameNum)
	frame, err := NewFrame(buf, s.config.Rotation, time.Since(s.startTime).Nanoseconds())
	if err != nil {
		buf.Release()
		return
	}

	s.mu.RLock()
	sink := s.sink
	s.mu.RUnlock()

	if sink != nil {
		sink.OnFrame(frame)
	}
	frame.Release()
}

// animated reports whether the frame content changes between ticks.
func (s *TestPatternSource) animated() bool {
	return s.config.Animated ||
		s.config.Pattern == PatternMovingBox ||
		s.config.Pattern == PatternNoise
}

// frameBuffer returns the buffer carrying this tick's pixels. The
// returned reference is owned by the caller and passes to the emitted
// Frame.
func (s *TestPatternSource) frameBuffer(frameNum uint64) *I420Buffer {
	if s.animated() {
		// Pooled planes hold stale pixels, so animated patterns repaint
		// the whole frame on every tick.
		storage := s.pool.Get()
		s.generatePattern(storage, frameNum)
		return storage.Commit()
	}

	// Static patterns render once; the source keeps one reference and
	// every frame shares the buffer under the usual retain/release rules.
	if s.staticBuf == nil {
		storage := s.pool.Get()
		s.generatePattern(storage, frameNum)
		s.staticBuf = storage.Commit()
	}
	s.staticBuf.Retain()
	return s.staticBuf
}

func (s *TestPatternSource) generatePattern(buf *FrameBuffer, frameNum uint64) {
	switch s.config.Pattern {
	case PatternColorBars:
		s.generateColorBars(buf)
	case PatternGradient:
		s.generateGradient(buf)
	case PatternCheckerboard:
		s.generateCheckerboard(buf)
	case PatternSolidColor:
		s.generateSolidColor(buf, s.config.SolidR, s.config.SolidG, s.config.SolidB)
	case PatternNoise:
		s.generateNoise(buf)
	case PatternMovingBox:
		s.generateMovingBox(buf, frameNum)
	default:
		s.generateColorBars(buf)
	}
}

// SMPTE color bars (simplified 8-bar pattern)
var colorBarsRGB = [][3]uint8{
	{192, 192, 192}, // White (75%)
	{192, 192, 0},   // Yellow
	{0, 192, 192},   // Cyan
	{0, 192, 0},     // Green
	{192, 0, 192},   // Magenta
	{192, 0, 0},     // Red
	{0, 0, 192},     // Blue
	{16, 16, 16},    // Black
}

func (s *TestPatternSource) generateColorBars(buf *FrameBuffer) {
	w, h := s.config.Width, s.config.Height
	barWidth := w / 8
	if barWidth == 0 {
		barWidth = 1
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			barIdx := x / barWidth
			if barIdx >= 8 {
				barIdx = 7
			}

			rgb := colorBarsRGB[barIdx]
			yVal, u, v := rgbToYUV(rgb[0], rgb[1], rgb[2])

			buf.Y[y*buf.strideY+x] = yVal

			// UV planes (subsampled 2x2)
			if x%2 == 0 && y%2 == 0 {
				uvIdx := (y/2)*buf.strideU + x/2
				buf.U[uvIdx] = u
				buf.V[uvIdx] = v
			}
		}
	}
}

func (s *TestPatternSource) generateGradient(buf *FrameBuffer) {
	w, h := s.config.Width, s.config.Height

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// Horizontal gradient from black to white
			buf.Y[y*buf.strideY+x] = uint8((x * 255) / w)

			if x%2 == 0 && y%2 == 0 {
				uvIdx := (y/2)*buf.strideU + x/2
				buf.U[uvIdx] = 128 // Neutral
				buf.V[uvIdx] = 128
			}
		}
	}
}

func (s *TestPatternSource) generateCheckerboard(buf *FrameBuffer) {
	w, h := s.config.Width, s.config.Height
	size := s.config.CheckerSize

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			isWhite := ((x/size)+(y/size))%2 == 0
			var yVal uint8
			if isWhite {
				yVal = 235
			} else {
				yVal = 16
			}

			buf.Y[y*buf.strideY+x] = yVal

			if x%2 == 0 && y%2 == 0 {
				uvIdx := (y/2)*buf.strideU + x/2
				buf.U[uvIdx] = 128
				buf.V[uvIdx] = 128
			}
		}
	}
}

func (s *TestPatternSource) generateSolidColor(buf *FrameBuffer, r, g, b uint8) {
	yVal, u, v := rgbToYUV(r, g, b)

	for i := range buf.Y {
		buf.Y[i] = yVal
	}
	for i := range buf.U {
		buf.U[i] = u
		buf.V[i] = v
	}
}

func (s *TestPatternSource) generateNoise(buf *FrameBuffer) {
	// Simple xorshift64 PRNG for fast noise
	for i := range buf.Y {
		s.rngState ^= s.rngState << 13
		s.rngState ^= s.rngState >> 7
		s.rngState ^= s.rngState << 17
		buf.Y[i] = uint8(s.rngState)
	}

	// Neutral chroma for grayscale noise
	for i := range buf.U {
		buf.U[i] = 128
		buf.V[i] = 128
	}
}

func (s *TestPatternSource) generateMovingBox(buf *FrameBuffer, frameNum uint64) {
	w, h := s.config.Width, s.config.Height

	// Clear to black
	for i := range buf.Y {
		buf.Y[i] = 16
	}
	for i := range buf.U {
		buf.U[i] = 128
		buf.V[i] = 128
	}

	// Box position moves in a circle around the frame center.
	boxSize := 100
	centerX := w / 2
	centerY := h / 2
	radius := float64(min(w, h)) / 4

	angle := float64(frameNum) * 0.05 // Radians per frame
	boxX := centerX + int(radius*math.Cos(angle)) - boxSize/2
	boxY := centerY + int(radius*math.Sin(angle)) - boxSize/2

	// Draw white box
	for y := boxY; y < boxY+boxSize && y < h; y++ {
		if y < 0 {
			continue
		}
		for x := boxX; x < boxX+boxSize && x < w; x++ {
			if x < 0 {
				continue
			}
			buf.Y[y*buf.strideY+x] = 235
		}
	}
}

// rgbToYUV converts RGB to YUV (BT.601)
func rgbToYUV(r, g, b uint8) (y, u, v uint8) {
	yf := 16.0 + 65.481*float64(r)/255.0 + 128.553*float64(g)/255.0 + 24.966*float64(b)/255.0
	uf := 128.0 - 37.797*float64(r)/255.0 - 74.203*float64(g)/255.0 + 112.0*float64(b)/255.0
	vf := 128.0 + 112.0*float64(r)/255.0 - 93.786*float64(g)/255.0 - 18.214*float64(b)/255.0

	y = uint8(clamp(yf, 16, 235))
	u = uint8(clamp(uf, 16, 240))
	v = uint8(clamp(vf, 16, 240))
	return
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
