package bridge

import (
	"sync"
	"time"

	"github.com/kinectxr/runtime/internal/pipeline"
)

// mockFrameInterval paces the synthetic source at the sensor's native
// 30Hz, the same cadence a real device delivers frames at.
const mockFrameInterval = 33 * time.Millisecond

// mockSource fills a pipeline.Cache with an animated RGB/depth pattern
// instead of reading from real hardware. Used when the bridge server is
// started with no Kinect attached.
type mockSource struct {
	cache  *pipeline.Cache
	width  int
	height int

	rgb   []byte
	depth []uint16

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newMockSource(cache *pipeline.Cache) *mockSource {
	width, height := cache.Dimensions()
	return &mockSource{
		cache:  cache,
		width:  width,
		height: height,
		rgb:    make([]byte, width*height*3),
		depth:  make([]uint16, width*height),
	}
}

// Start launches the generator goroutine. Safe to call once per
// mockSource; callers that need to restart generation should construct
// a new mockSource.
func (m *mockSource) Start() {
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	go m.run(m.stop, m.done)
}

// Stop halts the generator goroutine and waits for it to exit.
func (m *mockSource) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
	<-m.done
}

func (m *mockSource) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(mockFrameInterval)
	defer ticker.Stop()

	var frame uint32
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			m.renderRGB(frame)
			m.renderDepth(frame)
			m.cache.WriteRGB(m.rgb, frame)
			m.cache.WriteDepth(m.depth, frame)
			frame++
		}
	}
}

// renderRGB paints a diagonal scrolling stripe pattern, distinct per
// channel so a viewer can tell the channels apart and see motion.
func (m *mockSource) renderRGB(frame uint32) {
	shift := int(frame)
	for y := 0; y < m.height; y++ {
		row := y * m.width * 3
		for x := 0; x < m.width; x++ {
			i := row + x*3
			m.rgb[i+0] = byte(x + shift)
			m.rgb[i+1] = byte(y + shift*2)
			m.rgb[i+2] = byte(shift)
		}
	}
}

// renderDepth sweeps a bounded sawtooth across the frame so depth
// consumers see a value that visibly changes every tick. Real depth
// values top out at 11 bits; this keeps the synthetic data plausible.
func (m *mockSource) renderDepth(frame uint32) {
	shift := int(frame) * 4
	for y := 0; y < m.height; y++ {
		row := y * m.width
		for x := 0; x < m.width; x++ {
			m.depth[row+x] = uint16((x + y + shift) % 2048)
		}
	}
}
