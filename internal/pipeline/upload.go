package pipeline

import (
	"log/slog"

	"github.com/kinectxr/runtime/internal/graphics"
	"github.com/kinectxr/runtime/internal/logging"
	"github.com/kinectxr/runtime/pkg/xrtypes"
)

var log = logging.L("pipeline")

// Uploader pushes the latest cached frame into an acquired swapchain
// texture. One Uploader is allocated per session and reused across
// frames; its scratch buffers are sized once at construction so Upload
// never allocates on the hot path.
type Uploader struct {
	width, height int
	bgraScratch   []byte
	rgbScratch    []byte
	depthScratch  []uint16
	depthBytes    []byte
}

// NewUploader allocates scratch buffers sized for width x height frames.
func NewUploader(width, height int) *Uploader {
	return &Uploader{
		width:        width,
		height:       height,
		bgraScratch:  make([]byte, width*height*4),
		rgbScratch:   make([]byte, width*height*3),
		depthScratch: make([]uint16, width*height),
		depthBytes:   make([]byte, width*height*2),
	}
}

// Upload snapshots cache (whichever stream matches format) and uploads
// it into texture via helper. If the cache has no valid data for that
// stream, or the graphics upload fails, the call is a deliberate no-op:
// the texture retains its prior contents (frame repetition / fail
// closed). The cache mutex is never held during the
// helper.Upload call.
func (u *Uploader) Upload(helper *graphics.Helper, texture graphics.Handle, format xrtypes.SwapchainFormat, cache *Cache) {
	switch format {
	case xrtypes.SwapchainFormatColor:
		u.uploadColor(helper, texture, cache)
	case xrtypes.SwapchainFormatDepth:
		u.uploadDepth(helper, texture, cache)
	}
}

func (u *Uploader) uploadColor(helper *graphics.Helper, texture graphics.Handle, cache *Cache) {
	_, valid := cache.SnapshotRGB(u.rgbScratch)
	if !valid {
		return
	}
	RGBToBGRA(u.rgbScratch, u.bgraScratch)
	if err := helper.Upload(texture, 0, 0, u.width, u.height, u.bgraScratch, u.width*4); err != nil {
		log.Warn("color upload failed, frame dropped", slog.String("error", err.Error()))
	}
}

func (u *Uploader) uploadDepth(helper *graphics.Helper, texture graphics.Handle, cache *Cache) {
	_, valid := cache.SnapshotDepth(u.depthScratch)
	if !valid {
		return
	}
	DepthToBytes(u.depthScratch, u.depthBytes)
	if err := helper.Upload(texture, 0, 0, u.width, u.height, u.depthBytes, u.width*2); err != nil {
		log.Warn("depth upload failed, frame dropped", slog.String("error", err.Error()))
	}
}
