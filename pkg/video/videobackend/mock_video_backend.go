package videobackend

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"
	"time"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"github.com/tauraamui/dragoncast/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const (
	defaultMockWidth, defaultMockHeight = 640, 360
	// rows carry padding past the visible pixels, like most real capture APIs
	mockStridePadding = 64
)

type mockVideoBackend struct{}

func (b *mockVideoBackend) Name() string { return "mock" }

func (b *mockVideoBackend) Connect(ctx context.Context, settings Settings) (Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, xerror.Errorf("connection cancelled: %w", err)
	}

	w, h := settings.Width, settings.Height
	if w <= 0 || h <= 0 {
		w, h = defaultMockWidth, defaultMockHeight
	}

	fontFace, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, xerror.Errorf("unable to load test card font: %w", err)
	}

	return &mockVideoConnection{
		uuid:     uuid.NewString(),
		isOpen:   true,
		width:    w,
		height:   h,
		fontFace: fontFace,
		base:     renderBaseFrameCanvas(w, h),
	}, nil
}

type mockVideoConnection struct {
	uuid     string
	mu       sync.Mutex
	isOpen   bool
	width    int
	height   int
	fontFace *truetype.Font
	base     *image.RGBA
	count    uint64
	inFlight bool
}

func (mvc *mockVideoConnection) UUID() string {
	return mvc.uuid
}

// Acquire renders the test card with the frame count and wall clock
// stamped on it. It never waits, so timeout is unused.
func (mvc *mockVideoConnection) Acquire(timeout time.Duration) (*videoframe.Frame, error) {
	mvc.mu.Lock()
	defer mvc.mu.Unlock()

	if !mvc.isOpen {
		return nil, ErrClosed
	}
	if mvc.inFlight {
		return nil, xerror.New("previous test card frame was not released")
	}

	canvas := cloneImage(mvc.base)
	mvc.count++
	mvc.drawText(canvas, 10, mvc.height/4, "DRAGONCAST_TEST_CARD")
	mvc.drawText(canvas, 10, mvc.height/2, fmt.Sprintf("FRAME %d", mvc.count))
	mvc.drawText(canvas, 10, 3*mvc.height/4, time.Now().Format("15:04:05.000"))

	stride := mvc.width*videoframe.BytesPerPixel + mockStridePadding
	data := toBGRA(canvas, stride)

	mvc.inFlight = true
	frame, err := videoframe.New(data, mvc.width, mvc.height, stride, videoframe.PixelFormatB8G8R8A8UNorm, mvc.release)
	if err != nil {
		mvc.inFlight = false
		return nil, err
	}
	return frame, nil
}

func (mvc *mockVideoConnection) release() {
	mvc.mu.Lock()
	mvc.inFlight = false
	mvc.mu.Unlock()
}

func (mvc *mockVideoConnection) IsOpen() bool {
	mvc.mu.Lock()
	defer mvc.mu.Unlock()
	return mvc.isOpen
}

func (mvc *mockVideoConnection) Close() error {
	mvc.mu.Lock()
	defer mvc.mu.Unlock()
	mvc.isOpen = false
	mvc.base = nil
	return nil
}

func (mvc *mockVideoConnection) drawText(canvas *image.RGBA, x, y int, text string) {
	fontDrawer := &font.Drawer{
		Dst: canvas,
		Src: image.White,
		Face: truetype.NewFace(mvc.fontFace, &truetype.Options{
			Size:    float64(mvc.height) / 10,
			Hinting: font.HintingFull,
		}),
	}
	textBounds, _ := fontDrawer.BoundString(text)
	textHeight := (textBounds.Max.Y - textBounds.Min.Y).Ceil()
	fontDrawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(y + textHeight/2),
	}
	fontDrawer.DrawString(text)
}

func renderBaseFrameCanvas(w, h int) *image.RGBA {
	var hw, hh float64 = float64(w / 2), float64(h / 2)
	r := float64(h) / 2
	θ := 2 * math.Pi / 3
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), float64(h) * 0.75}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), float64(h) * 0.75}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), float64(h) * 0.75}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.SetRGBA(x, y, color.RGBA{
				cr.Brightness(float64(x), float64(y)),
				cg.Brightness(float64(x), float64(y)),
				cb.Brightness(float64(x), float64(y)),
				255,
			})
		}
	}
	return img
}

func cloneImage(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

// toBGRA swaps the canvas into BGRA rows of the given stride. Padding
// bytes stay zero.
func toBGRA(img *image.RGBA, stride int) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, stride*h)
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		dst := out[y*stride : y*stride+w*4]
		for x := 0; x < len(src); x += 4 {
			dst[x], dst[x+1], dst[x+2], dst[x+3] = src[x+2], src[x+1], src[x], src[x+3]
		}
	}
	return out
}

type circle struct {
	X, Y, R float64
}

func (c *circle) Brightness(x, y float64) uint8 {
	var dx, dy float64 = c.X - x, c.Y - y
	d := math.Sqrt(dx*dx+dy*dy) / c.R
	if d > 1 {
		return 0
	}
	return 255
}
