// Package icon renders the circular image glyphs shown in place of the
// default map marker: the marker's photo cropped to a circle inside a
// category-colored ring, delivered as PNG.
package icon

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"net/http"
	"sync"

	"github.com/disintegration/imaging"
)

// Default glyph geometry. The canvas is rendered at double size so the icon
// stays crisp on high-DPI screens, matching what the map client expects.
const (
	DefaultSize        = 48
	DefaultBorderWidth = 4
)

// Category ring colors. Crime and border markers share the warning red.
var ringColors = map[string]color.NRGBA{
	"crime":   {R: 0xef, G: 0x44, B: 0x44, A: 0xff}, // #ef4444
	"border":  {R: 0xef, G: 0x44, B: 0x44, A: 0xff},
	"tourism": {R: 0x10, G: 0xb9, B: 0x81, A: 0xff}, // #10b981
}

var defaultRing = color.NRGBA{R: 0x7c, G: 0x3a, B: 0xed, A: 0xff} // #7c3aed

// RingColor maps a marker category to its ring color.
func RingColor(markerType string) color.NRGBA {
	if c, ok := ringColors[markerType]; ok {
		return c
	}
	return defaultRing
}

// Renderer fetches marker images and composes circular icons. Rendered PNGs
// are cached by image URL and ring color, so re-renders after every
// visible-set change hit the cache instead of refetching.
type Renderer struct {
	client      *http.Client
	size        int
	borderWidth int

	mu    sync.Mutex
	cache map[string][]byte
}

// NewRenderer returns a renderer using the given HTTP client for image
// fetches. A nil client falls back to http.DefaultClient.
func NewRenderer(client *http.Client) *Renderer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Renderer{
		client:      client,
		size:        DefaultSize,
		borderWidth: DefaultBorderWidth,
		cache:       make(map[string][]byte),
	}
}

// Icon returns the PNG icon for a marker image URL and category, fetching
// and rendering on a cache miss.
func (r *Renderer) Icon(ctx context.Context, imageURL, markerType string) ([]byte, error) {
	ring := RingColor(markerType)
	key := fmt.Sprintf("%s|%02x%02x%02x", imageURL, ring.R, ring.G, ring.B)

	r.mu.Lock()
	cached, ok := r.cache[key]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	src, err := r.fetch(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	rendered, err := Render(src, markerType, r.size, r.borderWidth)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[key] = rendered
	r.mu.Unlock()
	return rendered, nil
}

// DataURL returns the icon as a data:image/png;base64 URL.
func (r *Renderer) DataURL(ctx context.Context, imageURL, markerType string) (string, error) {
	rendered, err := r.Icon(ctx, imageURL, markerType)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(rendered), nil
}

// CacheLen reports the number of rendered icons held.
func (r *Renderer) CacheLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

func (r *Renderer) fetch(ctx context.Context, imageURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid image URL %q: %w", imageURL, err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return src, nil
}

// Render composes a single circular icon: the source image square-cropped
// and clipped to a circle, inside a ring colored by category. The canvas is
// size*2 pixels on each side.
func Render(src image.Image, markerType string, size, borderWidth int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	if borderWidth <= 0 {
		borderWidth = DefaultBorderWidth
	}

	d := size * 2
	center := image.Point{X: size, Y: size}
	outerRadius := size - 2
	innerRadius := outerRadius - borderWidth*2

	canvas := image.NewNRGBA(image.Rect(0, 0, d, d))

	// Ring first, then the photo clipped to the inner circle over it.
	draw.DrawMask(canvas, canvas.Bounds(), &image.Uniform{C: RingColor(markerType)}, image.Point{},
		&circleMask{center: center, radius: outerRadius}, image.Point{}, draw.Over)

	innerD := innerRadius * 2
	fitted := imaging.Fill(src, innerD, innerD, imaging.Center, imaging.Lanczos)
	innerRect := image.Rect(center.X-innerRadius, center.Y-innerRadius, center.X+innerRadius, center.Y+innerRadius)
	draw.DrawMask(canvas, innerRect, fitted, fitted.Bounds().Min,
		&circleMask{center: center, radius: innerRadius}, innerRect.Min, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode icon: %w", err)
	}
	return buf.Bytes(), nil
}

// circleMask is an alpha mask that is opaque inside the circle and
// transparent outside.
type circleMask struct {
	center image.Point
	radius int
}

func (c *circleMask) ColorModel() color.Model { return color.AlphaModel }

func (c *circleMask) Bounds() image.Rectangle {
	return image.Rect(c.center.X-c.radius, c.center.Y-c.radius, c.center.X+c.radius, c.center.Y+c.radius)
}

func (c *circleMask) At(x, y int) color.Color {
	dx, dy := x-c.center.X, y-c.center.Y
	if dx*dx+dy*dy <= c.radius*c.radius {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}
