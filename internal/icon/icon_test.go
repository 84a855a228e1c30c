package icon

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/disintegration/imaging"
)

func TestRingColor(t *testing.T) {
	tests := []struct {
		markerType string
		want       color.NRGBA
	}{
		{"crime", color.NRGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff}},
		{"border", color.NRGBA{R: 0xef, G: 0x44, B: 0x44, A: 0xff}},
		{"tourism", color.NRGBA{R: 0x10, G: 0xb9, B: 0x81, A: 0xff}},
		{"", color.NRGBA{R: 0x7c, G: 0x3a, B: 0xed, A: 0xff}},
		{"something-else", color.NRGBA{R: 0x7c, G: 0x3a, B: 0xed, A: 0xff}},
	}

	for _, tt := range tests {
		if got := RingColor(tt.markerType); got != tt.want {
			t.Errorf("RingColor(%q): expected %+v, got %+v", tt.markerType, tt.want, got)
		}
	}
}

func TestRenderGeometry(t *testing.T) {
	src := imaging.New(100, 100, color.NRGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff})

	data, err := Render(src, "tourism", DefaultSize, DefaultBorderWidth)
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Render did not produce valid PNG: %v", err)
	}

	d := DefaultSize * 2
	if b := decoded.Bounds(); b.Dx() != d || b.Dy() != d {
		t.Errorf("icon canvas: expected %dx%d, got %dx%d", d, d, b.Dx(), b.Dy())
	}

	// Corners lie outside the ring and must be fully transparent; the
	// center must be the photo, fully opaque.
	if _, _, _, a := decoded.At(0, 0).RGBA(); a != 0 {
		t.Error("corner pixel should be transparent")
	}
	if _, _, _, a := decoded.At(d/2, d/2).RGBA(); a == 0 {
		t.Error("center pixel should be opaque")
	}
}

func TestRendererCache(t *testing.T) {
	var fetches int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fetches, 1)
		img := imaging.New(20, 20, color.NRGBA{R: 0xff, A: 0xff})
		if err := png.Encode(w, img); err != nil {
			t.Error(err)
		}
	}))
	defer srv.Close()

	r := NewRenderer(srv.Client())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := r.Icon(ctx, srv.URL+"/photo.png", "crime"); err != nil {
			t.Fatal(err)
		}
	}
	if got := atomic.LoadInt32(&fetches); got != 1 {
		t.Errorf("expected a single fetch for repeated renders, got %d", got)
	}

	// A different ring color is a different cache entry.
	if _, err := r.Icon(ctx, srv.URL+"/photo.png", "tourism"); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&fetches); got != 2 {
		t.Errorf("expected a second fetch for a new ring color, got %d", got)
	}
	if got := r.CacheLen(); got != 2 {
		t.Errorf("expected 2 cached icons, got %d", got)
	}
}

func TestRendererFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	r := NewRenderer(srv.Client())
	if _, err := r.Icon(context.Background(), srv.URL+"/missing.png", "crime"); err == nil {
		t.Error("expected an error for a missing image")
	}
}

func TestDataURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		img := imaging.New(20, 20, color.NRGBA{G: 0xff, A: 0xff})
		if err := png.Encode(w, img); err != nil {
			t.Error(err)
		}
	}))
	defer srv.Close()

	r := NewRenderer(srv.Client())
	url, err := r.DataURL(context.Background(), srv.URL+"/photo.png", "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("unexpected data URL prefix: %.40s", url)
	}
}

var _ image.Image = (*circleMask)(nil)
