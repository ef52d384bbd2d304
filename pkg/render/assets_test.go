package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"
	"time"

	"github.com/sony/gobreaker"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestTextureLoader_Load(t *testing.T) {
	fsys := fstest.MapFS{
		"earth.png": {Data: pngBytes(t, 8, 4)},
		"bad.png":   {Data: []byte("not an image")},
	}
	l := NewTextureLoader(fsys, nil, 5, time.Minute)

	img, err := l.Load(context.Background(), "earth.png")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("bounds = %v", b)
	}

	delete(fsys, "earth.png")
	if _, err := l.Load(context.Background(), "earth.png"); err != nil {
		t.Errorf("cached texture should not be reloaded: %v", err)
	}

	if _, err := l.Load(context.Background(), "bad.png"); err == nil {
		t.Error("expected decode error")
	}
	if _, err := l.Load(context.Background(), "missing.png"); err == nil {
		t.Error("expected missing file error")
	}
}

func TestTextureLoader_BreakerOpens(t *testing.T) {
	l := NewTextureLoader(fstest.MapFS{}, nil, 2, time.Hour)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := l.Load(ctx, "missing.png"); err == nil || errors.Is(err, ErrTextureUnavailable) {
			t.Fatalf("attempt %d: error = %v, want file error", i, err)
		}
	}
	if l.State() != gobreaker.StateOpen {
		t.Fatalf("State() = %v, want open", l.State())
	}
	if _, err := l.Load(ctx, "missing.png"); !errors.Is(err, ErrTextureUnavailable) {
		t.Errorf("error = %v, want ErrTextureUnavailable", err)
	}
}

func TestTextureLoader_CancelledContext(t *testing.T) {
	l := NewTextureLoader(fstest.MapFS{}, nil, 0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.Load(ctx, "earth.png"); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestTextureLoader_LoadOrPlaceholder(t *testing.T) {
	l := NewTextureLoader(fstest.MapFS{}, nil, 0, 0)
	img := l.LoadOrPlaceholder(context.Background(), "mars.png", "red", 16)

	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Fatalf("placeholder bounds = %v", b)
	}
	if got := color.RGBAModel.Convert(img.At(8, 8)); got != (color.RGBA{0xff, 0, 0, 0xff}) {
		t.Errorf("centre pixel = %v, want red", got)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Errorf("corner pixel alpha = %d, want transparent", a)
	}
}

func TestNamedColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"gold", color.RGBA{0xff, 0xd7, 0x00, 0xff}},
		{" Cyan ", color.RGBA{0x00, 0xff, 0xff, 0xff}},
		{"#102030", color.RGBA{0x10, 0x20, 0x30, 0xff}},
		{"#zzzzzz", color.RGBA{0xff, 0xff, 0xff, 0xff}},
		{"", color.RGBA{0xff, 0xff, 0xff, 0xff}},
	}
	for _, tt := range tests {
		if got := NamedColor(tt.in); got != tt.want {
			t.Errorf("NamedColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDisc_MinimumSize(t *testing.T) {
	if b := Disc(0, color.White).Bounds(); b.Dx() != 1 {
		t.Errorf("Disc(0) width = %d, want 1", b.Dx())
	}
}
