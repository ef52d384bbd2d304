package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-orrery/pkg/logging"
)

// Texture loader defaults.
const (
	DefaultMaxFailures = 3
	DefaultOpenTimeout = 30 * time.Second
)

// ErrTextureUnavailable is returned while the loader refuses requests
// after repeated failures.
var ErrTextureUnavailable = errors.New("texture source unavailable")

// TextureLoader reads body textures from a file system. Consecutive read
// failures open a circuit breaker so a missing or slow asset directory
// does not stall every frame; callers fall back to placeholders meanwhile.
type TextureLoader struct {
	fsys    fs.FS
	breaker *gobreaker.CircuitBreaker
	logger  *logging.Logger
	cache   map[string]image.Image
	mu      sync.Mutex
}

// NewTextureLoader creates a loader over fsys. The breaker opens after
// maxFailures consecutive failures and retries after openTimeout.
func NewTextureLoader(fsys fs.FS, logger *logging.Logger, maxFailures uint32, openTimeout time.Duration) *TextureLoader {
	if logger == nil {
		logger = logging.Discard()
	}
	if maxFailures == 0 {
		maxFailures = DefaultMaxFailures
	}
	if openTimeout <= 0 {
		openTimeout = DefaultOpenTimeout
	}

	settings := gobreaker.Settings{
		Name:        "orrery-textures",
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info(context.Background(), "circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &TextureLoader{
		fsys:    fsys,
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
		cache:   make(map[string]image.Image),
	}
}

// Load decodes the named PNG or JPEG texture. Decoded images are cached.
func (l *TextureLoader) Load(ctx context.Context, name string) (image.Image, error) {
	l.mu.Lock()
	img, ok := l.cache[name]
	l.mu.Unlock()
	if ok {
		return img, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := l.breaker.Execute(func() (interface{}, error) {
		return l.decode(name)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrTextureUnavailable, err)
		}
		l.logger.Warn(ctx, "texture load failed", "texture", name, "error", err.Error())
		return nil, logging.WrapError(err, "load texture %s", name)
	}

	img = res.(image.Image)
	l.mu.Lock()
	l.cache[name] = img
	l.mu.Unlock()
	return img, nil
}

func (l *TextureLoader) decode(name string) (image.Image, error) {
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// LoadOrPlaceholder returns the texture or, if it cannot be loaded, a disc
// of size pixels in the named color.
func (l *TextureLoader) LoadOrPlaceholder(ctx context.Context, name, colorName string, size int) image.Image {
	if name != "" {
		if img, err := l.Load(ctx, name); err == nil {
			return img
		}
	}
	return Disc(size, NamedColor(colorName))
}

// State reports the breaker state.
func (l *TextureLoader) State() gobreaker.State {
	return l.breaker.State()
}

// Disc draws a filled circle of diameter size on a transparent square.
func Disc(size int, c color.Color) *image.RGBA {
	if size < 1 {
		size = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)

	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, c)
			}
		}
	}
	return img
}

var namedColors = map[string]color.RGBA{
	"aqua":    {0x00, 0xff, 0xff, 0xff},
	"cyan":    {0x00, 0xff, 0xff, 0xff},
	"brown":   {0xa5, 0x2a, 0x2a, 0xff},
	"crimson": {0xdc, 0x14, 0x3c, 0xff},
	"fuchsia": {0xff, 0x00, 0xff, 0xff},
	"gold":    {0xff, 0xd7, 0x00, 0xff},
	"green":   {0x00, 0x80, 0x00, 0xff},
	"grey":    {0x80, 0x80, 0x80, 0xff},
	"gray":    {0x80, 0x80, 0x80, 0xff},
	"lime":    {0x00, 0xff, 0x00, 0xff},
	"maroon":  {0x80, 0x00, 0x00, 0xff},
	"orange":  {0xff, 0xa5, 0x00, 0xff},
	"purple":  {0x80, 0x00, 0x80, 0xff},
	"red":     {0xff, 0x00, 0x00, 0xff},
	"teal":    {0x00, 0x80, 0x80, 0xff},
	"white":   {0xff, 0xff, 0xff, 0xff},
	"yellow":  {0xff, 0xff, 0x00, 0xff},
}

// NamedColor resolves a CSS color name or #rrggbb value. Unknown values
// are white.
func NamedColor(name string) color.RGBA {
	name = strings.ToLower(strings.TrimSpace(name))
	if c, ok := namedColors[name]; ok {
		return c
	}
	if len(name) == 7 && name[0] == '#' {
		if v, err := strconv.ParseUint(name[1:], 16, 32); err == nil {
			return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}
		}
	}
	return namedColors["white"]
}
