// pkg/render/engo/assets.go
package engo

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-orrery/pkg/entity"
	"github.com/opd-ai/go-orrery/pkg/render"
)

// Sprite sizes in texture pixels
const (
	bodyTextureSize = 64
	markerSize      = 2
)

// AssetManager turns body textures and generated markers into drawables.
type AssetManager struct {
	loader  *render.TextureLoader
	convert func(image.Image) common.Drawable

	bodySprites map[string]common.Drawable
	markers     map[color.RGBA]common.Drawable
	craftSprite common.Drawable
}

// NewAssetManager creates an asset manager. A nil loader uses placeholders
// for every body.
func NewAssetManager(loader *render.TextureLoader) *AssetManager {
	return &AssetManager{
		loader:      loader,
		convert:     convertToEngoTexture,
		bodySprites: make(map[string]common.Drawable),
		markers:     make(map[color.RGBA]common.Drawable),
	}
}

// TextureName is the file a body's texture is read from.
func TextureName(b *entity.Body) string {
	return strings.ToLower(strings.ReplaceAll(b.Name, " ", "_")) + ".png"
}

// BodyColor is the color used for a body's placeholder and orbit markers.
func BodyColor(b *entity.Body) string {
	switch {
	case b.OrbitColor != "":
		return b.OrbitColor
	case b.LabelColor != "":
		return b.LabelColor
	default:
		return "white"
	}
}

// BodySprite returns the drawable for a body, loading it on first use.
func (am *AssetManager) BodySprite(ctx context.Context, b *entity.Body) common.Drawable {
	if sprite, ok := am.bodySprites[b.Name]; ok {
		return sprite
	}

	var img image.Image
	if am.loader != nil {
		img = am.loader.LoadOrPlaceholder(ctx, TextureName(b), BodyColor(b), bodyTextureSize)
	} else {
		img = render.Disc(bodyTextureSize, render.NamedColor(BodyColor(b)))
	}

	sprite := am.convert(img)
	am.bodySprites[b.Name] = sprite
	return sprite
}

// Marker returns a small square in the given color, used for orbit, trace,
// path and asteroid points.
func (am *AssetManager) Marker(c color.RGBA) common.Drawable {
	if sprite, ok := am.markers[c]; ok {
		return sprite
	}
	img := createBaseImage(markerSize, markerSize)
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	sprite := am.convert(img)
	am.markers[c] = sprite
	return sprite
}

// CraftSprite returns the spacecraft arrow.
func (am *AssetManager) CraftSprite() common.Drawable {
	if am.craftSprite == nil {
		am.craftSprite = am.createPatternSprite(craftPattern, color.RGBA{255, 255, 255, 255})
	}
	return am.craftSprite
}

var craftPattern = [][]int{
	{0, 0, 0, 1, 1, 0, 0, 0},
	{0, 0, 1, 1, 1, 1, 0, 0},
	{0, 0, 1, 1, 1, 1, 0, 0},
	{0, 1, 1, 1, 1, 1, 1, 0},
	{0, 1, 1, 1, 1, 1, 1, 0},
	{1, 1, 1, 1, 1, 1, 1, 1},
	{1, 1, 0, 1, 1, 0, 1, 1},
	{1, 0, 0, 0, 0, 0, 0, 1},
}

// createPatternSprite creates a sprite from a 2D pattern
func (am *AssetManager) createPatternSprite(pattern [][]int, c color.RGBA) common.Drawable {
	height := len(pattern)
	width := len(pattern[0])
	img := createBaseImage(width, height)
	drawPatternOnImage(img, pattern, c)
	return am.convert(img)
}

// createBaseImage creates a transparent RGBA image with the specified dimensions.
func createBaseImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 0}}, image.Point{}, draw.Src)
	return img
}

// drawPatternOnImage sets every 1 in pattern to c.
func drawPatternOnImage(img *image.RGBA, pattern [][]int, c color.RGBA) {
	bounds := img.Bounds()
	for y, row := range pattern {
		if y >= bounds.Dy() {
			break
		}
		for x, pixel := range row {
			if x >= bounds.Dx() {
				break
			}
			if pixel == 1 {
				img.Set(x, y, c)
			}
		}
	}
}

// convertToEngoTexture uploads an image as an Engo texture. It needs a GL
// context.
func convertToEngoTexture(img image.Image) common.Drawable {
	bounds := img.Bounds()
	nrgbaImg := image.NewNRGBA(bounds)
	draw.Draw(nrgbaImg, bounds, img, bounds.Min, draw.Src)

	texture := common.NewImageObject(nrgbaImg)
	return common.NewTextureSingle(texture)
}
