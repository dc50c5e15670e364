// Package texture provides normal map samplers with derivative based level
// of detail selection.
package texture

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/achilleasa/polaris-gbuf/asset"
	"github.com/achilleasa/polaris-gbuf/types"
	"golang.org/x/image/draw"
)

// A Sampler returns the texel value at uv. The derivU argument is the texture
// space footprint of the lookup and selects the level of detail.
type Sampler interface {
	SampleDerivU(uv types.Vec2, derivU float32) types.Vec3
}

type level struct {
	width, height int
	data          []types.Vec3
}

// A Texture is an RGB image with a precomputed mip chain. Lookups wrap in
// both directions.
type Texture struct {
	Width  uint32
	Height uint32

	levels []level
}

// Create a texture from an image, generating all mip levels down to 1x1.
func New(img image.Image) (*Texture, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("texture: invalid image dimensions %dx%d", b.Dx(), b.Dy())
	}

	tex := &Texture{
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
	}

	src := image.NewNRGBA64(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(src, src.Bounds(), img, b.Min, draw.Src)
	tex.levels = append(tex.levels, toLevel(src))

	for w, h := src.Bounds().Dx(), src.Bounds().Dy(); w > 1 || h > 1; {
		w, h = maxInt(w/2, 1), maxInt(h/2, 1)
		dst := image.NewNRGBA64(image.Rect(0, 0, w, h))
		draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		tex.levels = append(tex.levels, toLevel(dst))
		src = dst
	}

	return tex, nil
}

// Load a PNG encoded texture from a resource.
func Load(res *asset.Resource) (*Texture, error) {
	img, err := png.Decode(res)
	if err != nil {
		return nil, fmt.Errorf("texture: could not decode %s: %w", res.Path(), err)
	}
	return New(img)
}

// Get the number of mip levels.
func (t *Texture) Levels() int {
	return len(t.levels)
}

// Sample the texture using trilinear filtering.
func (t *Texture) SampleDerivU(uv types.Vec2, derivU float32) types.Vec3 {
	lod := float32(0)
	if footprint := derivU * float32(maxInt(int(t.Width), int(t.Height))); footprint > 1 {
		lod = float32(math.Log2(float64(footprint)))
	}

	maxLod := float32(len(t.levels) - 1)
	if lod >= maxLod {
		return t.levels[len(t.levels)-1].bilinear(uv)
	}

	l0 := int(lod)
	frac := lod - float32(l0)
	c0 := t.levels[l0].bilinear(uv)
	if frac == 0 {
		return c0
	}
	return c0.Mix(t.levels[l0+1].bilinear(uv), frac)
}

func (l *level) texel(x, y int) types.Vec3 {
	x %= l.width
	if x < 0 {
		x += l.width
	}
	y %= l.height
	if y < 0 {
		y += l.height
	}
	return l.data[y*l.width+x]
}

func (l *level) bilinear(uv types.Vec2) types.Vec3 {
	fx := uv[0]*float32(l.width) - 0.5
	fy := uv[1]*float32(l.height) - 0.5
	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	top := l.texel(x0, y0).Mix(l.texel(x0+1, y0), tx)
	bottom := l.texel(x0, y0+1).Mix(l.texel(x0+1, y0+1), tx)
	return top.Mix(bottom, ty)
}

func toLevel(img *image.NRGBA64) level {
	b := img.Bounds()
	l := level{
		width:  b.Dx(),
		height: b.Dy(),
		data:   make([]types.Vec3, b.Dx()*b.Dy()),
	}
	for y := 0; y < l.height; y++ {
		for x := 0; x < l.width; x++ {
			c := img.NRGBA64At(b.Min.X+x, b.Min.Y+y)
			l.data[y*l.width+x] = types.Vec3{
				float32(c.R) / math.MaxUint16,
				float32(c.G) / math.MaxUint16,
				float32(c.B) / math.MaxUint16,
			}
		}
	}
	return l
}

// Encode a unit normal into the color representation used by normal maps.
func EncodeNormal(n types.Vec3) color.NRGBA64 {
	enc := func(f float32) uint16 {
		return uint16(types.Clamp(f*0.5+0.5, 0, 1)*math.MaxUint16 + 0.5)
	}
	return color.NRGBA64{R: enc(n[0]), G: enc(n[1]), B: uint16(types.Clamp(n[2], 0, 1)*math.MaxUint16 + 0.5), A: math.MaxUint16}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
