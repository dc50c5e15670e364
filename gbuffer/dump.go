package gbuffer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
)

// Encode a channel as a PNG image in regular pixel order. Values are mapped
// to a viewable range; the export is meant for inspection only.
func (fb *Framebuffers) DumpChannel(w io.Writer, c Channel) error {
	if c < 0 || c >= NumChannels {
		return fmt.Errorf("gbuffer: unknown channel %d", c)
	}

	cb := fb.Checkerboard
	im := image.NewRGBA(image.Rect(0, 0, int(cb.Width), int(cb.Height)))
	info := channelInfo[c]

	// Find max depth
	var maxDepth float32 = 1
	if c == Depth {
		for off := 0; off < len(fb.floatPlanes[Depth].Pix); off += 4 {
			if d := fb.floatPlanes[Depth].Pix[off]; d < MaxRayLength && d > maxDepth {
				maxDepth = d
			}
		}
	}

	for y := uint32(0); y < cb.Height; y++ {
		for x := uint32(0); x < cb.Width; x++ {
			regular := Pixel{x, y}
			src := regular
			if !info.FullResolution {
				src = cb.ToCheckerboard(regular)
			}

			var col color.RGBA
			if img := fb.uintPlanes[c]; img != nil {
				col = hashColor(img.At(src))
			} else {
				col = floatColor(c, fb.floatPlanes[c].At(src), maxDepth)
			}
			im.SetRGBA(int(x), int(y), col)
		}
	}

	return png.Encode(w, im)
}

func unorm(v float32) uint8 {
	if v != v || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}

func signedColor(v [4]float32, scale float32) color.RGBA {
	return color.RGBA{unorm(v[0]*scale*0.5 + 0.5), unorm(v[1]*scale*0.5 + 0.5), unorm(v[2]*scale*0.5 + 0.5), 255}
}

func floatColor(c Channel, v [4]float32, maxDepth float32) color.RGBA {
	switch c {
	case Normal, NormalGeom, ViewDirection:
		return signedColor(v, 1)
	case Motion:
		return signedColor([4]float32{v[0], v[1], 0}, 20)
	case TemporalMotion:
		return signedColor([4]float32{v[0], v[1], 0}, 1.0/16)
	case Depth:
		if v[0] >= MaxRayLength {
			return color.RGBA{A: 255}
		}
		d := unorm(1 - v[0]/maxDepth)
		return color.RGBA{d, d, d, 255}
	case TemporalDepth:
		d := unorm(v[0])
		return color.RGBA{d, d, d, 255}
	case SurfacePosition:
		frac := func(f float32) float32 { return f - float32(math.Floor(float64(f))) }
		return color.RGBA{unorm(frac(v[0])), unorm(frac(v[1])), unorm(frac(v[2])), 255}
	case MetallicRoughness:
		return color.RGBA{unorm(v[0]), unorm(v[1]), 0, 255}
	default:
		return color.RGBA{unorm(v[0]), unorm(v[1]), unorm(v[2]), 255}
	}
}

// Map an id to a stable color; all-zero and all-one keys map to black.
func hashColor(v [4]uint32) color.RGBA {
	if v == [4]uint32{} || v == [4]uint32{math.MaxUint32, math.MaxUint32, math.MaxUint32, math.MaxUint32} {
		return color.RGBA{A: 255}
	}
	h := uint32(2166136261)
	for _, word := range v[:2] {
		h = (h ^ word) * 16777619
	}
	return color.RGBA{uint8(h), uint8(h >> 8), uint8(h >> 16), 255}
}
