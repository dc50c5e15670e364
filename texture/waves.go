package texture

import (
	"image"

	"github.com/achilleasa/polaris-gbuf/types"
)

type wave struct {
	dir       types.Vec2
	freq      float32
	amplitude float32
}

// Waves is a procedural, tileable wave normal map. Its output uses the same
// encoding as a normal map texture: xy in [0, 1] and z in [0, 1].
type Waves struct {
	waves []wave
}

// Create the default wave normal map.
func NewWaves() *Waves {
	return &Waves{
		waves: []wave{
			{types.Vec2{1, 0}, 1, 0.30},
			{types.Vec2{0, 1}, 2, 0.20},
			{types.Vec2{1, 1}, 3, 0.12},
			{types.Vec2{1, -2}, 5, 0.08},
			{types.Vec2{-3, 1}, 8, 0.05},
		},
	}
}

// Sample the wave normals. Octaves whose period is smaller than the lookup
// footprint are faded out.
func (w *Waves) SampleDerivU(uv types.Vec2, derivU float32) types.Vec3 {
	const twoPi = 2 * 3.14159265358979

	var dx, dy float32
	for _, wv := range w.waves {
		fade := 1 / (1 + (derivU*wv.freq)*(derivU*wv.freq)*16)
		phase := twoPi * wv.freq * uv.Dot(wv.dir)
		d := wv.amplitude * fade * types.Sin(phase+twoPi/4)
		dx += d * wv.dir[0]
		dy += d * wv.dir[1]
	}

	n := types.Vec3{-dx, -dy, 1}.Normalize()
	return types.Vec3{n[0]*0.5 + 0.5, n[1]*0.5 + 0.5, n[2]}
}

// Bake the procedural waves into a texture of the given size.
func (w *Waves) Bake(size int) (*Texture, error) {
	img := image.NewNRGBA64(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			uv := types.Vec2{(float32(x) + 0.5) / float32(size), (float32(y) + 0.5) / float32(size)}
			enc := w.SampleDerivU(uv, 0)
			n := types.Vec3{enc[0]*2 - 1, enc[1]*2 - 1, enc[2]}
			img.SetNRGBA64(x, y, EncodeNormal(n))
		}
	}
	return New(img)
}
