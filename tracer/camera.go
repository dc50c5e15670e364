package tracer

import (
	"github.com/achilleasa/polaris-gbuf/gbuffer"
	"github.com/achilleasa/polaris-gbuf/scene"
	"github.com/achilleasa/polaris-gbuf/types"
)

// cameraRays holds the jittered camera ray of a pixel and the rays through
// its right and bottom neighbors.
type cameraRays struct {
	uv  types.Vec2
	dir types.Vec3
	ax  types.Vec3
	ay  types.Vec3
}

// Get the jittered screen uv of a regular pixel center.
func (p *FrameParams) pixelUV(regular gbuffer.Pixel) types.Vec2 {
	return types.Vec2{
		(float32(regular.X) + 0.5 + p.Jitter[0]) / float32(p.Width),
		(float32(regular.Y) + 0.5 + p.Jitter[1]) / float32(p.Height),
	}
}

// Unproject a screen uv into a normalized world-space ray direction.
func (p *FrameParams) rayDir(uv types.Vec2) types.Vec3 {
	ndc := scene.ScreenToNDC(uv)
	target := p.View.InvProjection.Mul4x1(types.Vec4{ndc[0], ndc[1], 1, 1})

	local := target.Vec3()
	if types.Abs(target[3]) >= 0.001 {
		local = local.Mul(1 / target[3])
	}

	return p.View.InvView.Mul4x1(local.Normalize().Vec4(0)).Vec3()
}

func (p *FrameParams) cameraRays(regular gbuffer.Pixel) cameraRays {
	uv := p.pixelUV(regular)
	return cameraRays{
		uv:  uv,
		dir: p.rayDir(uv),
		ax:  p.rayDir(uv.Add(types.Vec2{1 / float32(p.Width), 0})),
		ay:  p.rayDir(uv.Add(types.Vec2{0, 1 / float32(p.Height)})),
	}
}

// Get the sub-pixel jitter for a frame from the base 2/3 Halton sequence,
// centered on the pixel.
func HaltonJitter(frame uint32) types.Vec2 {
	return types.Vec2{halton(frame+1, 2) - 0.5, halton(frame+1, 3) - 0.5}
}

func halton(index, base uint32) float32 {
	f, r := float32(1), float32(0)
	for index > 0 {
		f /= float32(base)
		r += f * float32(index%base)
		index /= base
	}
	return r
}
