package scene

import (
	"math"

	"github.com/achilleasa/polaris-gbuf/types"
)

// Defines a surface material.
type Material struct {
	Name string

	Albedo    types.Vec3
	Metallic  float32
	Roughness float32

	// Emission visible on screen; stored in the albedo alpha channel.
	Emission float32

	// If CheckerScale > 0 the albedo alternates between Albedo and
	// CheckerAlbedo in world-space squares of size 1/CheckerScale.
	CheckerScale  float32
	CheckerAlbedo types.Vec3
}

// Evaluate the material albedo at a surface point. The footprint is the
// world-space width of the ray cone at the hit; checker squares smaller than
// the footprint fade to their average color.
func (m *Material) AlbedoAt(uv types.Vec2, footprint float32) types.Vec3 {
	if m.CheckerScale <= 0 {
		return m.Albedo
	}

	cx := int(math.Floor(float64(uv[0] * m.CheckerScale)))
	cy := int(math.Floor(float64(uv[1] * m.CheckerScale)))
	c := m.Albedo
	if (cx+cy)&1 != 0 {
		c = m.CheckerAlbedo
	}

	avg := m.Albedo.Mix(m.CheckerAlbedo, 0.5)
	w := types.Clamp(footprint*m.CheckerScale, 0, 1)
	return c.Mix(avg, w)
}
