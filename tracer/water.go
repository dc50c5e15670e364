package tracer

import (
	"github.com/achilleasa/polaris-gbuf/optics"
	"github.com/achilleasa/polaris-gbuf/types"
)

// Perturb a geometric normal (facing the ray) with three octaves of the
// animated water normal map. Flow direction follows gravity on vertical
// surfaces. Lookups are sharper once the path crossed a portal.
func (p *FrameParams) waterNormal(cone optics.RayCone, rayDir, normalGeom, position types.Vec3, wasPortal bool) types.Vec3 {
	w := &p.Water
	basis := optics.ONB(normalGeom)
	baseUV := types.Vec2{position.Dot(basis.Col(0)), position.Dot(basis.Col(1))}

	verticality := 1 - types.Abs(normalGeom.Dot(p.WorldUp))
	flowVertical := types.Vec2{basis.Col(0).Dot(p.WorldUp), basis.Col(1).Dot(p.WorldUp)}.Mul(10)
	flowHorizontal := types.Vec2{1, 1}

	uvScale := 0.05 / w.TextureAreaScale
	flow := types.Vec2{
		types.Mix(flowHorizontal[0], flowVertical[0], verticality),
		types.Mix(flowHorizontal[1], flowVertical[1], verticality),
	}
	speed0 := flow.Mul(uvScale * w.WaveSpeed)
	speed1 := speed0.Mul(-0.9 * types.Mix(1, -0.1, verticality))

	derivU := w.TextureDerivativesMultiplier * 0.5 * uvScale * cone.FootprintOn(rayDir, normalGeom)
	if wasPortal {
		derivU *= 0.1
	}

	sample := func(uv types.Vec2) types.Vec3 {
		n := w.Normals.SampleDerivU(uv, derivU)
		return types.Vec3{n[0]*2 - 1, n[1]*2 - 1, n[2]}
	}

	n0 := sample(baseUV.Mul(uvScale).Add(speed0.Mul(p.Time)))
	n1 := sample(baseUV.Mul(0.8 * uvScale).Add(speed1.Mul(p.Time)))
	n2 := sample(baseUV.Mul(uvScale).Add(speed0.Mul(types.Sin(p.Time * 0.5))).Mul(0.1))

	detail := n0.Mul(0.25).Add(n1.Mul(0.2)).Add(n2.Mul(0.1))
	n := types.Vec3{0, 0, 1}.Add(detail.Mul(w.WaveStrength)).Normalize()
	return basis.Mul3x1(n)
}

func isBackface(normalGeom, rayDir types.Vec3) bool {
	return normalGeom.Dot(rayDir.Neg()) < 0
}

// Get the shading normal for a secondary event.
func (p *FrameParams) shadingNormal(position, normalGeom types.Vec3, cone optics.RayCone, rayDir types.Vec3, isWater, wasPortal bool) types.Vec3 {
	normal := normalGeom
	if isBackface(normalGeom, rayDir) {
		normal = normal.Neg()
	}
	if isWater {
		normal = p.waterNormal(cone, rayDir, normal, position, wasPortal)
	}
	return normal
}
