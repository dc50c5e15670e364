package scene

import (
	"github.com/achilleasa/polaris-gbuf/optics"
	"github.com/achilleasa/polaris-gbuf/types"
)

// PrimaryQuery carries the camera rays of a pixel to the primary hit decoder.
type PrimaryQuery struct {
	View *FrameView

	Origin types.Vec3
	Dir    types.Vec3

	// Rays through the horizontally and vertically adjacent pixels.
	DirAX types.Vec3
	DirAY types.Vec3

	SpreadAngle float32
}

// SecondaryQuery carries the path state of a pixel to the secondary hit decoders.
type SecondaryQuery struct {
	View *FrameView

	CameraOrigin types.Vec3
	CameraDir    types.Vec3
	CameraDirAX  types.Vec3
	CameraDirAY  types.Vec3

	// The segment that produced the payload.
	RayOrigin types.Vec3
	RayDir    types.Vec3

	// Path length and cone up to RayOrigin.
	FullPathLength float32
	Cone           optics.RayCone

	// Position of the previous vertex as seen through mirrors.
	VirtualPos types.Vec3
}

// Decode the attributes of a primary hit. The payload must contain a hit.
func (w *World) DecodePrimary(p Payload, q PrimaryQuery) Surface {
	prim := w.scene.Primitives[p.PrimitiveIndex]
	pos := q.Origin.Add(q.Dir.Mul(p.T))
	footprint := optics.RayCone{Width: q.SpreadAngle * p.T}.FootprintOn(q.Dir, prim.NormalAt(pos))

	s := w.surface(prim, pos, footprint)
	prevPos := pos.Sub(prim.Motion)
	s.MotionCurToPrev = q.View.Motion(pos, prevPos)
	s.MotionDepthLinearCurToPrev = q.View.MotionDepthLinear(pos, prevPos)
	s.DepthLinear = p.T
	s.DepthNDC = q.View.DepthNDC(pos)
	s.GradDepth = depthGradient(q.Origin, q.Dir, q.DirAX, q.DirAY, pos, s.NormalGeom)
	s.VirtualPosition = pos
	return s
}

// Decode a hit reached through a refraction or a portal. Motion follows the
// true position of the hit surface.
func (w *World) DecodeRefraction(p Payload, q SecondaryQuery) Surface {
	prim := w.scene.Primitives[p.PrimitiveIndex]
	s := w.secondarySurface(prim, p, q)

	prevPos := s.HitPosition.Sub(prim.Motion)
	s.MotionCurToPrev = q.View.Motion(s.HitPosition, prevPos)
	s.MotionDepthLinearCurToPrev = q.View.MotionDepthLinear(s.HitPosition, prevPos)
	s.VirtualPosition = s.HitPosition
	s.DepthNDC = q.View.DepthNDC(s.HitPosition)
	s.GradDepth = depthGradient(q.CameraOrigin, q.CameraDir, q.CameraDirAX, q.CameraDirAY, s.HitPosition, q.CameraDir)
	return s
}

// Decode a hit reached through a mirror reflection. The hit is reprojected
// through its virtual image which lies behind the mirror, along the ray from
// the camera through the previous virtual position.
func (w *World) DecodeReflection(p Payload, q SecondaryQuery) Surface {
	prim := w.scene.Primitives[p.PrimitiveIndex]
	s := w.secondarySurface(prim, p, q)

	viewDir := q.VirtualPos.Sub(q.CameraOrigin).Normalize()
	virtual := q.VirtualPos.Add(viewDir.Mul(s.RayLen))
	prevVirtual := virtual.Sub(prim.Motion)

	s.MotionCurToPrev = q.View.Motion(virtual, prevVirtual)
	s.MotionDepthLinearCurToPrev = q.View.MotionDepthLinear(virtual, prevVirtual)
	s.VirtualPosition = virtual
	s.DepthNDC = q.View.DepthNDC(virtual)
	s.GradDepth = depthGradient(q.CameraOrigin, q.CameraDir, q.CameraDirAX, q.CameraDirAY, virtual, q.CameraDir)
	return s
}

func (w *World) secondarySurface(prim *Primitive, p Payload, q SecondaryQuery) Surface {
	pos := q.RayOrigin.Add(q.RayDir.Mul(p.T))

	cone := q.Cone
	cone.Propagate(p.T)
	s := w.surface(prim, pos, cone.FootprintOn(q.RayDir, prim.NormalAt(pos)))
	s.RayLen = p.T
	s.DepthLinear = q.FullPathLength + p.T
	return s
}

func (w *World) surface(prim *Primitive, pos types.Vec3, footprint float32) Surface {
	mat := w.scene.Materials[prim.MaterialIndex]
	normalGeom := prim.NormalAt(pos)

	basis := optics.ONB(normalGeom)
	uv := types.Vec2{pos.Dot(basis.Col(0)), pos.Dot(basis.Col(1))}

	return Surface{
		Albedo:                mat.AlbedoAt(uv, footprint),
		ScreenEmission:        mat.Emission,
		Normal:                normalGeom,
		NormalGeom:            normalGeom,
		Metallic:              mat.Metallic,
		Roughness:             mat.Roughness,
		HitPosition:           pos,
		InstCustomIndex:       prim.CustomIndex,
		GeometryInstanceFlags: prim.Flags,
		SectorArrayIndex:      prim.Sector,
	}
}

// Estimate the screen-space depth gradient by intersecting the center ray
// and the rays of the adjacent pixels with the plane through point. All
// three distances are measured against the same plane so secondary hits off
// the camera ray stay comparable.
func depthGradient(origin, dir, dirAX, dirAY, point, normal types.Vec3) types.Vec2 {
	t, ok := planeDistance(origin, dir, point, normal)
	tx, okX := planeDistance(origin, dirAX, point, normal)
	ty, okY := planeDistance(origin, dirAY, point, normal)
	if !ok || !okX || !okY {
		return types.Vec2{}
	}
	return types.Vec2{tx - t, ty - t}
}

func planeDistance(origin, dir, point, normal types.Vec3) (float32, bool) {
	denom := dir.Dot(normal)
	if types.Abs(denom) < 1e-6 {
		return 0, false
	}
	t := point.Sub(origin).Dot(normal) / denom
	return t, t >= 0
}
