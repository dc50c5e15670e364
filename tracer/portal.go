package tracer

import (
	"github.com/achilleasa/polaris-gbuf/scene"
	"github.com/achilleasa/polaris-gbuf/types"
)

// PortalTransform is the rigid input to output transform of portal surfaces.
// Points are transformed relative to InputPosition.
type PortalTransform struct {
	Rotation      types.Mat3
	Translation   types.Vec3
	InputPosition types.Vec3
}

// Build the transform of a scene portal.
func NewPortalTransform(p scene.Portal) PortalTransform {
	return PortalTransform{
		Rotation:      p.Rotation.Normalize().Mat3(),
		Translation:   p.Translation,
		InputPosition: p.InputPosition,
	}
}

// Transform a direction.
func (pt PortalTransform) Dir(d types.Vec3) types.Vec3 {
	return pt.Rotation.Mul3x1(d)
}

// Transform a position.
func (pt PortalTransform) Point(p types.Vec3) types.Vec3 {
	return pt.Rotation.Mul3x1(p.Sub(pt.InputPosition)).Add(pt.Translation).Add(pt.InputPosition)
}

// Get the output to input transform.
func (pt PortalTransform) Inverse() PortalTransform {
	inv := pt.Rotation.Transpose()
	return PortalTransform{
		Rotation:      inv,
		Translation:   inv.Mul3x1(pt.Translation).Neg(),
		InputPosition: pt.InputPosition,
	}
}
