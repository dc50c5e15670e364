package scene

import (
	"math"

	"github.com/achilleasa/polaris-gbuf/types"
)

const payloadMiss = math.MaxUint32

// Payload is the opaque result of a ray cast.
type Payload struct {
	InstIDAndIndex uint32
	PrimitiveIndex uint32
	T              float32
	Barycentrics   types.Vec2
}

// Create a payload that reports no hit.
func MissPayload() Payload {
	return Payload{InstIDAndIndex: payloadMiss, PrimitiveIndex: payloadMiss}
}

// Returns true if the payload references a hit.
func (p Payload) HasHit() bool {
	return p.InstIDAndIndex != payloadMiss
}

// Get the custom index of the hit instance.
func (p Payload) CustomIndex() uint32 {
	_, ci := UnpackInstanceIDAndCustomIndex(p.InstIDAndIndex)
	return ci
}

// Pack the payload into a visibility buffer key. Misses pack to all ones.
func (p Payload) VisibilityKey() [4]uint32 {
	if !p.HasHit() {
		return [4]uint32{payloadMiss, payloadMiss, payloadMiss, payloadMiss}
	}
	return [4]uint32{
		p.InstIDAndIndex,
		p.PrimitiveIndex,
		math.Float32bits(p.Barycentrics[0]),
		math.Float32bits(p.Barycentrics[1]),
	}
}

// TraceOptions configure a ray cast.
type TraceOptions struct {
	// The custom index and geometry flags of the surface the ray leaves.
	CustomIndex uint32
	GeomFlags   uint32

	// The payload of the surface the ray leaves; planar surfaces are
	// excluded from the query to avoid self intersections.
	Exclude Payload

	// True if the ray was spawned by a refraction.
	Refraction bool
}

// Surface describes a ray/scene intersection and the data needed to
// reproject it to the previous frame.
type Surface struct {
	Albedo         types.Vec3
	ScreenEmission float32
	Normal         types.Vec3
	NormalGeom     types.Vec3
	Metallic       float32
	Roughness      float32
	HitPosition    types.Vec3

	InstCustomIndex       uint32
	GeometryInstanceFlags uint32
	SectorArrayIndex      uint32

	// Screen-space motion (current to previous frame) and linear depth delta.
	MotionCurToPrev            types.Vec2
	MotionDepthLinearCurToPrev float32

	GradDepth   types.Vec2
	DepthLinear float32
	DepthNDC    float32

	// Secondary hits only: length of the last segment and the position of
	// the surface as seen through mirrors from the camera.
	RayLen          float32
	VirtualPosition types.Vec3
}
