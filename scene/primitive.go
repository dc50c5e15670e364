package scene

import (
	"math"

	"github.com/achilleasa/polaris-gbuf/types"
)

type PrimitiveType uint32

const (
	QuadPrimitive PrimitiveType = iota
	SpherePrimitive
	BoxPrimitive
	TrianglePrimitive
)

// Defines a scene primitive. Every primitive is also a geometry instance
// with its own flags, custom index and sector.
type Primitive struct {
	Name string

	// The primitive type.
	Type PrimitiveType

	// Quad corner, sphere center, box min corner or first triangle vertex.
	Origin types.Vec3

	// Primitive dimensions. Sphere radius is stored in the first component;
	// boxes store their extents.
	Dimensions types.Vec3

	// Quad and triangle edges starting at Origin.
	Edges [2]types.Vec3

	MaterialIndex uint32

	// Geometry instance flags and custom index.
	Flags       uint32
	CustomIndex uint32

	// Index of the sector containing the primitive.
	Sector uint32

	// Displacement of the primitive since the previous frame.
	Motion types.Vec3
}

// Create new quad primitive spanned by two edges.
func NewQuad(origin, edgeU, edgeV types.Vec3) *Primitive {
	return &Primitive{
		Type:   QuadPrimitive,
		Origin: origin,
		Edges:  [2]types.Vec3{edgeU, edgeV},
	}
}

// Create new sphere primitive.
func NewSphere(origin types.Vec3, radius float32) *Primitive {
	return &Primitive{
		Type:       SpherePrimitive,
		Origin:     origin,
		Dimensions: types.Vec3{radius},
	}
}

// Create new axis aligned box primitive.
func NewBox(min, dims types.Vec3) *Primitive {
	return &Primitive{
		Type:       BoxPrimitive,
		Origin:     min,
		Dimensions: dims,
	}
}

// Create new triangle primitive. Vertices are specified in counter-clockwise order.
func NewTriangle(vertices [3]types.Vec3) *Primitive {
	return &Primitive{
		Type:   TrianglePrimitive,
		Origin: vertices[0],
		Edges:  [2]types.Vec3{vertices[1].Sub(vertices[0]), vertices[2].Sub(vertices[0])},
	}
}

// Returns true for single sided flat primitives.
func (p *Primitive) IsPlanar() bool {
	return p.Type == QuadPrimitive || p.Type == TrianglePrimitive
}

// Get the primitive bounding box.
func (p *Primitive) Bounds() (min, max types.Vec3) {
	switch p.Type {
	case SpherePrimitive:
		r := types.Splat3(p.Dimensions[0])
		return p.Origin.Sub(r), p.Origin.Add(r)
	case BoxPrimitive:
		return p.Origin, p.Origin.Add(p.Dimensions)
	case QuadPrimitive:
		v1 := p.Origin.Add(p.Edges[0])
		v2 := p.Origin.Add(p.Edges[1])
		v3 := v1.Add(p.Edges[1])
		min = types.MinVec3(types.MinVec3(p.Origin, v1), types.MinVec3(v2, v3))
		max = types.MaxVec3(types.MaxVec3(p.Origin, v1), types.MaxVec3(v2, v3))
	default:
		v1 := p.Origin.Add(p.Edges[0])
		v2 := p.Origin.Add(p.Edges[1])
		min = types.MinVec3(p.Origin, types.MinVec3(v1, v2))
		max = types.MaxVec3(p.Origin, types.MaxVec3(v1, v2))
	}

	// Pad flat boxes
	const pad = 1e-4
	return min.Sub(types.Splat3(pad)), max.Add(types.Splat3(pad))
}

// Intersect a ray with the primitive. Returns the hit distance and the
// surface parametrization of the hit.
func (p *Primitive) Intersect(origin, dir types.Vec3, tMin, tMax float32) (float32, types.Vec2, bool) {
	switch p.Type {
	case QuadPrimitive, TrianglePrimitive:
		return p.intersectParallelogram(origin, dir, tMin, tMax)
	case SpherePrimitive:
		return p.intersectSphere(origin, dir, tMin, tMax)
	default:
		return p.intersectBox(origin, dir, tMin, tMax)
	}
}

// Möller-Trumbore; quads accept the full parallelogram.
func (p *Primitive) intersectParallelogram(origin, dir types.Vec3, tMin, tMax float32) (float32, types.Vec2, bool) {
	e1, e2 := p.Edges[0], p.Edges[1]
	pv := dir.Cross(e2)
	det := e1.Dot(pv)
	if types.Abs(det) < 1e-9 {
		return 0, types.Vec2{}, false
	}
	invDet := 1 / det

	tv := origin.Sub(p.Origin)
	u := tv.Dot(pv) * invDet
	if u < 0 || u > 1 {
		return 0, types.Vec2{}, false
	}

	qv := tv.Cross(e1)
	v := dir.Dot(qv) * invDet
	if v < 0 || v > 1 || (p.Type == TrianglePrimitive && u+v > 1) {
		return 0, types.Vec2{}, false
	}

	t := e2.Dot(qv) * invDet
	if t < tMin || t > tMax {
		return 0, types.Vec2{}, false
	}
	return t, types.Vec2{u, v}, true
}

func (p *Primitive) intersectSphere(origin, dir types.Vec3, tMin, tMax float32) (float32, types.Vec2, bool) {
	oc := origin.Sub(p.Origin)
	r := p.Dimensions[0]
	b := oc.Dot(dir)
	c := oc.Dot(oc) - r*r
	disc := b*b - c
	if disc < 0 {
		return 0, types.Vec2{}, false
	}
	sq := types.Sqrt(disc)

	t := -b - sq
	if t < tMin || t > tMax {
		t = -b + sq
		if t < tMin || t > tMax {
			return 0, types.Vec2{}, false
		}
	}

	n := origin.Add(dir.Mul(t)).Sub(p.Origin).Mul(1 / r)
	u := 0.5 + float32(math.Atan2(float64(n[2]), float64(n[0])))/(2*math.Pi)
	v := 0.5 - float32(math.Asin(float64(types.Clamp(n[1], -1, 1))))/math.Pi
	return t, types.Vec2{u, v}, true
}

func (p *Primitive) intersectBox(origin, dir types.Vec3, tMin, tMax float32) (float32, types.Vec2, bool) {
	min, max := p.Origin, p.Origin.Add(p.Dimensions)
	t0, t1 := float32(-math.MaxFloat32), float32(math.MaxFloat32)
	for axis := 0; axis < 3; axis++ {
		inv := 1 / dir[axis]
		near := (min[axis] - origin[axis]) * inv
		far := (max[axis] - origin[axis]) * inv
		if near > far {
			near, far = far, near
		}
		if near > t0 {
			t0 = near
		}
		if far < t1 {
			t1 = far
		}
		if t0 > t1 {
			return 0, types.Vec2{}, false
		}
	}

	t := t0
	if t < tMin || t > tMax {
		t = t1
		if t < tMin || t > tMax {
			return 0, types.Vec2{}, false
		}
	}
	return t, types.Vec2{}, true
}

// Get the outward geometric normal at a surface point.
func (p *Primitive) NormalAt(pos types.Vec3) types.Vec3 {
	switch p.Type {
	case SpherePrimitive:
		return pos.Sub(p.Origin).Normalize()
	case BoxPrimitive:
		half := p.Dimensions.Mul(0.5)
		local := pos.Sub(p.Origin.Add(half))
		axis, best := 0, float32(-1)
		for i := 0; i < 3; i++ {
			d := types.Abs(local[i]) / half[i]
			if d > best {
				axis, best = i, d
			}
		}
		var n types.Vec3
		if local[axis] < 0 {
			n[axis] = -1
		} else {
			n[axis] = 1
		}
		return n
	default:
		return p.Edges[0].Cross(p.Edges[1]).Normalize()
	}
}

// Translate the primitive.
func (p *Primitive) Translate(delta types.Vec3) {
	p.Origin = p.Origin.Add(delta)
}
