package scene

import (
	"math"

	"github.com/achilleasa/polaris-gbuf/types"
)

const (
	// Minimum hit distance for secondary rays.
	rayEpsilon = 1e-3

	// Max primitives per BVH leaf.
	minLeafPrimitives = 4

	bvhStackSize = 64
)

// World is the CPU reference implementation of the ray casting and hit
// decoding collaborators. It is immutable after construction and safe for
// concurrent use.
type World struct {
	scene *Scene

	nodes []BvhNode
	order []uint32
}

// Build the acceleration structure for a scene.
func NewWorld(sc *Scene) (*World, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	workList := make([]*BvhPrimitive, len(sc.Primitives))
	for index, prim := range sc.Primitives {
		min, max := prim.Bounds()
		workList[index] = &BvhPrimitive{
			Min:    min,
			Max:    max,
			Center: min.Add(max).Mul(0.5),
			Index:  uint32(index),
		}
	}

	w := &World{scene: sc}
	w.nodes, w.order = BuildBVH(workList, minLeafPrimitives)
	return w, nil
}

// Get the scene backing this world.
func (w *World) Scene() *Scene {
	return w.scene
}

// Evaluate the sky along a direction.
func (w *World) Sky(dir types.Vec3) types.Vec3 {
	return w.scene.Sky(dir)
}

// Find the nearest intersection along a ray. Direction must be normalized.
func (w *World) TraceRay(origin, dir types.Vec3, opts TraceOptions) Payload {
	if len(w.nodes) == 0 {
		return MissPayload()
	}

	tMin := float32(0)
	exclude := uint32(math.MaxUint32)
	if opts.Exclude.HasHit() {
		tMin = rayEpsilon
		if int(opts.Exclude.PrimitiveIndex) < len(w.scene.Primitives) && w.scene.Primitives[opts.Exclude.PrimitiveIndex].IsPlanar() {
			exclude = opts.Exclude.PrimitiveIndex
		}
	}

	invDir := types.Vec3{1 / dir[0], 1 / dir[1], 1 / dir[2]}
	closest := float32(math.MaxFloat32)
	out := MissPayload()

	var stack [bvhStackSize]int
	sp := 0
	stack[sp] = 0
	sp++
	for sp > 0 {
		sp--
		node := &w.nodes[stack[sp]]
		if !node.intersects(origin, invDir, closest) {
			continue
		}

		if !node.IsLeaf() {
			stack[sp] = int(node.Min[3])
			stack[sp+1] = int(node.Max[3])
			sp += 2
			continue
		}

		first := int(-node.Min[3])
		count := int(-node.Max[3])
		for _, primIndex := range w.order[first : first+count] {
			if primIndex == exclude {
				continue
			}
			prim := w.scene.Primitives[primIndex]
			t, bary, ok := prim.Intersect(origin, dir, tMin, closest)
			if !ok {
				continue
			}
			closest = t
			out = Payload{
				InstIDAndIndex: PackInstanceIDAndCustomIndex(primIndex, prim.CustomIndex),
				PrimitiveIndex: primIndex,
				T:              t,
				Barycentrics:   bary,
			}
		}
	}

	return out
}
