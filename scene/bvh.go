package scene

import (
	"math"

	"github.com/achilleasa/polaris-gbuf/types"
)

// Number of split candidates evaluated per axis.
const bvhSplitsPerAxis = 32

// Bvh node definition.
type BvhNode struct {
	// Bounding box min extent. For inner nodes the W component holds the
	// index of the left child; for leafs it holds the negated index of the
	// first primitive.
	Min types.Vec4

	// Bounding box max extent. For inner nodes the W component holds the
	// index of the right child; for leafs it holds the negated primitive count.
	Max types.Vec4
}

// Returns true if this node is a leaf.
func (n *BvhNode) IsLeaf() bool {
	return n.Max[3] < 0
}

// BvhPrimitive wraps a primitive index with its AABB.
type BvhPrimitive struct {
	Min    types.Vec3
	Max    types.Vec3
	Center types.Vec3

	Index uint32
}

type bvhSplitCandidate struct {
	axis                  int
	splitPoint            float32
	leftCount, rightCount int
	score                 float32
}

type bvhBuilder struct {
	nodes []BvhNode

	// Primitive indices in leaf order.
	order []uint32

	scoreChan chan bvhSplitCandidate
}

// Construct a BVH using the surface area heuristic. Work lists with less than
// minLeafPrimitives entries become leafs.
func BuildBVH(workList []*BvhPrimitive, minLeafPrimitives int) ([]BvhNode, []uint32) {
	b := &bvhBuilder{
		nodes:     make([]BvhNode, 0),
		order:     make([]uint32, 0, len(workList)),
		scoreChan: make(chan bvhSplitCandidate),
	}
	if len(workList) == 0 {
		return b.nodes, b.order
	}
	b.partition(workList, minLeafPrimitives, 0)
	return b.nodes, b.order
}

func (b *bvhBuilder) leaf(workList []*BvhPrimitive, nmin, nmax types.Vec3) int {
	node := BvhNode{
		Min: nmin.Vec4(-float32(len(b.order))),
		Max: nmax.Vec4(-float32(len(workList))),
	}
	for _, prim := range workList {
		b.order = append(b.order, prim.Index)
	}

	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, node)
	return nodeIndex
}

// Partition worklist and return node index.
func (b *bvhBuilder) partition(workList []*BvhPrimitive, minLeafPrimitives int, depth int) int {
	nmin := types.Splat3(math.MaxFloat32)
	nmax := types.Splat3(-math.MaxFloat32)
	for _, prim := range workList {
		nmin = types.MinVec3(nmin, prim.Min)
		nmax = types.MaxVec3(nmax, prim.Max)
	}

	if len(workList) < minLeafPrimitives {
		return b.leaf(workList, nmin, nmax)
	}

	side := nmax.Sub(nmin)
	bestScore := float32(len(workList)) * (side[0]*side[1] + side[1]*side[2] + side[0]*side[2])
	var bestSplit *bvhSplitCandidate

	// Score axis splits in parallel
	pendingScores := 0
	for axis := 0; axis < 3; axis++ {
		if side[axis] < 1e-4 {
			continue
		}

		splitStep := side[axis] / bvhSplitsPerAxis
		for splitPoint := nmin[axis] + splitStep; splitPoint < nmax[axis]; splitPoint += splitStep {
			candidate := bvhSplitCandidate{
				axis:       axis,
				splitPoint: splitPoint,
			}
			pendingScores++
			go candidate.Score(workList, b.scoreChan)
		}
	}

	for ; pendingScores > 0; pendingScores-- {
		candidate := <-b.scoreChan
		if candidate.score < bestScore || (bestSplit != nil && candidate.score == bestScore && candidate.less(bestSplit)) {
			bestScore = candidate.score
			c := candidate
			bestSplit = &c
		}
	}

	if bestSplit == nil {
		return b.leaf(workList, nmin, nmax)
	}

	leftWorkList := make([]*BvhPrimitive, 0, bestSplit.leftCount)
	rightWorkList := make([]*BvhPrimitive, 0, bestSplit.rightCount)
	for _, prim := range workList {
		if prim.Center[bestSplit.axis] < bestSplit.splitPoint {
			leftWorkList = append(leftWorkList, prim)
		} else {
			rightWorkList = append(rightWorkList, prim)
		}
	}

	nodeIndex := len(b.nodes)
	b.nodes = append(b.nodes, BvhNode{})

	left := b.partition(leftWorkList, minLeafPrimitives, depth+1)
	right := b.partition(rightWorkList, minLeafPrimitives, depth+1)
	b.nodes[nodeIndex].Min = nmin.Vec4(float32(left))
	b.nodes[nodeIndex].Max = nmax.Vec4(float32(right))

	return nodeIndex
}

// Candidates are collected in arbitrary order; ties resolve deterministically.
func (c *bvhSplitCandidate) less(other *bvhSplitCandidate) bool {
	if c.axis != other.axis {
		return c.axis < other.axis
	}
	return c.splitPoint < other.splitPoint
}

// Calculate the SAH score for splitting the workList with this candidate
// and report the result to the supplied channel.
func (c bvhSplitCandidate) Score(workList []*BvhPrimitive, resChan chan<- bvhSplitCandidate) {
	lmin := types.Splat3(math.MaxFloat32)
	rmin := types.Splat3(math.MaxFloat32)
	lmax := types.Splat3(-math.MaxFloat32)
	rmax := types.Splat3(-math.MaxFloat32)

	for _, prim := range workList {
		if prim.Center[c.axis] < c.splitPoint {
			c.leftCount++
			lmin = types.MinVec3(lmin, prim.Min)
			lmax = types.MaxVec3(lmax, prim.Max)
		} else {
			c.rightCount++
			rmin = types.MinVec3(rmin, prim.Min)
			rmax = types.MaxVec3(rmax, prim.Max)
		}
	}

	if c.leftCount == 0 || c.rightCount == 0 {
		c.score = math.MaxFloat32
		resChan <- c
		return
	}

	lside := lmax.Sub(lmin)
	rside := rmax.Sub(rmin)
	c.score = (float32(c.leftCount) * (lside[0]*lside[1] + lside[1]*lside[2] + lside[0]*lside[2])) +
		(float32(c.rightCount) * (rside[0]*rside[1] + rside[1]*rside[2] + rside[0]*rside[2]))
	resChan <- c
}

// Slab test against a node AABB.
func (n *BvhNode) intersects(origin, invDir types.Vec3, tMax float32) bool {
	t0, t1 := float32(0), tMax
	for axis := 0; axis < 3; axis++ {
		near := (n.Min[axis] - origin[axis]) * invDir[axis]
		far := (n.Max[axis] - origin[axis]) * invDir[axis]
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
			return false
		}
	}
	return true
}
