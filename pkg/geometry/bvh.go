package geometry

import (
	"sort"

	"github.com/df07/go-photon-mapper/pkg/core"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Indices     []int // Shape indices for leaf nodes (nil for internal nodes)
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection.
// Hits report the index of the shape in the slice the BVH was built from,
// so callers can map back to whatever owns the shape.
type BVH struct {
	Root   *BVHNode
	Center core.Vec3 // Center of the world bounds
	Radius float64   // Radius of a sphere enclosing the world bounds
	shapes []Shape
}

// Leaf threshold: if we have this many or fewer shapes, store them in a leaf node
const leafThreshold = 8

// NewBVH constructs a BVH from a slice of shapes
func NewBVH(shapes []Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{}
	}

	// Copy so the caller's slice is never aliased
	shapesCopy := make([]Shape, len(shapes))
	copy(shapesCopy, shapes)

	indices := make([]int, len(shapesCopy))
	for i := range indices {
		indices[i] = i
	}

	bvh := &BVH{shapes: shapesCopy}
	bvh.Root = bvh.build(indices)
	bvh.Center = bvh.Root.BoundingBox.Center()
	bvh.Radius = bvh.Root.BoundingBox.Max.Subtract(bvh.Center).Length()
	return bvh
}

// build recursively builds the BVH using median splits along the longest axis
func (bvh *BVH) build(indices []int) *BVHNode {
	boundingBox := bvh.shapes[indices[0]].BoundingBox()
	for _, idx := range indices[1:] {
		boundingBox = boundingBox.Union(bvh.shapes[idx].BoundingBox())
	}

	if len(indices) <= leafThreshold {
		return &BVHNode{BoundingBox: boundingBox, Indices: indices}
	}

	axis := boundingBox.LongestAxis()
	sort.Slice(indices, func(i, j int) bool {
		ci := bvh.shapes[indices[i]].BoundingBox().Center().Component(axis)
		cj := bvh.shapes[indices[j]].BoundingBox().Center().Component(axis)
		return ci < cj
	})

	mid := len(indices) / 2
	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        bvh.build(indices[:mid]),
		Right:       bvh.build(indices[mid:]),
	}
}

// Hit returns the closest intersection along the ray and the index of the
// shape that produced it
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64) (int, Hit, bool) {
	if bvh.Root == nil {
		return -1, Hit{}, false
	}
	return bvh.hitNode(bvh.Root, ray, tMin, tMax)
}

// hitNode recursively tests ray intersection with BVH nodes
func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray, tMin, tMax float64) (int, Hit, bool) {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return -1, Hit{}, false
	}

	closestIdx := -1
	var closestHit Hit
	closestSoFar := tMax

	if node.Indices != nil {
		for _, idx := range node.Indices {
			if hit, ok := bvh.shapes[idx].Hit(ray, tMin, closestSoFar); ok {
				closestSoFar = hit.T
				closestHit = hit
				closestIdx = idx
			}
		}
		return closestIdx, closestHit, closestIdx >= 0
	}

	for _, child := range []*BVHNode{node.Left, node.Right} {
		if child == nil {
			continue
		}
		if idx, hit, ok := bvh.hitNode(child, ray, tMin, closestSoFar); ok {
			closestSoFar = hit.T
			closestHit = hit
			closestIdx = idx
		}
	}

	return closestIdx, closestHit, closestIdx >= 0
}

// bvhStats contains statistics about the BVH structure
type bvhStats struct {
	totalNodes  int
	leafNodes   int
	maxDepth    int
	totalShapes int
}

// getStats returns statistics about the BVH structure
func (bvh *BVH) getStats() bvhStats {
	stats := bvhStats{}
	if bvh.Root != nil {
		collectStats(bvh.Root, 0, &stats)
	}
	return stats
}

func collectStats(node *BVHNode, depth int, stats *bvhStats) {
	stats.totalNodes++
	stats.maxDepth = max(stats.maxDepth, depth)

	if node.Indices != nil {
		stats.leafNodes++
		stats.totalShapes += len(node.Indices)
		return
	}
	if node.Left != nil {
		collectStats(node.Left, depth+1, stats)
	}
	if node.Right != nil {
		collectStats(node.Right, depth+1, stats)
	}
}
