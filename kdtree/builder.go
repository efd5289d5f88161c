package kdtree

import (
	"time"

	"github.com/mwlodarzc/kdray/geom"
	"github.com/mwlodarzc/kdray/log"
)

const (
	// The builder will not scan split candidates along an axis whose node
	// bbox side is shorter than this threshold.
	minSideLength float32 = 1e-3

	// Number of evenly spaced split candidates scanned per axis. A fixed
	// count keeps builds deterministic for identical input.
	defaultGridSteps = 32

	// Nodes with fewer primitives than this become leafs.
	defaultMinLeafItems = 4
)

// A node of the pointer-form tree produced by Build. All three index sets
// together equal the set the node was built from; Mid holds the primitives
// straddling the split plane and is resolved at this node, it is never
// pushed into a child.
type Node struct {
	Box geom.AABB

	// Split axis and value; meaningless when Leaf is set.
	Axis  int
	Split float32
	Leaf  bool

	Left  []int32
	Mid   []int32
	Right []int32

	LeftChild  *Node
	RightChild *Node
}

// The pointer tree for a primitive set. It exists only to be flattened; the
// flat form is what queries consume.
type Tree struct {
	Root  *Node
	Prims []geom.Primitive

	stats BuildStats
}

// Build phase statistics.
type BuildStats struct {
	Primitives int
	Nodes      int
	Leafs      int
	MaxDepth   int
}

func (t *Tree) Stats() BuildStats {
	return t.stats
}

// Build options.
type Options struct {
	// Minimum number of primitives required to attempt a split.
	MinLeafItems int

	// Split candidates scanned per axis.
	GridSteps int
}

func (o *Options) applyDefaults() {
	if o.MinLeafItems <= 0 {
		o.MinLeafItems = defaultMinLeafItems
	}
	if o.GridSteps <= 1 {
		o.GridSteps = defaultGridSteps
	}
}

type builder struct {
	logger log.Logger
	prims  []geom.Primitive
	opts   Options
	stats  BuildStats
}

// Construct a three-way kd-tree over the full primitive set.
//
// Each node scans a grid of split candidates on all three axes and keeps the
// candidate minimizing |left - right| + 0.5*mid, where the counts classify
// every primitive bbox as entirely below, entirely above or straddling the
// candidate plane. Straddlers stay at the node; the two disjoint sides
// recurse with the node box clipped at the split value. Ties break on the
// earliest axis and earliest candidate so identical input always yields an
// identical tree.
func Build(prims []geom.Primitive, opts Options) *Tree {
	opts.applyDefaults()

	b := &builder{
		logger: log.New("kdtree"),
		prims:  prims,
		opts:   opts,
		stats: BuildStats{
			Primitives: len(prims),
		},
	}

	indices := make([]int32, len(prims))
	box := geom.NewAABB()
	for i := range prims {
		indices[i] = int32(i)
		box = box.Union(prims[i].Box)
	}
	if len(prims) == 0 {
		box = geom.AABB{}
	}

	start := time.Now()
	root := b.partition(indices, box, 0)
	b.logger.Debugf(
		"kd tree build time: %d ms, maxDepth: %d, nodes: %d, leafs: %d",
		time.Since(start).Nanoseconds()/1e6,
		b.stats.MaxDepth, b.stats.Nodes, b.stats.Leafs,
	)

	return &Tree{
		Root:  root,
		Prims: prims,
		stats: b.stats,
	}
}

type splitCandidate struct {
	axis  int
	value float32

	leftCount, midCount, rightCount int
	cost                            float32
}

// Partition an index set and return its node.
func (b *builder) partition(indices []int32, box geom.AABB, depth int) *Node {
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	node := &Node{Box: box}

	if len(indices) < b.opts.MinLeafItems {
		return b.makeLeaf(node, indices)
	}

	// Everything resolved at this node costs 0.5 per primitive; a split is
	// only worth taking when it scores strictly below that.
	bestCost := 0.5 * float32(len(indices))
	var best *splitCandidate

	side := box.Size()
	for axis := 0; axis < 3; axis++ {
		if side[axis] < minSideLength {
			continue
		}

		step := side[axis] / float32(b.opts.GridSteps)
		for i := 1; i < b.opts.GridSteps; i++ {
			value := box.Min[axis] + float32(i)*step
			cand := b.scoreSplit(indices, axis, value)
			if cand.leftCount == 0 && cand.rightCount == 0 {
				// Every primitive straddles this plane.
				continue
			}
			if cand.cost < bestCost {
				bestCost = cand.cost
				best = &cand
			}
		}
	}

	if best == nil {
		return b.makeLeaf(node, indices)
	}

	b.stats.Nodes++
	node.Axis = best.axis
	node.Split = best.value
	node.Left = make([]int32, 0, best.leftCount)
	node.Mid = make([]int32, 0, best.midCount)
	node.Right = make([]int32, 0, best.rightCount)
	for _, idx := range indices {
		pbox := &b.prims[idx].Box
		switch {
		case pbox.Max[best.axis] <= best.value:
			node.Left = append(node.Left, idx)
		case pbox.Min[best.axis] >= best.value:
			node.Right = append(node.Right, idx)
		default:
			node.Mid = append(node.Mid, idx)
		}
	}

	leftBox, rightBox := box, box
	leftBox.Max[best.axis] = best.value
	rightBox.Min[best.axis] = best.value

	node.LeftChild = b.partition(node.Left, leftBox, depth+1)
	node.RightChild = b.partition(node.Right, rightBox, depth+1)

	return node
}

// Score a candidate plane: classify every primitive bbox against it and
// apply the cost function |left - right| + 0.5*mid.
func (b *builder) scoreSplit(indices []int32, axis int, value float32) splitCandidate {
	cand := splitCandidate{axis: axis, value: value}

	for _, idx := range indices {
		pbox := &b.prims[idx].Box
		switch {
		case pbox.Max[axis] <= value:
			cand.leftCount++
		case pbox.Min[axis] >= value:
			cand.rightCount++
		default:
			cand.midCount++
		}
	}

	diff := cand.leftCount - cand.rightCount
	if diff < 0 {
		diff = -diff
	}
	cand.cost = float32(diff) + 0.5*float32(cand.midCount)

	return cand
}

// Set up the given node as a leaf absorbing all items in the index set.
func (b *builder) makeLeaf(node *Node, indices []int32) *Node {
	node.Leaf = true
	node.Mid = indices
	b.stats.Leafs++
	return node
}
