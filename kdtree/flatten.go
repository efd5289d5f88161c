package kdtree

import (
	"math"

	"github.com/mwlodarzc/kdray/geom"
	"github.com/mwlodarzc/kdray/types"
)

// Flat block layout, in int32 words. Every block starts with its bounding
// box (six float words, stored via Float32bits) and a mark word:
//
//	[0:3] box min   [3:6] box max   [6] mark
//
// mark >= 0 (the split axis) marks an inner block and is followed by four
// absolute word offsets:
//
//	[7] leftOff   [8] rightOff   [9] midOff   [10] lrOff
//
// mark < 0 marks a data block, followed by a primitive count and that many
// primitive indices:
//
//	[7] n   [8:8+n] primitive indices
//
// Offsets always point at the start of another block in the same stream.
const (
	markData int32 = -1

	offMark    = 6
	offLeft    = 7
	offRight   = 8
	offMid     = 9
	offLR      = 10
	offCount   = 7
	offIndices = 8
	innerWords = 11
)

// The linear, offset-addressed encoding of a tree. Immutable once produced;
// any number of traversals may read it concurrently.
type FlatIndex []int32

// Serialize the pointer tree into a flat index.
//
// Two passes: the first writes inner blocks and leaf data blocks in
// pre-order (node, left subtree, right subtree), recording each node's block
// offset. The second appends one data block per inner node for its mid set
// and one for the combined primitive set of both its subtrees, then
// backpatches the four offset words. The combined block is what traversal
// jumps to when a ray intersects both child boxes, so it must cover
// everything reachable below the node.
func (t *Tree) Flatten() FlatIndex {
	f := &flattener{offsets: make(map[*Node]int32)}
	f.writeBlocks(t.Root)
	f.patchOffsets(t.Root)
	return FlatIndex(f.words)
}

type flattener struct {
	words   []int32
	offsets map[*Node]int32
}

// First pass: write a block per node in pre-order and record its offset.
func (f *flattener) writeBlocks(node *Node) {
	f.offsets[node] = int32(len(f.words))

	if node.Leaf {
		f.writeHeader(node.Box, markData)
		f.words = append(f.words, int32(len(node.Mid)))
		f.words = append(f.words, node.Mid...)
		return
	}

	f.writeHeader(node.Box, int32(node.Axis))
	f.words = append(f.words, 0, 0, 0, 0)
	f.writeBlocks(node.LeftChild)
	f.writeBlocks(node.RightChild)
}

// Second pass: append the mid and left+right data blocks for every inner
// node and resolve all offset words.
func (f *flattener) patchOffsets(node *Node) {
	if node.Leaf {
		return
	}

	off := f.offsets[node]
	f.words[off+offLeft] = f.offsets[node.LeftChild]
	f.words[off+offRight] = f.offsets[node.RightChild]
	f.words[off+offMid] = f.appendData(node.Box, node.Mid)

	// Left and Right are exactly the primitive sets their subtrees were
	// built from, so their concatenation covers every index reachable under
	// either child, nested mid sets included.
	lr := make([]int32, 0, len(node.Left)+len(node.Right))
	lr = append(lr, node.Left...)
	lr = append(lr, node.Right...)
	f.words[off+offLR] = f.appendData(node.Box, lr)

	f.patchOffsets(node.LeftChild)
	f.patchOffsets(node.RightChild)
}

func (f *flattener) writeHeader(box geom.AABB, mark int32) {
	f.words = append(f.words,
		floatWord(box.Min[0]), floatWord(box.Min[1]), floatWord(box.Min[2]),
		floatWord(box.Max[0]), floatWord(box.Max[1]), floatWord(box.Max[2]),
		mark,
	)
}

// Append a data block and return its offset.
func (f *flattener) appendData(box geom.AABB, indices []int32) int32 {
	off := int32(len(f.words))
	f.writeHeader(box, markData)
	f.words = append(f.words, int32(len(indices)))
	f.words = append(f.words, indices...)
	return off
}

func floatWord(v float32) int32 {
	return int32(math.Float32bits(v))
}

func wordFloat(w int32) float32 {
	return math.Float32frombits(uint32(w))
}

// Decode the bounding box stored at a block offset.
func (f FlatIndex) boxAt(off int32) geom.AABB {
	return geom.AABB{
		Min: types.Vec3{wordFloat(f[off]), wordFloat(f[off+1]), wordFloat(f[off+2])},
		Max: types.Vec3{wordFloat(f[off+3]), wordFloat(f[off+4]), wordFloat(f[off+5])},
	}
}
