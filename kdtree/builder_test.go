package kdtree

import (
	"math/rand"
	"testing"

	"github.com/mwlodarzc/kdray/geom"
	"github.com/mwlodarzc/kdray/types"
)

// Small well separated triangles on a grid; they split cleanly.
func gridPrims(side int) []geom.Primitive {
	prims := make([]geom.Primitive, 0, side*side)
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			x := float32(i) * 2.0
			z := float32(j) * 2.0
			prims = append(prims, geom.NewTriangle(
				types.XYZ(x, 0, z),
				types.XYZ(x+1, 0, z),
				types.XYZ(x, 1, z),
			))
		}
	}
	return prims
}

func randomPrims(count int, rng *rand.Rand) []geom.Primitive {
	coord := func() float32 {
		return rng.Float32()*10.0 - 5.0
	}
	point := func() types.Vec3 {
		return types.XYZ(coord(), coord(), coord())
	}
	spread := func(p types.Vec3) types.Vec3 {
		return p.Add(types.XYZ(rng.Float32(), rng.Float32(), rng.Float32()))
	}

	prims := make([]geom.Primitive, count)
	for i := range prims {
		anchor := point()
		prims[i] = geom.NewTriangle(anchor, spread(anchor), spread(anchor))
	}
	return prims
}

// Verify that at every node the three sets form an exact, duplicate-free
// partition of the set the node was built from, and that the children were
// built from the left and right sets.
func checkPartition(t *testing.T, node *Node, input []int32) {
	t.Helper()

	if node.Leaf {
		if node.LeftChild != nil || node.RightChild != nil {
			t.Fatal("leaf node has children")
		}
		if len(node.Left) != 0 || len(node.Right) != 0 {
			t.Fatal("leaf node has non-empty left/right sets")
		}
		if len(node.Mid) != len(input) {
			t.Fatalf("expected leaf to absorb %d primitives; got %d", len(input), len(node.Mid))
		}
	}

	expected := make(map[int32]bool, len(input))
	for _, idx := range input {
		expected[idx] = true
	}

	seen := make(map[int32]bool, len(input))
	for _, set := range [][]int32{node.Left, node.Mid, node.Right} {
		for _, idx := range set {
			if !expected[idx] {
				t.Fatalf("node set contains index %d missing from its input", idx)
			}
			if seen[idx] {
				t.Fatalf("index %d appears in two sets of the same node", idx)
			}
			seen[idx] = true
		}
	}
	if len(seen) != len(input) {
		t.Fatalf("node sets cover %d of %d input primitives", len(seen), len(input))
	}

	if node.Leaf {
		return
	}
	if node.LeftChild == nil || node.RightChild == nil {
		t.Fatal("inner node missing a child")
	}
	checkPartition(t, node.LeftChild, node.Left)
	checkPartition(t, node.RightChild, node.Right)
}

func TestPartitionInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	type spec struct {
		prims []geom.Primitive
	}
	specs := []spec{
		{gridPrims(5)},
		{randomPrims(100, rng)},
		{randomPrims(3, rng)},
	}

	for index, s := range specs {
		tree := Build(s.prims, Options{})

		input := make([]int32, len(s.prims))
		for i := range input {
			input[i] = int32(i)
		}

		if tree.Root == nil {
			t.Fatalf("[spec %d] expected a root node", index)
		}
		checkPartition(t, tree.Root, input)
	}
}

func TestGridSceneSplits(t *testing.T) {
	tree := Build(gridPrims(6), Options{})
	if tree.Root.Leaf {
		t.Fatal("expected a separable grid scene to produce a split at the root")
	}
	if tree.Stats().Leafs == 0 || tree.Stats().MaxDepth == 0 {
		t.Fatalf("implausible build stats: %+v", tree.Stats())
	}
}

func TestAllStraddlersFallBackToLeaf(t *testing.T) {
	// Every primitive spans the full extent on all axes, so every candidate
	// plane is straddled by everything and no split can be taken.
	prims := make([]geom.Primitive, 8)
	for i := range prims {
		prims[i] = geom.NewTriangle(
			types.XYZ(-5, -5, -5),
			types.XYZ(5, 5, -5),
			types.XYZ(0, 5, 5),
		)
	}

	tree := Build(prims, Options{MinLeafItems: 1})
	if !tree.Root.Leaf {
		t.Fatal("expected all-straddling input to produce a leaf")
	}
	if len(tree.Root.Mid) != len(prims) {
		t.Fatalf("expected leaf to absorb all %d primitives; got %d", len(prims), len(tree.Root.Mid))
	}
}

func TestEmptyBuild(t *testing.T) {
	tree := Build(nil, Options{})
	if tree.Root == nil || !tree.Root.Leaf {
		t.Fatal("expected an empty build to produce an empty leaf")
	}
	if len(tree.Root.Mid) != 0 {
		t.Fatalf("expected an empty mid set; got %d entries", len(tree.Root.Mid))
	}
}
