package scene

import (
	"strings"
	"testing"

	"github.com/mwlodarzc/kdray/types"
)

func TestReadTriangles(t *testing.T) {
	payload := `
# comment
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	prims, err := Read(strings.NewReader(payload), "triangles.obj")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(prims) != 1 {
		t.Fatalf("expected 1 primitive; got %d", len(prims))
	}
	if prims[0].Quad {
		t.Fatal("expected a triangle primitive")
	}
	if prims[0].X != types.XYZ(0, 0, 0) {
		t.Fatalf("unexpected anchor vertex: %v", prims[0].X)
	}
}

func TestReadQuadFace(t *testing.T) {
	// A unit square; the four corners close a parallelogram so one quad
	// primitive is emitted.
	payload := `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	prims, err := Read(strings.NewReader(payload), "quad.obj")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(prims) != 1 {
		t.Fatalf("expected 1 primitive; got %d", len(prims))
	}
	if !prims[0].Quad {
		t.Fatal("expected a quad primitive")
	}
	if prims[0].Box.Min != types.XYZ(0, 0, 0) || prims[0].Box.Max != types.XYZ(1, 1, 0) {
		t.Fatalf("unexpected quad box: %v - %v", prims[0].Box.Min, prims[0].Box.Max)
	}
}

func TestReadSkewedQuadTriangulates(t *testing.T) {
	// The fourth corner does not close a parallelogram, so the face is
	// split into two triangles.
	payload := `
v 0 0 0
v 1 0 0
v 1 1 0
v -0.5 0.5 0
f 1 2 3 4
`
	prims, err := Read(strings.NewReader(payload), "skewed.obj")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(prims) != 2 {
		t.Fatalf("expected 2 primitives; got %d", len(prims))
	}
	for i, prim := range prims {
		if prim.Quad {
			t.Fatalf("expected primitive %d to be a triangle", i)
		}
	}
}

func TestReadFaceVariants(t *testing.T) {
	type spec struct {
		payload  string
		expPrims int
	}
	specs := []spec{
		// Slash-separated face statements.
		{"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1/1 2/2/2 3/3/3", 1},
		{"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1//1 2//2 3//3", 1},
		// Negative indices count back from the end of the vertex list.
		{"v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1", 1},
		// A pentagon fans into three triangles.
		{"v 0 0 0\nv 2 0 0\nv 3 1 0\nv 1 3 0\nv -1 1 0\nf 1 2 3 4 5", 3},
	}

	for index, s := range specs {
		prims, err := Read(strings.NewReader(s.payload), "variants.obj")
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %s", index, err)
		}
		if len(prims) != s.expPrims {
			t.Fatalf("[spec %d] expected %d primitives; got %d", index, s.expPrims, len(prims))
		}
	}
}

func TestReadErrors(t *testing.T) {
	type spec struct {
		payload string
	}
	specs := []spec{
		// Vertex with too few coordinates.
		{"v 1 2"},
		// Face with too few corners.
		{"v 0 0 0\nf 1 1"},
		// Vertex index out of bounds.
		{"v 0 0 0\nf 1 2 3"},
		// Unparseable coordinate.
		{"v 0 zero 0"},
	}

	for index, s := range specs {
		if _, err := Read(strings.NewReader(s.payload), "broken.obj"); err == nil {
			t.Fatalf("[spec %d] expected a parse error", index)
		}
	}
}
