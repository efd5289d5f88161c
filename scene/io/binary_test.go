package io

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mwlodarzc/kdray/geom"
	"github.com/mwlodarzc/kdray/kdtree"
	"github.com/mwlodarzc/kdray/types"
)

func makeIndex() *Index {
	prims := make([]geom.Primitive, 0, 16)
	for i := 0; i < 16; i++ {
		x := float32(i%4) * 2.0
		z := float32(i/4) * 2.0
		prims = append(prims, geom.NewTriangle(
			types.XYZ(x, 0, z),
			types.XYZ(x+1, 0, z),
			types.XYZ(x, 1, z),
		))
	}

	tree := kdtree.Build(prims, kdtree.Options{})
	return &Index{
		Primitives: prims,
		Flat:       tree.Flatten(),
		BuildStats: tree.Stats(),
	}
}

func TestIndexRoundTrip(t *testing.T) {
	index := makeIndex()
	path := filepath.Join(t.TempDir(), "scene.zip")

	if err := WriteIndex(index, path); err != nil {
		t.Fatalf("unexpected write error: %s", err)
	}

	loaded, err := ReadIndex(path)
	if err != nil {
		t.Fatalf("unexpected read error: %s", err)
	}

	if !reflect.DeepEqual(loaded.Flat, index.Flat) {
		t.Fatal("flat index changed across a write/read cycle")
	}
	if !reflect.DeepEqual(loaded.Primitives, index.Primitives) {
		t.Fatal("primitive table changed across a write/read cycle")
	}
	if loaded.BuildStats != index.BuildStats {
		t.Fatalf("expected build stats %+v; got %+v", index.BuildStats, loaded.BuildStats)
	}

	// The loaded index must answer queries exactly like the original.
	ray := geom.NewRay(types.XYZ(0.2, 0.3, -5), types.XYZ(0, 0, 1))
	expHit, expOK := index.Flat.NearestHit(ray, index.Primitives)
	gotHit, gotOK := loaded.Flat.NearestHit(ray, loaded.Primitives)
	if expOK != gotOK || gotHit != expHit {
		t.Fatalf("expected hit %+v (%t); got %+v (%t)", expHit, expOK, gotHit, gotOK)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := ReadIndex(filepath.Join(t.TempDir(), "nope.zip")); err == nil {
		t.Fatal("expected an error for a missing archive")
	}
}
