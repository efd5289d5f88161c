// Package kdtree accelerates ray intersection queries over triangle and
// quad primitives with a three-way kd-tree: primitives entirely below or
// above a node's split plane descend into its children while straddlers
// are absorbed at the node itself. The pointer tree built by Build is
// compiled by Flatten into a linear, offset-addressed block stream that
// NearestHit walks iteratively, with no recursion and no allocation, so a
// single index can serve any number of concurrent rays.
package kdtree

import "github.com/mwlodarzc/kdray/geom"

// Build the query-time index for a primitive set in one step.
func BuildIndex(prims []geom.Primitive, opts Options) FlatIndex {
	return Build(prims, opts).Flatten()
}
