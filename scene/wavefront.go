package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mwlodarzc/kdray/geom"
	"github.com/mwlodarzc/kdray/log"
	"github.com/mwlodarzc/kdray/types"
)

// Two quad corners closer than this to each other are treated as the same
// point when deciding whether a 4-vertex face is a parallelogram.
const quadEpsilon = 1e-4

type wavefrontReader struct {
	logger log.Logger

	vertexList []types.Vec3
	prims      []geom.Primitive
}

// Read the triangle and quad primitives from a wavefront object file. Only
// the geometry statements (v, f) are consumed; material and texture
// statements describe shading, which this package does not model, and are
// skipped.
func ReadFile(path string) ([]geom.Primitive, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file, path)
}

// Read primitives from a wavefront object stream. The name argument is only
// used for error messages.
func Read(r io.Reader, name string) ([]geom.Primitive, error) {
	reader := &wavefrontReader{logger: log.New("wavefront")}

	reader.logger.Noticef(`parsing geometry from "%s"`, name)
	start := time.Now()

	err := reader.parse(r, name)
	if err != nil {
		return nil, err
	}

	reader.logger.Noticef(
		"parsed %d primitives in %d ms",
		len(reader.prims), time.Since(start).Nanoseconds()/1e6,
	)
	return reader.prims, nil
}

func (r *wavefrontReader) parse(input io.Reader, name string) error {
	var lineNum int

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		var err error
		switch lineTokens[0] {
		case "v":
			err = r.parseVertex(lineTokens)
		case "f":
			err = r.parseFace(lineTokens)
		}
		if err != nil {
			return fmt.Errorf("%s: %d: %s", name, lineNum, err)
		}
	}

	return scanner.Err()
}

func (r *wavefrontReader) parseVertex(tokens []string) error {
	if len(tokens) < 4 {
		return fmt.Errorf("unsupported syntax for %q; expected 3 arguments; got %d", "v", len(tokens)-1)
	}

	var vertex types.Vec3
	for i := 0; i < 3; i++ {
		val, err := strconv.ParseFloat(tokens[i+1], 32)
		if err != nil {
			return err
		}
		vertex[i] = float32(val)
	}
	r.vertexList = append(r.vertexList, vertex)

	return nil
}

func (r *wavefrontReader) parseFace(tokens []string) error {
	if len(tokens) < 4 {
		return fmt.Errorf("unsupported syntax for %q; expected 3 or more arguments; got %d", "f", len(tokens)-1)
	}

	corners := make([]types.Vec3, len(tokens)-1)
	for i, token := range tokens[1:] {
		// Vertex statements look like v, v/vt, v//vn or v/vt/vn; only the
		// vertex index matters here.
		if slash := strings.IndexByte(token, '/'); slash != -1 {
			token = token[:slash]
		}

		index, err := strconv.Atoi(token)
		if err != nil {
			return err
		}

		// Wavefront indices are 1-based; negative values count back from
		// the end of the vertex list.
		switch {
		case index > 0 && index <= len(r.vertexList):
			corners[i] = r.vertexList[index-1]
		case index < 0 && len(r.vertexList)+index >= 0:
			corners[i] = r.vertexList[len(r.vertexList)+index]
		default:
			return fmt.Errorf("vertex index %d out of bounds", index)
		}
	}

	if len(corners) == 4 && isParallelogram(corners) {
		// Corner order v0 v1 v2 v3 walks the perimeter; the quad anchor is
		// v0 with edges towards v1 and v3.
		r.prims = append(r.prims, geom.NewQuad(corners[0], corners[3], corners[1]))
		return nil
	}

	// Triangulate as a fan around the first corner.
	for i := 2; i < len(corners); i++ {
		r.prims = append(r.prims, geom.NewTriangle(corners[0], corners[i], corners[i-1]))
	}

	return nil
}

// A 4-corner face is stored as a single quad primitive only when its fourth
// corner closes a parallelogram; anything else is triangulated.
func isParallelogram(c []types.Vec3) bool {
	expected := c[1].Add(c[3]).Sub(c[0])
	return expected.Sub(c[2]).Len() < quadEpsilon
}
