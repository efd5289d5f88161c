package render

import (
	"image"
	"image/color"
	"runtime"
	"sync"
	"time"

	"github.com/mwlodarzc/kdray/geom"
	"github.com/mwlodarzc/kdray/kdtree"
	"github.com/mwlodarzc/kdray/log"
)

// Render parameters.
type Options struct {
	Width  int
	Height int

	// Number of row workers; defaults to the number of logical CPUs.
	Workers int
}

// Render a normal-shaded preview of an indexed primitive set.
//
// Rows are distributed over worker goroutines that each walk the flat index
// independently. The index and primitive table are only read, so the
// workers share them without any locking.
func Preview(flat kdtree.FlatIndex, prims []geom.Primitive, cam *Camera, opts Options) *image.RGBA {
	logger := log.New("render")

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))

	start := time.Now()
	rows := make(chan int, opts.Height)
	for y := 0; y < opts.Height; y++ {
		rows <- y
	}
	close(rows)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for y := range rows {
				renderRow(flat, prims, cam, img, y, opts)
			}
		}()
	}
	wg.Wait()

	logger.Noticef(
		"rendered %dx%d preview with %d workers in %d ms",
		opts.Width, opts.Height, workers,
		time.Since(start).Nanoseconds()/1e6,
	)
	return img
}

func renderRow(flat kdtree.FlatIndex, prims []geom.Primitive, cam *Camera, img *image.RGBA, y int, opts Options) {
	for x := 0; x < opts.Width; x++ {
		s := (float32(x) + 0.5) / float32(opts.Width)
		t := 1.0 - (float32(y)+0.5)/float32(opts.Height)

		hit, ok := flat.NearestHit(cam.RayThrough(s, t), prims)
		img.SetRGBA(x, y, shade(hit, ok))
	}
}

// Map the hit normal to a color; misses stay black.
func shade(hit kdtree.Hit, ok bool) color.RGBA {
	if !ok {
		return color.RGBA{A: 255}
	}

	return color.RGBA{
		R: uint8(255 * (0.5*hit.Normal[0] + 0.5)),
		G: uint8(255 * (0.5*hit.Normal[1] + 0.5)),
		B: uint8(255 * (0.5*hit.Normal[2] + 0.5)),
		A: 255,
	}
}
