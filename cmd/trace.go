package cmd

import (
	"fmt"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/mwlodarzc/kdray/render"
	sceneio "github.com/mwlodarzc/kdray/scene/io"
	"github.com/mwlodarzc/kdray/types"
	"github.com/urfave/cli"
)

// Render a normal-shaded preview of a compiled index to a png file.
func TracePreview(ctx *cli.Context) {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		logger.Error("trace: expected a single compiled index file")
		os.Exit(1)
	}

	index, err := sceneio.ReadIndex(ctx.Args().First())
	if err != nil {
		logger.Errorf("error: %s", err)
		os.Exit(1)
	}

	width := ctx.Int("width")
	height := ctx.Int("height")

	eye, err := parseVec3(ctx.String("eye"))
	if err != nil {
		logger.Errorf("error: bad eye position: %s", err)
		os.Exit(1)
	}
	look, err := parseVec3(ctx.String("look"))
	if err != nil {
		logger.Errorf("error: bad look target: %s", err)
		os.Exit(1)
	}

	cam := render.NewCamera(
		eye, look, types.XYZ(0, 1, 0),
		float32(ctx.Float64("fov")),
		float32(width)/float32(height),
	)

	img := render.Preview(index.Flat, index.Primitives, cam, render.Options{
		Width:  width,
		Height: height,
	})

	outFile, err := os.Create(ctx.String("out"))
	if err != nil {
		logger.Errorf("error: %s", err)
		os.Exit(1)
	}
	defer outFile.Close()

	if err = png.Encode(outFile, img); err != nil {
		logger.Errorf("error: %s", err)
		os.Exit(1)
	}
	logger.Noticef(`wrote preview to "%s"`, ctx.String("out"))
}

// Parse a comma separated vector argument like "0,1,-2.5".
func parseVec3(arg string) (types.Vec3, error) {
	fields := strings.Split(arg, ",")
	if len(fields) != 3 {
		return types.Vec3{}, fmt.Errorf("expected 3 comma separated values; got %d", len(fields))
	}

	var out types.Vec3
	for i, field := range fields {
		val, err := strconv.ParseFloat(strings.TrimSpace(field), 32)
		if err != nil {
			return types.Vec3{}, err
		}
		out[i] = float32(val)
	}
	return out, nil
}
