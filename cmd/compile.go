package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mwlodarzc/kdray/kdtree"
	"github.com/mwlodarzc/kdray/scene"
	sceneio "github.com/mwlodarzc/kdray/scene/io"
	"github.com/urfave/cli"
)

// Compile wavefront geometry into a binary intersection index.
func CompileScene(ctx *cli.Context) {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		logger.Error("compile: no input files")
		os.Exit(1)
	}

	opts := kdtree.Options{
		MinLeafItems: ctx.Int("min-leaf-items"),
		GridSteps:    ctx.Int("grid-steps"),
	}

	for idx := 0; idx < ctx.NArg(); idx++ {
		sceneFile := ctx.Args().Get(idx)
		if !strings.HasSuffix(sceneFile, ".obj") {
			logger.Errorf("skipping unsupported file %s", sceneFile)
			os.Exit(1)
		}

		prims, err := scene.ReadFile(sceneFile)
		if err != nil {
			logger.Errorf("error: %s", err)
			os.Exit(1)
		}

		tree := kdtree.Build(prims, opts)
		flat := tree.Flatten()

		index := &sceneio.Index{
			Primitives: prims,
			Flat:       flat,
			BuildStats: tree.Stats(),
		}

		indexFile := strings.Replace(sceneFile, ".obj", ".zip", -1)
		if err = sceneio.WriteIndex(index, indexFile); err != nil {
			logger.Errorf("error: %s", err)
			os.Exit(1)
		}

		indexStats, err := flat.Stats()
		if err != nil {
			logger.Errorf("error: %s", err)
			os.Exit(1)
		}
		fmt.Print(kdtree.FormatStats(tree.Stats(), indexStats))
	}
}
