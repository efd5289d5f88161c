package cmd

import (
	"fmt"
	"os"

	"github.com/mwlodarzc/kdray/kdtree"
	sceneio "github.com/mwlodarzc/kdray/scene/io"
	"github.com/urfave/cli"
)

// Print statistics for a compiled intersection index.
func IndexInfo(ctx *cli.Context) {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		logger.Error("info: expected a single compiled index file")
		os.Exit(1)
	}

	index, err := sceneio.ReadIndex(ctx.Args().First())
	if err != nil {
		logger.Errorf("error: %s", err)
		os.Exit(1)
	}

	indexStats, err := index.Flat.Stats()
	if err != nil {
		logger.Errorf("error: %s", err)
		os.Exit(1)
	}

	fmt.Print(kdtree.FormatStats(index.BuildStats, indexStats))
}
