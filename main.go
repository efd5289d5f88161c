package main

import (
	"os"

	"github.com/mwlodarzc/kdray/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "kdray"
	app.Usage = "compile triangle/quad geometry into a kd-tree intersection index and trace rays against it"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "compile wavefront geometry into a binary intersection index",
			Description: `
Parse triangle and quad primitives from a wavefront obj file, build a
three-way kd-tree over them, flatten it into the offset-addressed query
encoding and write the result to a zip archive which can be supplied as an
argument to the info and trace commands.`,
			ArgsUsage: "scene_file1.obj scene_file2.obj ...",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "min-leaf-items",
					Value: 4,
					Usage: "minimum primitive count required to attempt a split",
				},
				cli.IntFlag{
					Name:  "grid-steps",
					Value: 32,
					Usage: "split candidates scanned per axis",
				},
			},
			Action: cmd.CompileScene,
		},
		{
			Name:      "info",
			Usage:     "print statistics for a compiled index",
			ArgsUsage: "index.zip",
			Action:    cmd.IndexInfo,
		},
		{
			Name:      "trace",
			Usage:     "render a normal-shaded preview of a compiled index",
			ArgsUsage: "index.zip",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.Float64Flag{
					Name:  "fov",
					Value: 60.0,
					Usage: "vertical field of view in degrees",
				},
				cli.StringFlag{
					Name:  "eye",
					Value: "0,0,5",
					Usage: "camera position as x,y,z",
				},
				cli.StringFlag{
					Name:  "look",
					Value: "0,0,0",
					Usage: "camera target as x,y,z",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "preview.png",
					Usage: "image filename for the rendered preview",
				},
			},
			Action: cmd.TracePreview,
		},
	}

	app.Run(os.Args)
}
