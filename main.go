package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/achilleasa/polaris-gbuf/cmd"
	"github.com/achilleasa/polaris-gbuf/scene"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "polaris-gbuf"
	app.Usage = "trace reflection/refraction G-buffers for hybrid rendering"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render G-buffer frames",
			Description: fmt.Sprintf(`
Trace the primary and secondary G-buffer stages for a scene and dump the
resulting channels as PNG images.

The scene argument is either a compiled zip archive or builtin:<name> where
name is one of: %s.`, strings.Join(scene.BuiltinNames(), ", ")),
			ArgsUsage: "scene",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width (must be even)",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "depth",
					Value: 2,
					Usage: "max reflect/refract depth",
				},
				cli.IntFlag{
					Name:  "tracers",
					Usage: "number of cpu tracers (0 = one per cpu)",
				},
				cli.StringFlag{
					Name:  "scheduler",
					Value: "perfect",
					Usage: "block scheduler (naive, perfect)",
				},
				cli.StringFlag{
					Name:  "media",
					Value: "vacuum",
					Usage: "media surrounding the camera (vacuum, water, glass, acid)",
				},
				cli.IntFlag{
					Name:  "frames",
					Value: 1,
					Usage: "number of frames to render; channels of the last frame are written",
				},
				cli.BoolFlag{
					Name:  "jitter",
					Usage: "apply sub-pixel camera jitter",
				},
				cli.BoolFlag{
					Name:  "sky-rasterized",
					Usage: "rasterize the sky before the primary stage",
				},
				cli.BoolFlag{
					Name:  "backface-refl",
					Usage: "keep reflections when viewing no-media-change geometry from the inside",
				},
				cli.Float64Flag{
					Name:  "time",
					Usage: "animation time in seconds",
				},
				cli.StringFlag{
					Name:  "water-normals",
					Usage: "PNG water normal map (default: procedural waves)",
				},
				cli.StringSliceFlag{
					Name:  "channel, c",
					Value: &cli.StringSlice{},
					Usage: "channel to dump; may be repeated (default: all)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "gbuffer",
					Usage: "output folder for channel images",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:  "compile",
			Usage: "compile built-in scenes into the binary compressed format",
			Description: `
Build one or more built-in scenes and write them to zip archives which can
be supplied as an argument to the render command.`,
			ArgsUsage: "scene_name1 scene_name2 ...",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "all",
					Usage: "compile every built-in scene",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: ".",
					Usage: "output folder",
				},
			},
			Action: cmd.CompileScene,
		},
		{
			Name:   "channels",
			Usage:  "list G-buffer channels",
			Action: cmd.ListChannels,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
