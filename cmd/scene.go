package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/achilleasa/polaris-gbuf/scene"
	"github.com/achilleasa/polaris-gbuf/scene/io"
	"github.com/urfave/cli"
)

// Compile built-in scenes to the binary archive format.
func CompileScene(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	names := ctx.Args()
	if ctx.Bool("all") {
		names = scene.BuiltinNames()
	}
	if len(names) == 0 {
		return errors.New("missing scene name argument")
	}

	outDir := ctx.String("out")
	for _, name := range names {
		sc, err := scene.Builtin(name)
		if err != nil {
			return err
		}

		logger.Noticef("scene %q: %d primitives, %d materials", sc.Name, len(sc.Primitives), len(sc.Materials))

		start := time.Now()
		zipFile := filepath.Join(outDir, fmt.Sprintf("%s.zip", name))
		if err = io.WriteScene(sc, zipFile); err != nil {
			return err
		}
		logger.Noticef("wrote %s in %s", zipFile, time.Since(start))
	}

	return nil
}
