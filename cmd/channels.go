package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/polaris-gbuf/gbuffer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List the G-buffer channels and their layout.
func ListChannels(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Channel", "Format", "Resolution", "Components"})
	for _, info := range gbuffer.Channels() {
		resolution := "checkerboard"
		if info.FullResolution {
			resolution = "full"
		}
		table.Append([]string{info.Name, info.Format, resolution, info.Components})
	}
	table.Render()

	fmt.Print(buf.String())
	return nil
}
