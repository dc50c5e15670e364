package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/achilleasa/polaris-gbuf/asset"
	"github.com/achilleasa/polaris-gbuf/gbuffer"
	"github.com/achilleasa/polaris-gbuf/log"
	"github.com/achilleasa/polaris-gbuf/media"
	"github.com/achilleasa/polaris-gbuf/renderer"
	"github.com/achilleasa/polaris-gbuf/scene/io"
	"github.com/achilleasa/polaris-gbuf/texture"
	"github.com/achilleasa/polaris-gbuf/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render G-buffer frames and dump the selected channels as PNG images.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene argument")
	}

	opts, err := renderOptions(ctx)
	if err != nil {
		return err
	}

	scheduler, err := blockScheduler(ctx.String("scheduler"))
	if err != nil {
		return err
	}

	channels, err := selectChannels(ctx.StringSlice("channel"))
	if err != nil {
		return err
	}

	sc, err := io.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	r, err := renderer.NewDefault(sc, scheduler, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	// Abort the frame on ^C
	sigChan := make(chan os.Signal, 1)
	doneChan := make(chan struct{})
	signal.Notify(sigChan, os.Interrupt)
	defer func() {
		signal.Stop(sigChan)
		close(doneChan)
	}()
	go watchInterrupt(r, sigChan, doneChan)

	numFrames := ctx.Int("frames")
	if numFrames < 1 {
		numFrames = 1
	}
	for frame := 0; frame < numFrames; frame++ {
		if err = r.Render(); err != nil {
			return err
		}
		displayFrameStats(r.Stats())
	}

	return dumpChannels(r.Framebuffers(), channels, ctx.String("out"))
}

// Interrupt the renderer when a signal arrives. Returns once doneChan is closed.
func watchInterrupt(r renderer.Renderer, sigChan <-chan os.Signal, doneChan <-chan struct{}) {
	select {
	case <-sigChan:
		r.Interrupt()
	case <-doneChan:
	}
}

func renderOptions(ctx *cli.Context) (renderer.Options, error) {
	opts := renderer.DefaultOptions(uint32(ctx.Int("width")), uint32(ctx.Int("height")))
	opts.MaxDepth = uint32(ctx.Int("depth"))
	opts.NumTracers = ctx.Int("tracers")
	opts.Jitter = ctx.Bool("jitter")
	opts.SkyRasterized = ctx.Bool("sky-rasterized")
	opts.NoBackfaceReflForNoMediaChange = !ctx.Bool("backface-refl")
	opts.Time = float32(ctx.Float64("time"))

	cameraMedia, err := media.ParseType(ctx.String("media"))
	if err != nil {
		return opts, err
	}
	opts.CameraMedia = cameraMedia

	if file := ctx.String("water-normals"); file != "" {
		res, err := asset.NewResource(file, nil)
		if err != nil {
			return opts, err
		}
		defer res.Close()

		normals, err := texture.Load(res)
		if err != nil {
			return opts, err
		}
		logger.Infof("loaded water normal map %s with %d mip levels", file, normals.Levels())
		opts.WaterNormals = normals
	}

	return opts, nil
}

func blockScheduler(name string) (tracer.BlockScheduler, error) {
	switch name {
	case "naive":
		return tracer.NaiveScheduler(), nil
	case "perfect":
		return tracer.PerfectScheduler(), nil
	}
	return nil, fmt.Errorf("unknown block scheduler %q", name)
}

// Map channel names to channels. An empty list selects every channel.
func selectChannels(names []string) ([]gbuffer.Channel, error) {
	all := gbuffer.Channels()
	if len(names) == 0 {
		channels := make([]gbuffer.Channel, len(all))
		for index, info := range all {
			channels[index] = info.Channel
		}
		return channels, nil
	}

	channels := make([]gbuffer.Channel, 0, len(names))
	for _, name := range names {
		found := false
		for _, info := range all {
			if strings.EqualFold(info.Name, name) {
				channels = append(channels, info.Channel)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown channel %q", name)
		}
	}
	return channels, nil
}

func dumpChannels(fb *gbuffer.Framebuffers, channels []gbuffer.Channel, outDir string) error {
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return err
	}

	start := time.Now()
	for _, channel := range channels {
		imgFile := filepath.Join(outDir, fmt.Sprintf("%s.png", channel))
		f, err := os.Create(imgFile)
		if err != nil {
			return err
		}

		err = fb.DumpChannel(f, channel)
		f.Close()
		if err != nil {
			return fmt.Errorf("could not write %s: %w", imgFile, err)
		}
		logger.Infof("wrote %s", imgFile)
	}
	logger.Noticef("wrote %d channels to %s in %s", len(channels), outDir, time.Since(start))
	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	if !log.IsEnabled(log.Notice) {
		return
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Stage", "Block height", "% of frame", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			stat.Stage.String(),
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
		})
	}
	for _, stage := range []tracer.Stage{tracer.SkyStage, tracer.PrimaryStage, tracer.SecondaryStage} {
		if elapsed, ok := stats.StageTimes[stage]; ok {
			table.Append([]string{"", stage.String(), "", "TOTAL", elapsed.String()})
		}
	}
	table.SetFooter([]string{"", "", "", "FRAME", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame %d statistics\n%s", stats.Frame, buf.String())
}
