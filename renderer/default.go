package renderer

import (
	"fmt"
	"runtime"
	"time"

	"github.com/achilleasa/polaris-gbuf/gbuffer"
	"github.com/achilleasa/polaris-gbuf/log"
	"github.com/achilleasa/polaris-gbuf/scene"
	"github.com/achilleasa/polaris-gbuf/tracer"
	"github.com/achilleasa/polaris-gbuf/tracer/cpu"
)

// The default renderer drives a pool of cpu tracers. Every stage of a frame
// is split into row blocks and the next stage starts only after all blocks
// of the previous one completed.
type defaultRenderer struct {
	logger log.Logger

	options   Options
	scene     *scene.Scene
	world     *scene.World
	scheduler tracer.BlockScheduler
	tracers   []tracer.Tracer

	framebuffers *gbuffer.Framebuffers

	// Camera of the previous frame for motion vectors.
	prevCamera *scene.Camera

	frame         uint32
	stats         FrameStats
	interruptChan chan struct{}
}

// Create a new default renderer using the specified block scheduler.
func NewDefault(sc *scene.Scene, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	if err := validateOptions(sc, opts); err != nil {
		return nil, err
	}

	world, err := scene.NewWorld(sc)
	if err != nil {
		return nil, fmt.Errorf("renderer: could not build world: %w", err)
	}

	r := &defaultRenderer{
		logger:        log.New("renderer"),
		options:       opts,
		scene:         sc,
		world:         world,
		scheduler:     scheduler,
		framebuffers:  gbuffer.NewFramebuffers(opts.FrameW, opts.FrameH),
		interruptChan: make(chan struct{}, 1),
	}

	numTracers := opts.NumTracers
	if numTracers <= 0 {
		numTracers = runtime.NumCPU()
	}
	for i := 0; i < numTracers; i++ {
		tr := cpu.NewTracer(fmt.Sprintf("cpu-%d", i), 1)
		if err = tr.Setup(world); err != nil {
			tr.Close()
			r.Close()
			return nil, err
		}
		r.tracers = append(r.tracers, tr)
	}
	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}

	// Fail early on params the stages cannot handle
	if _, err = r.frameParams(); err != nil {
		r.Close()
		return nil, err
	}

	r.logger.Infof("attached %d tracers for a %dx%d frame", len(r.tracers), opts.FrameW, opts.FrameH)
	return r, nil
}

func validateOptions(sc *scene.Scene, opts Options) error {
	if sc == nil {
		return ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return ErrCameraNotDefined
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidFrameSize, opts.FrameW, opts.FrameH)
	}
	if opts.FrameW%2 != 0 {
		return fmt.Errorf("%w: got %d", ErrOddFrameWidth, opts.FrameW)
	}
	return nil
}

// Build the immutable frame context for the current camera.
func (r *defaultRenderer) frameParams() (*tracer.FrameParams, error) {
	cam := r.scene.Camera
	cam.SetupProjection(float32(r.options.FrameW) / float32(r.options.FrameH))
	view := scene.NewFrameView(cam, r.prevCamera)

	p := tracer.DefaultFrameParams()
	p.Prepare(&view, r.options.FrameW, r.options.FrameH)
	p.MaxDepth = r.options.MaxDepth
	p.CameraMedia = r.options.CameraMedia
	p.Portal = tracer.NewPortalTransform(r.scene.Portal)
	p.NoBackfaceReflForNoMediaChange = r.options.NoBackfaceReflForNoMediaChange
	p.SkyRasterized = r.options.SkyRasterized
	p.Time = r.options.Time + float32(r.frame)*r.options.TimeDelta
	if r.options.Jitter {
		p.Jitter = tracer.HaltonJitter(r.frame)
	}
	if r.options.WaterNormals != nil {
		p.Water.Normals = r.options.WaterNormals
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("renderer: invalid frame parameters: %w", err)
	}
	return &p, nil
}

// Render frame.
func (r *defaultRenderer) Render() error {
	if len(r.tracers) == 0 {
		return ErrNoTracers
	}

	// Discard interrupts raised between frames
	select {
	case <-r.interruptChan:
	default:
	}

	params, err := r.frameParams()
	if err != nil {
		return err
	}

	start := time.Now()
	r.framebuffers.Clear()
	r.stats = FrameStats{
		Frame:      r.frame,
		StageTimes: make(map[tracer.Stage]time.Duration),
	}

	stages := []tracer.Stage{tracer.PrimaryStage, tracer.SecondaryStage}
	if params.SkyRasterized {
		stages = append([]tracer.Stage{tracer.SkyStage}, stages...)
	}
	for _, stage := range stages {
		if err = r.renderStage(stage, params); err != nil {
			return err
		}
	}

	r.stats.RenderTime = time.Since(start)
	r.prevCamera = r.scene.Camera.Clone()
	r.frame++

	r.logger.Debugf("rendered frame %d in %s", r.stats.Frame, r.stats.RenderTime)
	return nil
}

// Dispatch a stage to the tracers and wait for all blocks to complete.
func (r *defaultRenderer) renderStage(stage tracer.Stage, params *tracer.FrameParams) error {
	start := time.Now()
	frameH := r.options.FrameH
	blockAssignment := r.scheduler.Schedule(r.tracers, frameH)

	doneChan := make(chan uint32, len(r.tracers))
	errChan := make(chan error, len(r.tracers))

	var blockY uint32
	pending := 0
	for index, tr := range r.tracers {
		blockH := blockAssignment[index]
		if blockH == 0 {
			continue
		}

		tr.Enqueue(tracer.BlockRequest{
			BlockY:       blockY,
			BlockH:       blockH,
			Stage:        stage,
			Params:       params,
			Framebuffers: r.framebuffers,
			DoneChan:     doneChan,
			ErrChan:      errChan,
		})
		blockY += blockH
		pending++
	}

	var stageErr error
	for ; pending > 0 && stageErr == nil; pending-- {
		select {
		case <-doneChan:
		case err := <-errChan:
			r.logger.Errorf("%s stage failed: %v", stage, err)
			stageErr = err
		case <-r.interruptChan:
			r.logger.Notice("render interrupted")
			stageErr = ErrInterrupted
			pending++
		}
	}
	if stageErr != nil {
		// Blocks still in flight write to the framebuffers
		for ; pending > 0; pending-- {
			select {
			case <-doneChan:
			case <-errChan:
			}
		}
		return stageErr
	}

	elapsed := time.Since(start)
	r.stats.StageTimes[stage] = elapsed
	for index, tr := range r.tracers {
		if blockAssignment[index] == 0 {
			continue
		}
		trStats := tr.Stats()
		r.stats.Tracers = append(r.stats.Tracers, TracerStat{
			Id:           tr.Id(),
			Stage:        stage,
			BlockH:       trStats.BlockH,
			FramePercent: 100 * float32(trStats.BlockH) / float32(frameH),
			RenderTime:   trStats.RenderTime,
		})
	}

	r.logger.Debugf("%s stage completed in %s", stage, elapsed)
	return nil
}

// Abort an in-progress render.
func (r *defaultRenderer) Interrupt() {
	select {
	case r.interruptChan <- struct{}{}:
	default:
	}
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Get the framebuffers written by the last frame.
func (r *defaultRenderer) Framebuffers() *gbuffer.Framebuffers {
	return r.framebuffers
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}
