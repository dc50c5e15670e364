package tracer

import (
	"time"

	"github.com/achilleasa/polaris-gbuf/gbuffer"
	"github.com/achilleasa/polaris-gbuf/scene"
	"github.com/achilleasa/polaris-gbuf/types"
)

// Stage selects the per-pixel program executed for a block.
type Stage uint8

const (
	PrimaryStage Stage = iota
	SecondaryStage

	// Writes the sky color to the albedo plane ahead of the primary stage.
	SkyStage
)

func (s Stage) String() string {
	switch s {
	case PrimaryStage:
		return "primary"
	case SecondaryStage:
		return "secondary"
	case SkyStage:
		return "sky"
	}
	return "unknown"
}

// World provides ray casting and hit decoding for the tracing stages.
type World interface {
	// Find the nearest hit along a ray.
	TraceRay(origin, dir types.Vec3, opts scene.TraceOptions) scene.Payload

	// Decode the surface attributes of a hit.
	DecodePrimary(p scene.Payload, q scene.PrimaryQuery) scene.Surface
	DecodeReflection(p scene.Payload, q scene.SecondaryQuery) scene.Surface
	DecodeRefraction(p scene.Payload, q scene.SecondaryQuery) scene.Surface

	// Evaluate the sky along a direction.
	Sky(dir types.Vec3) types.Vec3
}

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The stage to run for every pixel in the block.
	Stage Stage

	// Read-only frame context.
	Params *FrameParams

	// The framebuffers to write. Blocks never overlap so concurrent
	// requests may share them.
	Framebuffers *gbuffer.Framebuffers

	// A channel to signal on block completion with the number of completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The rendered block height
	BlockH uint32

	// The time for rendering this block
	RenderTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Shutdown and cleanup tracer.
	Close()

	// Get the tracers computation speed estimate compared to a
	// baseline implementation.
	SpeedEstimate() float32

	// Attach the world to trace against.
	Setup(world World) error

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Retrieve last block statistics.
	Stats() *Stats
}

// Run a stage for every pixel in the rows of a block. Rows are regular
// (full resolution) rows; each pixel writes only its own checkerboard pixel.
func RenderBlock(world World, req *BlockRequest) {
	p := req.Params
	for y := req.BlockY; y < req.BlockY+req.BlockH && y < p.Height; y++ {
		for x := uint32(0); x < p.Width; x++ {
			pix := gbuffer.Pixel{X: x, Y: y}
			switch req.Stage {
			case PrimaryStage:
				TracePrimary(world, p, req.Framebuffers, pix)
			case SecondaryStage:
				TraceSecondary(world, p, req.Framebuffers, pix)
			case SkyStage:
				RasterizeSky(world, p, req.Framebuffers, pix)
			}
		}
	}
}
