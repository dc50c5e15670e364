package renderer

import (
	"time"

	"github.com/achilleasa/polaris-gbuf/tracer"
)

type TracerStat struct {
	// The tracer id.
	Id string

	// The stage this block ran.
	Stage tracer.Stage

	// The block height and the percentage of total frame area it represents.
	BlockH       uint32
	FramePercent float32

	// Render time for assigned block
	RenderTime time.Duration
}

type FrameStats struct {
	// Frame counter, starting at 0.
	Frame uint32

	// Individual tracer stats for every stage.
	Tracers []TracerStat

	// Wall time per stage.
	StageTimes map[tracer.Stage]time.Duration

	// Total render time for entire frame.
	RenderTime time.Duration
}
