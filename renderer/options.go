package renderer

import (
	"github.com/achilleasa/polaris-gbuf/media"
	"github.com/achilleasa/polaris-gbuf/texture"
)

type Options struct {
	// Frame dims. The width must be even.
	FrameW uint32
	FrameH uint32

	// Max reflect/refract depth of the secondary stage.
	MaxDepth uint32

	// Number of cpu tracers; 0 selects one per cpu.
	NumTracers int

	// The media surrounding the camera.
	CameraMedia media.Type

	// Apply halton sub-pixel jitter indexed by the frame counter.
	Jitter bool

	// Disable reflections when viewing no-media-change geometry from the inside.
	NoBackfaceReflForNoMediaChange bool

	// Rasterize the sky into the albedo plane before the primary stage.
	SkyRasterized bool

	// Water normal map; nil selects the procedural waves.
	WaterNormals texture.Sampler

	// Animation time in seconds for the first frame and the step between frames.
	Time      float32
	TimeDelta float32
}

// Get the default options for a frame of the given size.
func DefaultOptions(frameW, frameH uint32) Options {
	return Options{
		FrameW:                         frameW,
		FrameH:                         frameH,
		MaxDepth:                       2,
		CameraMedia:                    media.Vacuum,
		NoBackfaceReflForNoMediaChange: true,
		TimeDelta:                      1.0 / 60,
	}
}
