package renderer

import "github.com/achilleasa/polaris-gbuf/gbuffer"

type Renderer interface {
	// Render frame.
	Render() error

	// Abort an in-progress render; Render returns ErrInterrupted.
	Interrupt()

	// Shutdown renderer and any attached tracer.
	Close()

	// Get the framebuffers written by the last frame.
	Framebuffers() *gbuffer.Framebuffers

	// Get render statistics.
	Stats() FrameStats
}
