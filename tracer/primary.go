package tracer

import (
	"github.com/achilleasa/polaris-gbuf/gbuffer"
	"github.com/achilleasa/polaris-gbuf/media"
	"github.com/achilleasa/polaris-gbuf/scene"
)

// TracePrimary casts the camera ray of a regular pixel and writes the full
// attribute set of its checkerboard pixel, the resume data for the secondary
// stage and the full resolution depth/motion copies.
func TracePrimary(world World, p *FrameParams, fb *gbuffer.Framebuffers, regular gbuffer.Pixel) {
	pix := p.Checkerboard().ToCheckerboard(regular)
	rays := p.cameraRays(regular)
	origin := p.View.Position

	payload := world.TraceRay(origin, rays.dir, scene.TraceOptions{Exclude: scene.MissPayload()})
	currentMedia := p.CameraMedia

	if !payload.HasHit() {
		throughput := p.Media.SkyTransmittance(currentMedia, rays.dir, p.WorldUp)
		motion := p.View.MotionForInfinitePoint(rays.dir)
		depthNDC := gbuffer.MaxRayLength * 2

		fb.StoreSky(pix, gbuffer.SkyRecord{
			Albedo:     world.Sky(rays.dir),
			KeepAlbedo: p.SkyRasterized,
			Motion:     motion,
			DepthNDC:   depthNDC,
			ViewDir:    rays.dir,
			Throughput: throughput,
		})
		fb.StoreResume(pix, 0, 0, false)
		fb.StoreTemporal(regular, depthNDC, motion, 0)
		return
	}

	h := world.DecodePrimary(payload, scene.PrimaryQuery{
		View:        p.View,
		Origin:      origin,
		Dir:         rays.dir,
		DirAX:       rays.ax,
		DirAY:       rays.ay,
		SpreadAngle: p.SpreadAngle,
	})

	throughput := p.Media.Transmittance(currentMedia, h.DepthLinear)

	fb.StoreSurface(pix, gbuffer.SurfaceRecord{
		Surface:       &h,
		Depth:         h.DepthLinear,
		DepthNDC:      h.DepthNDC,
		VisibilityKey: payload.VisibilityKey(),
		ViewDir:       rays.dir,
		Throughput:    throughput,
	})
	fb.StoreResume(pix, h.GeometryInstanceFlags, payload.InstIDAndIndex, true)
	fb.StoreTemporal(regular, h.DepthNDC, h.MotionCurToPrev, h.MotionDepthLinearCurToPrev)
}

// RasterizeSky writes the sky color seen by the camera ray of a regular pixel
// to the albedo plane. Used when FrameParams.SkyRasterized is set.
func RasterizeSky(world World, p *FrameParams, fb *gbuffer.Framebuffers, regular gbuffer.Pixel) {
	pix := p.Checkerboard().ToCheckerboard(regular)
	sky := world.Sky(p.cameraRays(regular).dir)
	fb.Float(gbuffer.Albedo).Set(pix, [4]float32{sky[0], sky[1], sky[2], gbuffer.SkyEmissionMarker})
}

// Get the media on the far side of a surface for bounce i. A camera placed
// inside a volume is assumed to exit into vacuum on the first bounce.
func (p *FrameParams) newRayMedia(i int, geomFlags uint32) media.Type {
	if i == 0 && p.CameraMedia != media.Vacuum {
		return media.Vacuum
	}
	return media.FromFlags(geomFlags)
}
