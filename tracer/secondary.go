package tracer

import (
	"github.com/achilleasa/polaris-gbuf/gbuffer"
	"github.com/achilleasa/polaris-gbuf/media"
	"github.com/achilleasa/polaris-gbuf/optics"
	"github.com/achilleasa/polaris-gbuf/scene"
	"github.com/achilleasa/polaris-gbuf/types"
)

// pathState is carried across the bounces of a secondary path.
type pathState struct {
	origin       types.Vec3
	dir          types.Vec3
	currentMedia media.Type
	throughput   types.Vec3
	cone         optics.RayCone

	fullPathLength float32
	virtualPos     types.Vec3

	wasSplit  bool
	wasPortal bool
}

// TraceSecondary follows the reflection, refraction and portal chain that
// starts at the primary surface of a regular pixel. The attributes of the
// checkerboard pixel are overwritten with the last surface (or the sky) of
// the path; if no bounce was taken the primary attributes are left intact.
//
// The two checkerboard pixels covering a regular pixel pair pick opposite
// branches at the first reflect/refract event and double their throughput.
func TraceSecondary(world World, p *FrameParams, fb *gbuffer.Framebuffers, regular gbuffer.Pixel) {
	if p.MaxDepth == 0 {
		return
	}

	cb := p.Checkerboard()
	pix := cb.ToCheckerboard(regular)
	primary := fb.LoadPrimary(pix)
	if !primary.Hit {
		return
	}

	rays := p.cameraRays(regular)
	cameraOrigin := p.View.Position

	h := scene.Surface{
		Albedo:                primary.Albedo,
		NormalGeom:            primary.NormalGeom,
		HitPosition:           primary.Position,
		GeometryInstanceFlags: primary.GeomFlags,
	}
	payload := primary.Payload
	firstHitDepthNDC := primary.DepthNDC

	st := pathState{
		dir:            rays.dir,
		currentMedia:   p.CameraMedia,
		throughput:     primary.Throughput,
		cone:           optics.NewRayCone(p.SpreadAngle),
		fullPathLength: primary.DepthLinear,
		virtualPos:     primary.Position,
	}
	st.cone.Propagate(primary.DepthLinear)

	hitInfoWasOverwritten := false

	for i := 0; i < int(p.MaxDepth); i++ {
		if payload.CustomIndex()&scene.CustomIndexFlagReflectRefract == 0 {
			break
		}

		isPixOdd := cb.IsOdd(pix)
		newMedia := p.newRayMedia(i, h.GeometryInstanceFlags)

		caps := DecodeCapabilities(h.GeometryInstanceFlags)
		if !caps.Any() {
			break
		}
		toRefract := caps.CanRefract

		curIOR := p.Media.IndexOfRefraction(st.currentMedia)
		newIOR := p.Media.IndexOfRefraction(newMedia)

		isWater := !caps.IsPortal && (newMedia == media.Water || st.currentMedia == media.Water)
		normal := p.shadingNormal(h.HitPosition, h.NormalGeom, st.cone, st.dir, isWater, st.wasPortal)

		delaySplit := false
		if caps.NoMediaChange {
			// Absorb a unit of the volume media but keep travelling
			// through the current one; indices of refraction still differ
			st.throughput = st.throughput.MulVec(p.Media.Transmittance(newMedia, 1))
			newMedia = st.currentMedia
			delaySplit = p.NoBackfaceReflForNoMediaChange && isBackface(h.NormalGeom, st.dir)
		}

		st.origin = h.HitPosition
		doSplit := !st.wasSplit

		if delaySplit {
			doSplit = false
			toRefract = true
			isPixOdd = true
		}

		var (
			doRefraction bool
			refractDir   types.Vec3
			fresnel      float32
			canRefract   bool
		)
		if toRefract {
			refractDir, canRefract = optics.Refract(curIOR, newIOR, st.dir, normal)
		}
		if canRefract {
			doRefraction = isPixOdd
			fresnel = optics.FresnelSchlick(curIOR, newIOR, st.dir.Neg(), normal)
		} else {
			// Total internal reflection or a reflect-only surface
			doRefraction = false
			doSplit = false
			fresnel = 1
		}

		switch {
		case doRefraction:
			st.dir = refractDir
			st.throughput = st.throughput.Mul(1 - fresnel)
			st.currentMedia = newMedia
		case caps.IsPortal:
			st.dir = p.Portal.Dir(st.dir)
			st.origin = p.Portal.Point(st.origin)
			st.throughput = st.throughput.MulVec(h.Albedo)
			st.wasPortal = true
		default:
			st.dir = optics.Reflect(st.dir, normal)
			st.throughput = st.throughput.Mul(fresnel)
		}

		if doSplit {
			st.throughput = st.throughput.Mul(2)
			st.wasSplit = true
		}

		switch caps.AlbedoOp {
		case AlbedoMultiply:
			st.throughput = st.throughput.MulVec(h.Albedo)
		case AlbedoAdd:
			st.throughput = st.throughput.Add(h.Albedo)
		}

		payload = world.TraceRay(st.origin, st.dir, scene.TraceOptions{
			CustomIndex: payload.CustomIndex(),
			GeomFlags:   h.GeometryInstanceFlags,
			Exclude:     payload,
			Refraction:  doRefraction,
		})

		if !payload.HasHit() {
			st.throughput = st.throughput.MulVec(p.Media.SkyTransmittance(st.currentMedia, st.dir, p.WorldUp))
			fb.StoreSky(pix, gbuffer.SkyRecord{
				Albedo:     world.Sky(st.dir),
				Motion:     p.View.MotionForInfinitePoint(rays.dir),
				DepthNDC:   firstHitDepthNDC,
				ViewDir:    st.dir,
				Throughput: st.throughput,
				WasSplit:   st.wasSplit,
			})
			return
		}

		q := scene.SecondaryQuery{
			View:           p.View,
			CameraOrigin:   cameraOrigin,
			CameraDir:      rays.dir,
			CameraDirAX:    rays.ax,
			CameraDirAY:    rays.ay,
			RayOrigin:      st.origin,
			RayDir:         st.dir,
			FullPathLength: st.fullPathLength,
			Cone:           st.cone,
			VirtualPos:     st.virtualPos,
		}
		if doRefraction || caps.IsPortal {
			h = world.DecodeRefraction(payload, q)
		} else {
			h = world.DecodeReflection(payload, q)
		}

		hitInfoWasOverwritten = true
		st.throughput = st.throughput.MulVec(p.Media.Transmittance(st.currentMedia, h.RayLen))
		st.cone.Propagate(h.RayLen)
		st.fullPathLength += h.RayLen
		st.virtualPos = h.VirtualPosition
	}

	if !hitInfoWasOverwritten {
		return
	}

	fb.StoreSurface(pix, gbuffer.SurfaceRecord{
		Surface:       &h,
		Depth:         st.fullPathLength,
		DepthNDC:      firstHitDepthNDC,
		VisibilityKey: payload.VisibilityKey(),
		ViewDir:       st.dir,
		Throughput:    st.throughput,
		WasSplit:      st.wasSplit,
	})
}
