package tracer

import (
	"math"
	"testing"

	"github.com/achilleasa/polaris-gbuf/gbuffer"
	"github.com/achilleasa/polaris-gbuf/media"
	"github.com/achilleasa/polaris-gbuf/optics"
	"github.com/achilleasa/polaris-gbuf/scene"
	"github.com/achilleasa/polaris-gbuf/types"
)

// mockWorld replays a fixed primary surface and a chain of secondary
// surfaces; rays beyond the chain miss.
type mockWorld struct {
	primary   *scene.Surface
	secondary []scene.Surface
	rayLen    float32

	origins []types.Vec3
	dirs    []types.Vec3
	next    int
}

func mockPayload(s *scene.Surface, prim uint32) scene.Payload {
	return scene.Payload{
		InstIDAndIndex: scene.PackInstanceIDAndCustomIndex(prim, s.InstCustomIndex),
		PrimitiveIndex: prim,
		T:              1,
	}
}

func (w *mockWorld) TraceRay(origin, dir types.Vec3, opts scene.TraceOptions) scene.Payload {
	if !opts.Exclude.HasHit() {
		if w.primary == nil {
			return scene.MissPayload()
		}
		return mockPayload(w.primary, 0)
	}

	w.origins = append(w.origins, origin)
	w.dirs = append(w.dirs, dir)
	if w.next >= len(w.secondary) {
		return scene.MissPayload()
	}
	w.next++
	return mockPayload(&w.secondary[w.next-1], uint32(w.next))
}

func (w *mockWorld) DecodePrimary(p scene.Payload, q scene.PrimaryQuery) scene.Surface {
	return *w.primary
}

func (w *mockWorld) decodeSecondary(p scene.Payload, q scene.SecondaryQuery) scene.Surface {
	s := w.secondary[p.PrimitiveIndex-1]
	s.RayLen = w.rayLen
	s.DepthLinear = q.FullPathLength + w.rayLen
	s.VirtualPosition = s.HitPosition
	return s
}

func (w *mockWorld) DecodeReflection(p scene.Payload, q scene.SecondaryQuery) scene.Surface {
	return w.decodeSecondary(p, q)
}

func (w *mockWorld) DecodeRefraction(p scene.Payload, q scene.SecondaryQuery) scene.Surface {
	return w.decodeSecondary(p, q)
}

func (w *mockWorld) Sky(dir types.Vec3) types.Vec3 {
	return types.Vec3{0.1, 0.2, 0.3}
}

// Setup a 2x1 frame; regular pixel 0 maps to the even grid and pixel 1 to the odd one.
func testParams(t *testing.T, camPrev *scene.Camera) *FrameParams {
	cam := scene.NewCamera(60)
	cam.SetupProjection(2)
	view := scene.NewFrameView(cam, camPrev)

	p := DefaultFrameParams()
	p.Prepare(&view, 2, 1)
	p.MaxDepth = 1
	if err := p.Validate(); err != nil {
		t.Fatal(err)
	}
	return &p
}

var testPixels = []gbuffer.Pixel{{X: 0, Y: 0}, {X: 1, Y: 0}}

func runPrimary(world World, p *FrameParams, fb *gbuffer.Framebuffers) {
	for _, pix := range testPixels {
		TracePrimary(world, p, fb, pix)
	}
}

func capableSurface(flags uint32, normal types.Vec3) scene.Surface {
	return scene.Surface{
		Albedo:                types.Vec3{0.5, 0.5, 0.5},
		Normal:                normal,
		NormalGeom:            normal,
		HitPosition:           types.Vec3{0, 0, -1},
		DepthLinear:           1,
		DepthNDC:              0.5,
		InstCustomIndex:       scene.CustomIndexFlagReflectRefract,
		GeometryInstanceFlags: flags,
		SectorArrayIndex:      3,
	}
}

func TestPrimarySkyWrite(t *testing.T) {
	prev := scene.NewCamera(60)
	prev.Position = types.Vec3{0, 0, 0}
	prev.LookAt = types.Vec3{1, 0.2, -1}
	prev.SetupProjection(2)

	p := testParams(t, prev)
	fb := gbuffer.NewFramebuffers(2, 1)
	runPrimary(&mockWorld{}, p, fb)

	cb := p.Checkerboard()
	for _, regular := range testPixels {
		pix := cb.ToCheckerboard(regular)
		rays := p.cameraRays(regular)

		depth := fb.Float(gbuffer.Depth).At(pix)
		if depth[0] != 2*gbuffer.MaxRayLength {
			t.Fatalf("[%v] expected sky depth %f; got %f", regular, 2*gbuffer.MaxRayLength, depth[0])
		}
		if sector := fb.Uint(gbuffer.SectorIndex).At(pix)[0]; sector != gbuffer.SectorIndexNone {
			t.Fatalf("[%v] expected sector %x; got %x", regular, gbuffer.SectorIndexNone, sector)
		}

		expMotion := p.View.MotionForInfinitePoint(rays.dir)
		motion := fb.Float(gbuffer.Motion).At(pix)
		if motion[0] != expMotion[0] || motion[1] != expMotion[1] {
			t.Fatalf("[%v] expected motion %v; got %v", regular, expMotion, motion)
		}
		if expMotion == (types.Vec2{}) {
			t.Fatalf("[%v] expected non-zero motion for a rotated camera", regular)
		}

		if albedo := fb.Float(gbuffer.Albedo).At(pix); albedo[0] != 0.1 || albedo[1] != 0.2 || albedo[2] != 0.3 {
			t.Fatalf("[%v] expected sky albedo; got %v", regular, albedo)
		}
		if resume := fb.Uint(gbuffer.PrimaryResume).At(pix); resume != [4]uint32{} {
			t.Fatalf("[%v] expected zero resume data; got %v", regular, resume)
		}
		if tp := fb.Float(gbuffer.Throughput).At(pix); tp != [4]float32{1, 1, 1, 0} {
			t.Fatalf("[%v] expected unit throughput in vacuum; got %v", regular, tp)
		}
		if d := fb.Float(gbuffer.TemporalDepth).At(regular)[0]; d != 1 {
			t.Fatalf("[%v] expected clamped temporal depth 1; got %f", regular, d)
		}
	}
}

func TestPrimarySkyAttenuatedInWater(t *testing.T) {
	p := testParams(t, nil)
	p.CameraMedia = media.Water
	fb := gbuffer.NewFramebuffers(2, 1)
	runPrimary(&mockWorld{}, p, fb)

	tp := fb.Float(gbuffer.Throughput).At(gbuffer.Pixel{})
	for i := 0; i < 3; i++ {
		if tp[i] >= 1 || tp[i] < 0 {
			t.Fatalf("expected attenuated throughput; got %v", tp)
		}
	}
}

func TestPrimaryRasterizedSkyKeepsAlbedo(t *testing.T) {
	p := testParams(t, nil)
	p.SkyRasterized = true
	fb := gbuffer.NewFramebuffers(2, 1)
	fb.Float(gbuffer.Albedo).Set(gbuffer.Pixel{}, [4]float32{0.7, 0.7, 0.7, 0})
	runPrimary(&mockWorld{}, p, fb)

	if albedo := fb.Float(gbuffer.Albedo).At(gbuffer.Pixel{}); albedo != [4]float32{0.7, 0.7, 0.7, 0} {
		t.Fatalf("expected rasterized sky albedo to be preserved; got %v", albedo)
	}
}

func TestSecondaryZeroDepthIsNoop(t *testing.T) {
	p := testParams(t, nil)
	surf := capableSurface(scene.GeomInstFlagReflect, types.Vec3{0, 0, 1})
	world := &mockWorld{primary: &surf, secondary: []scene.Surface{capableSurface(scene.GeomInstFlagReflect, types.Vec3{0, 0, 1})}, rayLen: 1}

	fb := gbuffer.NewFramebuffers(2, 1)
	runPrimary(world, p, fb)
	before := fb.Clone()

	p.MaxDepth = 0
	for _, pix := range testPixels {
		TraceSecondary(world, p, fb, pix)
	}
	if !fb.Equal(before) {
		t.Fatal("expected secondary stage with zero depth to leave the framebuffers untouched")
	}
	if len(world.dirs) != 0 {
		t.Fatalf("expected no secondary rays; got %d", len(world.dirs))
	}
}

func TestSecondaryLeavesNonCapableSurfaces(t *testing.T) {
	p := testParams(t, nil)
	p.MaxDepth = 4

	type spec struct {
		primary *scene.Surface
	}
	plain := capableSurface(scene.GeomInstFlagReflect, types.Vec3{0, 0, 1})
	plain.InstCustomIndex = 0
	noFlags := capableSurface(0, types.Vec3{0, 0, 1})
	specs := []spec{
		{nil},
		{&plain},
		{&noFlags},
	}

	for index, s := range specs {
		world := &mockWorld{primary: s.primary, secondary: []scene.Surface{capableSurface(scene.GeomInstFlagReflect, types.Vec3{0, 0, 1})}, rayLen: 1}
		fb := gbuffer.NewFramebuffers(2, 1)
		runPrimary(world, p, fb)
		before := fb.Clone()

		for _, pix := range testPixels {
			TraceSecondary(world, p, fb, pix)
		}
		if !fb.Equal(before) {
			t.Fatalf("[spec %d] expected framebuffers to match the primary stage output", index)
		}
	}
}

func TestRefractionAtNormalIncidence(t *testing.T) {
	p := testParams(t, nil)
	p.Media.IndexOfRefractionGlass = 1.5
	cb := p.Checkerboard()

	flags := scene.FlagsWithMedia(scene.GeomInstFlagRefract, media.Glass)
	expF := float32(0.04)

	var sum types.Vec3
	for _, regular := range testPixels {
		camDir := p.cameraRays(regular).dir
		surf := capableSurface(flags, camDir.Neg())
		world := &mockWorld{primary: &surf}

		fb := gbuffer.NewFramebuffers(2, 1)
		TracePrimary(world, p, fb, regular)
		TraceSecondary(world, p, fb, regular)

		if len(world.dirs) != 1 {
			t.Fatalf("[%v] expected one secondary ray; got %d", regular, len(world.dirs))
		}

		pix := cb.ToCheckerboard(regular)
		tp := fb.Float(gbuffer.Throughput).At(pix)
		if tp[3] != 1 {
			t.Fatalf("[%v] expected split flag to be set; got %v", regular, tp)
		}

		if cb.IsOdd(pix) {
			if !types.ApproxEqual(world.dirs[0], camDir, 1e-5) {
				t.Fatalf("[%v] expected refracted ray to continue along %v; got %v", regular, camDir, world.dirs[0])
			}
			if !types.ApproxEqualf(tp[0], 2*(1-expF), 1e-4) {
				t.Fatalf("[%v] expected throughput %f; got %f", regular, 2*(1-expF), tp[0])
			}
		} else {
			if !types.ApproxEqual(world.dirs[0], camDir.Neg(), 1e-5) {
				t.Fatalf("[%v] expected reflected ray along %v; got %v", regular, camDir.Neg(), world.dirs[0])
			}
			if !types.ApproxEqualf(tp[0], 2*expF, 1e-4) {
				t.Fatalf("[%v] expected throughput %f; got %f", regular, 2*expF, tp[0])
			}
		}
		sum = sum.Add(types.Vec3{tp[0], tp[1], tp[2]})
	}

	// Averaging both parities reconstructs F + (1 - F)
	if avg := sum.Mul(0.5); !types.ApproxEqual(avg, types.Vec3{1, 1, 1}, 1e-4) {
		t.Fatalf("expected parity average to conserve energy; got %v", avg)
	}
}

func TestSplitDoublesOnlyOnce(t *testing.T) {
	p := testParams(t, nil)
	p.MaxDepth = 3
	p.Media.IndexOfRefractionGlass = 1.5

	regular := testPixels[0]
	camDir := p.cameraRays(regular).dir
	flags := scene.FlagsWithMedia(scene.GeomInstFlagRefract|scene.GeomInstFlagReflect, media.Glass)

	// Reflected back towards the camera, then bounced between two mirrors
	surf := capableSurface(flags, camDir.Neg())
	mirror := capableSurface(scene.GeomInstFlagReflect, camDir)
	world := &mockWorld{primary: &surf, secondary: []scene.Surface{mirror, mirror, mirror}, rayLen: 2}

	fb := gbuffer.NewFramebuffers(2, 1)
	TracePrimary(world, p, fb, regular)
	TraceSecondary(world, p, fb, regular)

	if len(world.dirs) != 3 {
		t.Fatalf("expected the path to be bounded by the max depth; got %d rays", len(world.dirs))
	}

	pix := p.Checkerboard().ToCheckerboard(regular)
	tp := fb.Float(gbuffer.Throughput).At(pix)

	// Reflect with F=0.04 and split, then two full mirror reflections
	if !types.ApproxEqualf(tp[0], 0.08, 1e-4) || tp[3] != 1 {
		t.Fatalf("expected throughput 0.08 with split flag; got %v", tp)
	}

	depth := fb.Float(gbuffer.Depth).At(pix)
	if !types.ApproxEqualf(depth[0], 1+3*2, 1e-5) {
		t.Fatalf("expected full path length 7; got %f", depth[0])
	}
	if depth[3] != 0.5 {
		t.Fatalf("expected first hit NDC depth to be kept; got %f", depth[3])
	}
}

func TestNoMediaChangeBackfaceForcesRefraction(t *testing.T) {
	p := testParams(t, nil)
	p.NoBackfaceReflForNoMediaChange = true
	cb := p.Checkerboard()

	flags := scene.FlagsWithMedia(scene.GeomInstFlagRefract|scene.GeomInstFlagReflect|scene.GeomInstFlagNoMediaChange, media.Glass)
	for _, regular := range testPixels {
		camDir := p.cameraRays(regular).dir

		// Normal points along the ray: viewed from the inside
		surf := capableSurface(flags, camDir)
		world := &mockWorld{primary: &surf}

		fb := gbuffer.NewFramebuffers(2, 1)
		TracePrimary(world, p, fb, regular)
		TraceSecondary(world, p, fb, regular)

		if !types.ApproxEqual(world.dirs[0], camDir, 1e-5) {
			t.Fatalf("[%v] expected forced refraction along %v; got %v", regular, camDir, world.dirs[0])
		}
		// The pinned media keeps the ray in vacuum but the interface still
		// takes the glass index of refraction
		expTp := 1 - optics.FresnelSchlick(1, p.Media.IndexOfRefractionGlass, camDir.Neg(), camDir.Neg())
		tp := fb.Float(gbuffer.Throughput).At(cb.ToCheckerboard(regular))
		if tp[3] != 0 {
			t.Fatalf("[%v] expected split to be delayed; got %v", regular, tp)
		}
		if !types.ApproxEqual(types.Vec3{tp[0], tp[1], tp[2]}, types.Splat3(expTp), 1e-5) {
			t.Fatalf("[%v] expected throughput %f; got %v", regular, expTp, tp)
		}
	}
}

type bounceExpectation struct {
	dir        types.Vec3
	throughput types.Vec3
	depth      float32
	split      float32
}

// Rotate -dir by angle radians around an axis perpendicular to dir.
func tiltedNormal(dir types.Vec3, angle float32) types.Vec3 {
	side := dir.Cross(types.Vec3{0, 1, 0}).Normalize()
	cos := float32(math.Cos(float64(angle)))
	sin := float32(math.Sin(float64(angle)))
	return dir.Neg().Mul(cos).Add(side.Mul(sin)).Normalize()
}

func TestSecondaryBounceAttributes(t *testing.T) {
	type spec struct {
		name    string
		regular gbuffer.Pixel
		setup   func(p *FrameParams, camDir types.Vec3) (scene.Surface, []scene.Surface, bounceExpectation)
	}

	skyDepth := 2 * gbuffer.MaxRayLength
	tint := types.Vec3{0.5, 0.25, 1}
	specs := []spec{
		{
			name:    "albedo multiply",
			regular: testPixels[0],
			setup: func(p *FrameParams, camDir types.Vec3) (scene.Surface, []scene.Surface, bounceExpectation) {
				surf := capableSurface(scene.GeomInstFlagReflect|scene.GeomInstFlagReflRefrAlbedoMult, camDir.Neg())
				surf.Albedo = tint
				return surf, nil, bounceExpectation{camDir.Neg(), tint, skyDepth, 0}
			},
		},
		{
			name:    "albedo add",
			regular: testPixels[0],
			setup: func(p *FrameParams, camDir types.Vec3) (scene.Surface, []scene.Surface, bounceExpectation) {
				surf := capableSurface(scene.GeomInstFlagReflect|scene.GeomInstFlagReflRefrAlbedoAdd, camDir.Neg())
				surf.Albedo = tint
				return surf, nil, bounceExpectation{camDir.Neg(), types.Splat3(1).Add(tint), skyDepth, 0}
			},
		},
		{
			// The first bounce leaves a glass camera media through vacuum so a
			// grazing ray is totally reflected even though the surface is glass
			name:    "total internal reflection from camera media",
			regular: testPixels[1],
			setup: func(p *FrameParams, camDir types.Vec3) (scene.Surface, []scene.Surface, bounceExpectation) {
				p.CameraMedia = media.Glass
				normal := tiltedNormal(camDir, math.Pi/3)
				flags := scene.FlagsWithMedia(scene.GeomInstFlagRefract|scene.GeomInstFlagReflRefrAlbedoAdd, media.Glass)
				surf := capableSurface(flags, normal)
				return surf, nil, bounceExpectation{optics.Reflect(camDir, normal), types.Splat3(1.5), skyDepth, 0}
			},
		},
		{
			name:    "sky attenuated by the refracted media",
			regular: testPixels[1],
			setup: func(p *FrameParams, camDir types.Vec3) (scene.Surface, []scene.Surface, bounceExpectation) {
				p.Water.WaveStrength = 0
				p.WorldUp = camDir.Neg()
				surf := capableSurface(scene.FlagsWithMedia(scene.GeomInstFlagRefract, media.Water), camDir.Neg())

				f := optics.FresnelSchlick(1, p.Media.IndexOfRefractionWater, camDir.Neg(), camDir.Neg())
				ext := p.Media.WaterExtinction
				exp := types.Vec3{types.Exp(-ext[0]), types.Exp(-ext[1]), types.Exp(-ext[2])}.Mul(2 * (1 - f))
				return surf, nil, bounceExpectation{camDir, exp, skyDepth, 1}
			},
		},
		{
			name:    "segment transmittance",
			regular: testPixels[1],
			setup: func(p *FrameParams, camDir types.Vec3) (scene.Surface, []scene.Surface, bounceExpectation) {
				p.Media.IndexOfRefractionGlass = 1.5
				p.Media.GlassExtinction = types.Vec3{0.1, 0.2, 0.3}
				surf := capableSurface(scene.FlagsWithMedia(scene.GeomInstFlagRefract, media.Glass), camDir.Neg())
				wall := capableSurface(0, camDir.Neg())
				wall.InstCustomIndex = 0

				exp := types.Vec3{types.Exp(-0.2), types.Exp(-0.4), types.Exp(-0.6)}.Mul(2 * 0.96)
				return surf, []scene.Surface{wall}, bounceExpectation{camDir, exp, 3, 1}
			},
		},
	}

	for index, s := range specs {
		p := testParams(t, nil)
		camDir := p.cameraRays(s.regular).dir
		surf, secondary, exp := s.setup(p, camDir)
		world := &mockWorld{primary: &surf, secondary: secondary, rayLen: 2}

		fb := gbuffer.NewFramebuffers(2, 1)
		TracePrimary(world, p, fb, s.regular)
		TraceSecondary(world, p, fb, s.regular)

		if len(world.dirs) != 1 {
			t.Fatalf("[spec %d: %s] expected one secondary ray; got %d", index, s.name, len(world.dirs))
		}
		if !types.ApproxEqual(world.dirs[0], exp.dir, 1e-5) {
			t.Fatalf("[spec %d: %s] expected ray direction %v; got %v", index, s.name, exp.dir, world.dirs[0])
		}

		pix := p.Checkerboard().ToCheckerboard(s.regular)
		tp := fb.Float(gbuffer.Throughput).At(pix)
		if !types.ApproxEqual(types.Vec3{tp[0], tp[1], tp[2]}, exp.throughput, 1e-4) {
			t.Fatalf("[spec %d: %s] expected throughput %v; got %v", index, s.name, exp.throughput, tp)
		}
		if tp[3] != exp.split {
			t.Fatalf("[spec %d: %s] expected split flag %f; got %f", index, s.name, exp.split, tp[3])
		}

		depth := fb.Float(gbuffer.Depth).At(pix)
		if !types.ApproxEqualf(depth[0], exp.depth, 1e-4) {
			t.Fatalf("[spec %d: %s] expected depth %f; got %f", index, s.name, exp.depth, depth[0])
		}
		if depth[3] != 0.5 {
			t.Fatalf("[spec %d: %s] expected first hit NDC depth 0.5; got %f", index, s.name, depth[3])
		}

		if exp.depth == skyDepth {
			if sector := fb.Uint(gbuffer.SectorIndex).At(pix)[0]; sector != gbuffer.SectorIndexNone {
				t.Fatalf("[spec %d: %s] expected sky sector; got %x", index, s.name, sector)
			}
		}
	}
}

func TestPortalBounce(t *testing.T) {
	p := testParams(t, nil)
	p.Portal = NewPortalTransform(scene.Portal{
		InputPosition: types.Vec3{0, 0, -1},
		Translation:   types.Vec3{10, 0, 0},
		Rotation:      types.QuatIdent(),
	})

	regular := testPixels[1]
	camDir := p.cameraRays(regular).dir
	surf := capableSurface(scene.GeomInstFlagPortal, camDir.Neg())
	surf.Albedo = types.Vec3{0.5, 0.25, 1}
	target := capableSurface(0, types.Vec3{0, 1, 0})
	target.InstCustomIndex = 0
	target.HitPosition = types.Vec3{10, 0, -3}
	world := &mockWorld{primary: &surf, secondary: []scene.Surface{target}, rayLen: 2}

	fb := gbuffer.NewFramebuffers(2, 1)
	TracePrimary(world, p, fb, regular)
	TraceSecondary(world, p, fb, regular)

	if !types.ApproxEqual(world.origins[0], types.Vec3{10, 0, -1}, 1e-5) {
		t.Fatalf("expected ray origin to be teleported; got %v", world.origins[0])
	}
	if !types.ApproxEqual(world.dirs[0], camDir, 1e-5) {
		t.Fatalf("expected direction to be preserved; got %v", world.dirs[0])
	}

	pix := p.Checkerboard().ToCheckerboard(regular)
	if tp := fb.Float(gbuffer.Throughput).At(pix); tp != [4]float32{0.5, 0.25, 1, 0} {
		t.Fatalf("expected portal tint throughput; got %v", tp)
	}
	if pos := fb.Float(gbuffer.SurfacePosition).At(pix); pos[0] != 10 || pos[2] != -3 {
		t.Fatalf("expected the surface behind the portal; got %v", pos)
	}
	if sector := fb.Uint(gbuffer.SectorIndex).At(pix)[0]; sector != 3 {
		t.Fatalf("expected sector of the surface behind the portal; got %d", sector)
	}
}

func TestPortalTransformRoundTrip(t *testing.T) {
	type spec struct {
		portal scene.Portal
		origin types.Vec3
		dir    types.Vec3
	}
	specs := []spec{
		{scene.Portal{Rotation: types.QuatIdent()}, types.Vec3{1, 2, 3}, types.Vec3{0, 0, -1}},
		{scene.Portal{InputPosition: types.Vec3{0, 1, 0}, Translation: types.Vec3{100, 0, 0}, Rotation: types.QuatFromAxisAngle(types.Vec3{0, 1, 0}, math.Pi/2)}, types.Vec3{0.5, 1, 0}, types.Vec3{0, 0, -1}},
		{scene.Portal{InputPosition: types.Vec3{3, -2, 1}, Translation: types.Vec3{-5, 7, 2}, Rotation: types.QuatFromAxisAngle(types.Vec3{1, 1, 0}, 0.7)}, types.Vec3{-4, 2, 9}, types.Vec3{0.6, 0, 0.8}},
	}

	for index, s := range specs {
		pt := NewPortalTransform(s.portal)
		inv := pt.Inverse()

		origin := inv.Point(pt.Point(s.origin))
		dir := inv.Dir(pt.Dir(s.dir))
		if !types.ApproxEqual(origin, s.origin, 1e-4) {
			t.Fatalf("[spec %d] expected origin %v; got %v", index, s.origin, origin)
		}
		if !types.ApproxEqual(dir, s.dir, 1e-5) {
			t.Fatalf("[spec %d] expected dir %v; got %v", index, s.dir, dir)
		}
	}
}

func TestDecodeCapabilities(t *testing.T) {
	type spec struct {
		flags uint32
		exp   Capabilities
	}
	specs := []spec{
		{0, Capabilities{}},
		{scene.GeomInstFlagPortal, Capabilities{IsPortal: true}},
		{scene.GeomInstFlagRefract | scene.GeomInstFlagReflect, Capabilities{CanRefract: true, CanReflect: true}},
		{scene.GeomInstFlagNoMediaChange | scene.GeomInstFlagReflRefrAlbedoAdd, Capabilities{NoMediaChange: true, AlbedoOp: AlbedoAdd}},
		{scene.GeomInstFlagReflRefrAlbedoMult | scene.GeomInstFlagReflRefrAlbedoAdd, Capabilities{AlbedoOp: AlbedoMultiply}},
		{scene.FlagsWithMedia(scene.GeomInstFlagReflect, media.Water), Capabilities{CanReflect: true}},
	}

	for index, s := range specs {
		if got := DecodeCapabilities(s.flags); got != s.exp {
			t.Fatalf("[spec %d] expected %+v; got %+v", index, s.exp, got)
		}
	}
}

func TestWaterNormal(t *testing.T) {
	p := testParams(t, nil)
	testCone := optics.RayCone{Width: 0.01, SpreadAngle: 0.001}
	up := types.Vec3{0, 1, 0}
	pos := types.Vec3{1.5, 0, -2}
	dir := types.Vec3{0, -1, 0}

	p.Water.WaveStrength = 0
	if n := p.shadingNormal(pos, up, testCone, dir, true, false); !types.ApproxEqual(n, up, 1e-5) {
		t.Fatalf("expected unperturbed normal at zero strength; got %v", n)
	}

	p.Water.WaveStrength = 1
	n := p.shadingNormal(pos, up, testCone, dir, true, false)
	if !types.ApproxEqualf(n.Len(), 1, 1e-4) {
		t.Fatalf("expected unit normal; got %v", n)
	}
	if n.Dot(up) <= 0.5 {
		t.Fatalf("expected perturbed normal to stay close to the surface normal; got %v", n)
	}

	// Backfacing normals are flipped before perturbation
	if n = p.shadingNormal(pos, up.Neg(), testCone, dir, false, false); !types.ApproxEqual(n, up, 1e-6) {
		t.Fatalf("expected flipped normal; got %v", n)
	}
}

func TestHaltonJitter(t *testing.T) {
	j := HaltonJitter(0)
	if !types.ApproxEqualf(j[0], 0, 1e-6) || !types.ApproxEqualf(j[1], 1.0/3-0.5, 1e-6) {
		t.Fatalf("expected first jitter (0, -1/6); got %v", j)
	}
	for frame := uint32(0); frame < 64; frame++ {
		j = HaltonJitter(frame)
		if j[0] < -0.5 || j[0] >= 0.5 || j[1] < -0.5 || j[1] >= 0.5 {
			t.Fatalf("[frame %d] jitter %v out of range", frame, j)
		}
	}
}
