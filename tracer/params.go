package tracer

import (
	"fmt"

	"github.com/achilleasa/polaris-gbuf/gbuffer"
	"github.com/achilleasa/polaris-gbuf/media"
	"github.com/achilleasa/polaris-gbuf/optics"
	"github.com/achilleasa/polaris-gbuf/scene"
	"github.com/achilleasa/polaris-gbuf/texture"
	"github.com/achilleasa/polaris-gbuf/types"
)

// The max supported reflect/refract depth.
const MaxBounceDepth = 8

// WaterParams control the animated water normal perturbation.
type WaterParams struct {
	// Tileable normal map; xy are stored in [0, 1].
	Normals texture.Sampler

	WaveSpeed    float32
	WaveStrength float32

	// World-space area covered by one normal map tile.
	TextureAreaScale float32

	// Scales the ray cone based lookup derivative.
	TextureDerivativesMultiplier float32
}

// FrameParams is the immutable context shared by all pixels of a frame.
type FrameParams struct {
	View *scene.FrameView

	// Regular (full resolution) frame dims.
	Width  uint32
	Height uint32

	// Sub-pixel jitter in pixels.
	Jitter types.Vec2

	// The media surrounding the camera.
	CameraMedia media.Type

	// Max reflect/refract depth of the secondary stage.
	MaxDepth uint32

	Media  media.Model
	Portal PortalTransform
	Water  WaterParams

	WorldUp types.Vec3

	// Disable reflections when viewing no-media-change geometry from the inside.
	NoBackfaceReflForNoMediaChange bool

	// Animation time in seconds.
	Time float32

	// True if the sky was rasterized into the albedo plane before tracing.
	SkyRasterized bool

	// Ray cone spread angle of a camera pixel.
	SpreadAngle float32
}

// Get the default frame parameters. View, frame dims and spread angle must
// be filled in by the caller; see Prepare.
func DefaultFrameParams() FrameParams {
	return FrameParams{
		CameraMedia: media.Vacuum,
		MaxDepth:    2,
		Media:       media.DefaultModel(),
		Portal:      NewPortalTransform(scene.Portal{Rotation: types.QuatIdent()}),
		Water: WaterParams{
			Normals:                      texture.NewWaves(),
			WaveSpeed:                    1,
			WaveStrength:                 1,
			TextureAreaScale:             1,
			TextureDerivativesMultiplier: 1,
		},
		WorldUp:                        types.Vec3{0, 1, 0},
		NoBackfaceReflForNoMediaChange: true,
	}
}

// Bind the camera and frame dims to the parameters.
func (p *FrameParams) Prepare(view *scene.FrameView, width, height uint32) {
	p.View = view
	p.Width = width
	p.Height = height
	p.SpreadAngle = optics.CameraSpreadAngle(view.FovY, height)
}

// Check the parameters for values the stages cannot handle.
func (p *FrameParams) Validate() error {
	if p.View == nil {
		return fmt.Errorf("tracer: no frame view bound to frame params")
	}
	if p.Width == 0 || p.Height == 0 {
		return fmt.Errorf("tracer: invalid frame size %dx%d", p.Width, p.Height)
	}
	if p.Width%2 != 0 {
		return fmt.Errorf("tracer: frame width %d must be even", p.Width)
	}
	if p.MaxDepth > MaxBounceDepth {
		return fmt.Errorf("tracer: max depth %d exceeds the supported limit %d", p.MaxDepth, MaxBounceDepth)
	}
	if p.Water.Normals == nil {
		return fmt.Errorf("tracer: no water normal map")
	}
	return nil
}

// Checkerboard mapping of the frame.
func (p *FrameParams) Checkerboard() gbuffer.Checkerboard {
	return gbuffer.Checkerboard{Width: p.Width, Height: p.Height}
}
