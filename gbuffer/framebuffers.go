// Package gbuffer implements the per-pixel surface attribute planes written
// by the primary and secondary trace stages.
package gbuffer

import (
	"math"

	"github.com/achilleasa/polaris-gbuf/scene"
	"github.com/achilleasa/polaris-gbuf/types"
)

const (
	// Longest ray that can be cast. Sky pixels report twice this depth.
	MaxRayLength float32 = 10000

	// Sector index of sky pixels.
	SectorIndexNone uint32 = 0x7FFF

	// Position reported for sky pixels.
	SurfacePositionIncorrect float32 = 10000000

	// Albedo alpha written for sky pixels.
	SkyEmissionMarker float32 = -1
)

// Channel identifies a G-buffer plane.
type Channel int

const (
	Albedo Channel = iota
	Normal
	NormalGeom
	MetallicRoughness
	Depth
	Motion
	SurfacePosition
	VisibilityBuffer
	ViewDirection
	SectorIndex
	Throughput
	PrimaryResume
	TemporalDepth
	TemporalMotion
	NumChannels
)

// ChannelInfo describes the layout of a channel.
type ChannelInfo struct {
	Channel    Channel
	Name       string
	Format     string
	Components string

	// True for channels indexed by regular (full resolution) pixels.
	FullResolution bool
}

var channelInfo = [NumChannels]ChannelInfo{
	{Albedo, "albedo", "rgba32f", "albedo.rgb, screen emission", false},
	{Normal, "normal", "rgba32f", "shading normal.xyz", false},
	{NormalGeom, "normal_geometry", "rgba32f", "geometric normal.xyz", false},
	{MetallicRoughness, "metallic_roughness", "rgba32f", "metallic, roughness", false},
	{Depth, "depth", "rgba32f", "linear depth, gradient.xy, ndc depth", false},
	{Motion, "motion", "rgba32f", "motion.xy, linear depth delta", false},
	{SurfacePosition, "surface_position", "rgba32f", "position.xyz, custom index bits", false},
	{VisibilityBuffer, "visibility", "rgba32ui", "inst id/custom index, primitive, barycentrics bits", false},
	{ViewDirection, "view_direction", "rgba32f", "ray direction.xyz", false},
	{SectorIndex, "sector_index", "r32ui", "sector index", false},
	{Throughput, "throughput", "rgba32f", "throughput.rgb, split flag", false},
	{PrimaryResume, "primary_resume", "rgba32ui", "geometry instance flags, inst id/custom index, hit", false},
	{TemporalDepth, "temporal_depth", "r32f", "clamped ndc depth", true},
	{TemporalMotion, "temporal_motion", "rgba32f", "motion.xy in pixels, linear depth delta", true},
}

// Get the layout of all channels.
func Channels() []ChannelInfo {
	return append([]ChannelInfo(nil), channelInfo[:]...)
}

func (c Channel) String() string {
	if c < 0 || c >= NumChannels {
		return "unknown"
	}
	return channelInfo[c].Name
}

// Framebuffers holds every G-buffer plane of a frame. Stages write disjoint
// pixels so a single set may be shared by concurrent workers.
type Framebuffers struct {
	Checkerboard Checkerboard

	floatPlanes map[Channel]*FloatImage
	uintPlanes  map[Channel]*UintImage
}

// Allocate the framebuffers for a frame. Width must be even.
func NewFramebuffers(width, height uint32) *Framebuffers {
	fb := &Framebuffers{
		Checkerboard: Checkerboard{Width: width, Height: height},
		floatPlanes:  make(map[Channel]*FloatImage),
		uintPlanes:   make(map[Channel]*UintImage),
	}
	for _, info := range channelInfo {
		switch info.Format {
		case "rgba32ui", "r32ui":
			fb.uintPlanes[info.Channel] = NewUintImage(width, height)
		default:
			fb.floatPlanes[info.Channel] = NewFloatImage(width, height)
		}
	}
	return fb
}

// Get a float plane. Returns nil for integer channels.
func (fb *Framebuffers) Float(c Channel) *FloatImage {
	return fb.floatPlanes[c]
}

// Get an integer plane. Returns nil for float channels.
func (fb *Framebuffers) Uint(c Channel) *UintImage {
	return fb.uintPlanes[c]
}

// Clear all planes.
func (fb *Framebuffers) Clear() {
	for _, img := range fb.floatPlanes {
		img.Clear()
	}
	for _, img := range fb.uintPlanes {
		img.Clear()
	}
}

// Create a deep copy of all planes.
func (fb *Framebuffers) Clone() *Framebuffers {
	clone := &Framebuffers{
		Checkerboard: fb.Checkerboard,
		floatPlanes:  make(map[Channel]*FloatImage),
		uintPlanes:   make(map[Channel]*UintImage),
	}
	for c, img := range fb.floatPlanes {
		clone.floatPlanes[c] = img.Clone()
	}
	for c, img := range fb.uintPlanes {
		clone.uintPlanes[c] = img.Clone()
	}
	return clone
}

// Returns true if both sets are bit-identical.
func (fb *Framebuffers) Equal(other *Framebuffers) bool {
	for c, img := range fb.floatPlanes {
		if !img.Equal(other.floatPlanes[c]) {
			return false
		}
	}
	for c, img := range fb.uintPlanes {
		if !img.Equal(other.uintPlanes[c]) {
			return false
		}
	}
	return true
}

// SurfaceRecord is the write-set of a pixel whose path ended on a surface.
type SurfaceRecord struct {
	Surface *scene.Surface

	// Linear depth; the full path length for secondary hits.
	Depth float32

	// NDC depth of the first hit.
	DepthNDC float32

	VisibilityKey [4]uint32
	ViewDir       types.Vec3
	Throughput    types.Vec3
	WasSplit      bool
}

// SkyRecord is the write-set of a pixel whose path escaped to the sky.
type SkyRecord struct {
	Albedo types.Vec3

	// Leave the albedo plane untouched (the sky was rasterized into it).
	KeepAlbedo bool

	Motion     types.Vec2
	DepthNDC   float32
	ViewDir    types.Vec3
	Throughput types.Vec3
	WasSplit   bool
}

func splitFlag(split bool) float32 {
	if split {
		return 1
	}
	return 0
}

// Write the attributes of a surface.
func (fb *Framebuffers) StoreSurface(pix Pixel, r SurfaceRecord) {
	s := r.Surface
	fb.floatPlanes[Albedo].Set(pix, [4]float32{s.Albedo[0], s.Albedo[1], s.Albedo[2], s.ScreenEmission})
	fb.floatPlanes[Normal].Set(pix, [4]float32{s.Normal[0], s.Normal[1], s.Normal[2], 0})
	fb.floatPlanes[NormalGeom].Set(pix, [4]float32{s.NormalGeom[0], s.NormalGeom[1], s.NormalGeom[2], 0})
	fb.floatPlanes[MetallicRoughness].Set(pix, [4]float32{s.Metallic, s.Roughness, 0, 0})
	fb.floatPlanes[Depth].Set(pix, [4]float32{r.Depth, s.GradDepth[0], s.GradDepth[1], r.DepthNDC})
	fb.floatPlanes[Motion].Set(pix, [4]float32{s.MotionCurToPrev[0], s.MotionCurToPrev[1], s.MotionDepthLinearCurToPrev, 0})
	fb.floatPlanes[SurfacePosition].Set(pix, [4]float32{s.HitPosition[0], s.HitPosition[1], s.HitPosition[2], math.Float32frombits(s.InstCustomIndex)})
	fb.uintPlanes[VisibilityBuffer].Set(pix, r.VisibilityKey)
	fb.floatPlanes[ViewDirection].Set(pix, [4]float32{r.ViewDir[0], r.ViewDir[1], r.ViewDir[2], 0})
	fb.uintPlanes[SectorIndex].Set(pix, [4]uint32{s.SectorArrayIndex})
	fb.floatPlanes[Throughput].Set(pix, [4]float32{r.Throughput[0], r.Throughput[1], r.Throughput[2], splitFlag(r.WasSplit)})
}

// Write the attributes of a sky pixel.
func (fb *Framebuffers) StoreSky(pix Pixel, r SkyRecord) {
	if !r.KeepAlbedo {
		fb.floatPlanes[Albedo].Set(pix, [4]float32{r.Albedo[0], r.Albedo[1], r.Albedo[2], SkyEmissionMarker})
	}
	fb.floatPlanes[Normal].Set(pix, [4]float32{})
	fb.floatPlanes[NormalGeom].Set(pix, [4]float32{})
	fb.floatPlanes[MetallicRoughness].Set(pix, [4]float32{})
	fb.floatPlanes[Depth].Set(pix, [4]float32{MaxRayLength * 2, 0, 0, r.DepthNDC})
	fb.floatPlanes[Motion].Set(pix, [4]float32{r.Motion[0], r.Motion[1], 0, 0})
	fb.floatPlanes[SurfacePosition].Set(pix, [4]float32{SurfacePositionIncorrect, SurfacePositionIncorrect, SurfacePositionIncorrect, 0})
	fb.uintPlanes[VisibilityBuffer].Set(pix, [4]uint32{math.MaxUint32, math.MaxUint32, math.MaxUint32, math.MaxUint32})
	fb.floatPlanes[ViewDirection].Set(pix, [4]float32{r.ViewDir[0], r.ViewDir[1], r.ViewDir[2], 0})
	fb.uintPlanes[SectorIndex].Set(pix, [4]uint32{SectorIndexNone})
	fb.floatPlanes[Throughput].Set(pix, [4]float32{r.Throughput[0], r.Throughput[1], r.Throughput[2], splitFlag(r.WasSplit)})
}

// Write the data needed by the secondary stage to resume a path. Sky pixels
// store all zeros.
func (fb *Framebuffers) StoreResume(pix Pixel, geomFlags, instIDAndIndex uint32, hit bool) {
	if !hit {
		fb.uintPlanes[PrimaryResume].Set(pix, [4]uint32{})
		return
	}
	fb.uintPlanes[PrimaryResume].Set(pix, [4]uint32{geomFlags, instIDAndIndex, 1, 0})
}

// Write the full resolution depth and motion copies at a regular pixel.
func (fb *Framebuffers) StoreTemporal(regular Pixel, depthNDC float32, motion types.Vec2, motionDepth float32) {
	w, h := float32(fb.Checkerboard.Width), float32(fb.Checkerboard.Height)
	fb.floatPlanes[TemporalDepth].Set(regular, [4]float32{types.Clamp(depthNDC, 0, 1)})
	fb.floatPlanes[TemporalMotion].Set(regular, [4]float32{motion[0] * w, motion[1] * h, motionDepth, 0})
}

// PrimaryRecord is the state read back by the secondary stage.
type PrimaryRecord struct {
	// False if the primary ray hit the sky.
	Hit bool

	GeomFlags uint32
	Payload   scene.Payload

	Albedo      types.Vec3
	NormalGeom  types.Vec3
	Position    types.Vec3
	DepthLinear float32
	DepthNDC    float32
	ViewDir     types.Vec3
	Throughput  types.Vec3
}

// Read back the primary stage output of a pixel.
func (fb *Framebuffers) LoadPrimary(pix Pixel) PrimaryRecord {
	resume := fb.uintPlanes[PrimaryResume].At(pix)
	if resume[2] == 0 {
		return PrimaryRecord{}
	}

	key := fb.uintPlanes[VisibilityBuffer].At(pix)
	albedo := fb.floatPlanes[Albedo].At(pix)
	normal := fb.floatPlanes[NormalGeom].At(pix)
	pos := fb.floatPlanes[SurfacePosition].At(pix)
	depth := fb.floatPlanes[Depth].At(pix)
	viewDir := fb.floatPlanes[ViewDirection].At(pix)
	throughput := fb.floatPlanes[Throughput].At(pix)

	return PrimaryRecord{
		Hit:       true,
		GeomFlags: resume[0],
		Payload: scene.Payload{
			InstIDAndIndex: resume[1],
			PrimitiveIndex: key[1],
			Barycentrics:   types.Vec2{math.Float32frombits(key[2]), math.Float32frombits(key[3])},
		},
		Albedo:      types.Vec3{albedo[0], albedo[1], albedo[2]},
		NormalGeom:  types.Vec3{normal[0], normal[1], normal[2]},
		Position:    types.Vec3{pos[0], pos[1], pos[2]},
		DepthLinear: depth[0],
		DepthNDC:    depth[3],
		ViewDir:     types.Vec3{viewDir[0], viewDir[1], viewDir[2]},
		Throughput:  types.Vec3{throughput[0], throughput[1], throughput[2]},
	}
}
