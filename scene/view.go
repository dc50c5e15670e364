package scene

import "github.com/achilleasa/polaris-gbuf/types"

// FrameView captures the camera matrices of the current and the previous
// frame. It is read-only while a frame is being traced.
type FrameView struct {
	Position     types.Vec3
	PositionPrev types.Vec3

	View           types.Mat4
	ViewPrev       types.Mat4
	Projection     types.Mat4
	ProjectionPrev types.Mat4

	InvView       types.Mat4
	InvProjection types.Mat4

	// Vertical field of view in radians.
	FovY float32
}

// Build a frame view. If prev is nil the previous frame matches the current.
func NewFrameView(cur, prev *Camera) FrameView {
	if prev == nil {
		prev = cur
	}
	return FrameView{
		Position:       cur.Position,
		PositionPrev:   prev.Position,
		View:           cur.ViewMat,
		ViewPrev:       prev.ViewMat,
		Projection:     cur.ProjMat,
		ProjectionPrev: prev.ProjMat,
		InvView:        cur.ViewMat.Inv(),
		InvProjection:  cur.ProjMat.Inv(),
		FovY:           cur.FOV * 3.14159265358979 / 180,
	}
}

// Map NDC xy to screen uv. Row 0 is the top of the frame.
func NDCToScreen(ndc types.Vec2) types.Vec2 {
	return types.Vec2{ndc[0]*0.5 + 0.5, 0.5 - ndc[1]*0.5}
}

// Map screen uv to NDC xy.
func ScreenToNDC(uv types.Vec2) types.Vec2 {
	return types.Vec2{uv[0]*2 - 1, 1 - uv[1]*2}
}

func project(viewProj types.Mat4, p types.Vec3) types.Vec3 {
	c := viewProj.Mul4x1(p.Vec4(1))
	if c[3] == 0 {
		return types.Vec3{}
	}
	return types.Vec3{c[0] / c[3], c[1] / c[3], c[2] / c[3]}
}

// Get the screen uv of a world position in the current frame.
func (v *FrameView) ScreenUV(p types.Vec3) types.Vec2 {
	return NDCToScreen(project(v.Projection.Mul4(v.View), p).XY())
}

// Get the screen uv of a world position in the previous frame.
func (v *FrameView) ScreenUVPrev(p types.Vec3) types.Vec2 {
	return NDCToScreen(project(v.ProjectionPrev.Mul4(v.ViewPrev), p).XY())
}

// Get the depth of a world position mapped to [0, 1].
func (v *FrameView) DepthNDC(p types.Vec3) float32 {
	return project(v.Projection.Mul4(v.View), p)[2]*0.5 + 0.5
}

// Get the screen-space motion from the current to the previous frame of a
// point located at cur in this frame and at prev in the previous one.
func (v *FrameView) Motion(cur, prev types.Vec3) types.Vec2 {
	return v.ScreenUVPrev(prev).Sub(v.ScreenUV(cur))
}

// Get the change of linear depth from the current to the previous frame.
func (v *FrameView) MotionDepthLinear(cur, prev types.Vec3) float32 {
	return prev.Sub(v.PositionPrev).Len() - cur.Sub(v.Position).Len()
}

// Get the screen-space motion of a point at infinite distance along rayDir.
// The point is projected without a perspective divide.
func (v *FrameView) MotionForInfinitePoint(rayDir types.Vec3) types.Vec2 {
	viewSpaceCur := v.View.Mat3().Mul3x1(rayDir)
	viewSpacePrev := v.ViewPrev.Mat3().Mul3x1(rayDir)

	clipCur := v.Projection.Mat3().Mul3x1(viewSpaceCur)
	clipPrev := v.ProjectionPrev.Mat3().Mul3x1(viewSpacePrev)

	return NDCToScreen(clipPrev.XY()).Sub(NDCToScreen(clipCur.XY()))
}
