package scene

import (
	"fmt"

	"github.com/achilleasa/polaris-gbuf/types"
)

type CameraDirection uint8

const (
	Forward CameraDirection = iota
	Backward
	Left
	Right
)

// The camera type controls the scene camera.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3
	Pitch    float32
	Yaw      float32

	ViewMat types.Mat4
	ProjMat types.Mat4

	// Vertical field of view in degrees.
	FOV float32

	Near float32
	Far  float32
}

func NewCamera(fov float32) *Camera {
	return &Camera{
		ViewMat:  types.Ident4(),
		ProjMat:  types.Ident4(),
		Position: types.Vec3{0, 0, 0},
		LookAt:   types.Vec3{0, 0, -1},
		Up:       types.Vec3{0, 1, 0},
		FOV:      fov,
		Near:     0.1,
		Far:      1000,
	}
}

func (c *Camera) String() string {
	return fmt.Sprintf("camera(pos: %v, lookAt: %v, fov: %.1f)", c.Position, c.LookAt, c.FOV)
}

// Setup camera projection matrix.
func (c *Camera) SetupProjection(aspect float32) {
	c.ProjMat = types.Perspective4(c.FOV, aspect, c.Near, c.Far)
	c.Update()
}

// Apply pending pitch/yaw and update the view matrix.
func (c *Camera) Update() {
	dir := c.LookAt.Sub(c.Position).Normalize()
	pitchAxis := dir.Cross(c.Up)
	pitchQuat := types.QuatFromAxisAngle(pitchAxis, c.Pitch)
	yawQuat := types.QuatFromAxisAngle(c.Up, c.Yaw)

	orientQuat := pitchQuat.Mul(yawQuat).Normalize()

	dir = orientQuat.Rotate(dir)
	c.LookAt = c.Position.Add(dir)
	c.Pitch, c.Yaw = 0, 0

	c.ViewMat = types.LookAtV(c.Position, c.LookAt, c.Up)
}

// Move the camera along the given direction.
func (c *Camera) Move(dir CameraDirection, amount float32) {
	forward := c.LookAt.Sub(c.Position).Normalize()
	var delta types.Vec3
	switch dir {
	case Forward:
		delta = forward.Mul(amount)
	case Backward:
		delta = forward.Mul(-amount)
	case Left:
		delta = forward.Cross(c.Up).Normalize().Mul(-amount)
	case Right:
		delta = forward.Cross(c.Up).Normalize().Mul(amount)
	}

	c.Position = c.Position.Add(delta)
	c.LookAt = c.LookAt.Add(delta)
	c.Update()
}

// Return a copy of the camera.
func (c *Camera) Clone() *Camera {
	clone := *c
	return &clone
}
