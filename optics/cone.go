package optics

import (
	"math"

	"github.com/achilleasa/polaris-gbuf/types"
)

// RayCone approximates the footprint of a ray as a cone with a width at the
// current vertex and a fixed spread angle. The width drives texture
// filtering at every hit along a path.
type RayCone struct {
	Width       float32
	SpreadAngle float32
}

// Create a cone starting at the camera with zero width.
func NewRayCone(spreadAngle float32) RayCone {
	return RayCone{SpreadAngle: spreadAngle}
}

// Grow the cone linearly after travelling the given distance.
func (rc *RayCone) Propagate(distance float32) {
	rc.Width += rc.SpreadAngle * distance
}

// Get the spread angle of a pixel for a camera with the given vertical field
// of view (radians) and frame height.
func CameraSpreadAngle(fovY float32, frameH uint32) float32 {
	return float32(math.Atan(2 * math.Tan(float64(fovY)*0.5) / float64(frameH)))
}

// Get the texture-space derivative of a cone footprint hitting a surface.
func (rc RayCone) FootprintOn(rayDir, normal types.Vec3) float32 {
	cos := types.Abs(rayDir.Dot(normal))
	if cos < 1e-4 {
		cos = 1e-4
	}
	return rc.Width / cos
}
