// Package media models the participating volumes a ray can travel through.
//
// Each media type has an index of refraction and an RGB extinction
// coefficient. Transmittance follows the Beer-Lambert law; vacuum is
// always fully transmissive regardless of distance.
package media

import (
	"fmt"
	"math"

	"github.com/achilleasa/polaris-gbuf/types"
)

type Type uint32

const (
	Vacuum Type = iota
	Water
	Glass
	Acid
	//
	numTypes
)

// Implements Stringer.
func (t Type) String() string {
	switch t {
	case Vacuum:
		return "vacuum"
	case Water:
		return "water"
	case Glass:
		return "glass"
	case Acid:
		return "acid"
	}
	return fmt.Sprintf("media(%d)", uint32(t))
}

// Parse a media type from its name.
func ParseType(name string) (Type, error) {
	for t := Vacuum; t < numTypes; t++ {
		if t.String() == name {
			return t, nil
		}
	}
	return Vacuum, fmt.Errorf("media: unknown media type %q", name)
}

// Model holds the per-frame optical properties of every media type. A Model
// is an immutable value; all its methods are pure.
type Model struct {
	IndexOfRefractionWater float32
	IndexOfRefractionGlass float32

	// Extinction coefficients per unit of distance.
	WaterExtinction types.Vec3
	GlassExtinction types.Vec3
	AcidExtinction  types.Vec3
}

// The default model: clear-ish water, tinted acid and non-absorbing glass.
func DefaultModel() Model {
	return Model{
		IndexOfRefractionWater: 1.33,
		IndexOfRefractionGlass: 1.52,
		WaterExtinction:        types.Vec3{0.030, 0.019, 0.013},
		GlassExtinction:        types.Vec3{0, 0, 0},
		AcidExtinction:         types.Vec3{0.0125, 0.0025, 0.0600},
	}
}

// Get the index of refraction for the given media.
func (m Model) IndexOfRefraction(t Type) float32 {
	switch t {
	case Water, Acid:
		return m.IndexOfRefractionWater
	case Glass:
		return m.IndexOfRefractionGlass
	default:
		return 1.0
	}
}

func (m Model) extinction(t Type) types.Vec3 {
	switch t {
	case Water:
		return m.WaterExtinction
	case Glass:
		return m.GlassExtinction
	case Acid:
		return m.AcidExtinction
	default:
		return types.Vec3{}
	}
}

// Get the transmittance after travelling the given distance through a media.
func (m Model) Transmittance(t Type, distance float32) types.Vec3 {
	if t == Vacuum {
		return types.Splat3(1)
	}

	ext := m.extinction(t)
	var out types.Vec3
	for i := 0; i < 3; i++ {
		// 0 * Inf is NaN; a non-absorbing channel stays at 1 for any distance
		if ext[i] == 0 {
			out[i] = 1
			continue
		}
		out[i] = types.Exp(-ext[i] * distance)
	}
	return out
}

// Get the transmittance towards the sky along a ray direction. The travel
// distance is approximated by |cos(angle to up)|^-3 so that horizontal rays
// are fully absorbed while vertical rays lose a single unit of distance.
func (m Model) SkyTransmittance(t Type, rayDir, up types.Vec3) types.Vec3 {
	return m.Transmittance(t, SkyDistance(rayDir, up))
}

// Get the pseudo distance used for sky attenuation.
func SkyDistance(rayDir, up types.Vec3) float32 {
	c := types.Abs(rayDir.Dot(up))
	if c == 0 {
		return float32(math.Inf(1))
	}
	return types.Pow(c, -3)
}
