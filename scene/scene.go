package scene

import (
	"errors"
	"fmt"

	"github.com/achilleasa/polaris-gbuf/types"
)

var (
	ErrNoCamera          = errors.New("scene: no camera defined")
	ErrTooManyPrimitives = fmt.Errorf("scene: scenes may contain at most %d primitives", MaxInstanceID+1)
)

// Portal describes the rigid transform applied to rays crossing a portal
// surface. Ray origins are transformed relative to InputPosition.
type Portal struct {
	InputPosition types.Vec3
	Translation   types.Vec3
	Rotation      types.Quat
}

type Scene struct {
	Name string

	Camera *Camera

	Materials  []*Material
	Primitives []*Primitive

	SkyZenith  types.Vec3
	SkyHorizon types.Vec3

	Portal Portal
}

func NewScene(name string) *Scene {
	return &Scene{
		Name:       name,
		Materials:  make([]*Material, 0),
		Primitives: make([]*Primitive, 0),
		SkyZenith:  types.Vec3{0.25, 0.45, 0.85},
		SkyHorizon: types.Vec3{0.85, 0.9, 1.0},
		Portal:     Portal{Rotation: types.QuatIdent()},
	}
}

// Attach a camera to the scene.
func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

// Add a material to the scene.
func (s *Scene) AddMaterial(material *Material) error {
	for _, mat := range s.Materials {
		if mat == material {
			return fmt.Errorf("scene: material already added")
		}
	}
	s.Materials = append(s.Materials, material)
	return nil
}

// Add a primitive to the scene and bind it to a previously added material.
func (s *Scene) AddPrimitive(primitive *Primitive, material *Material) error {
	for _, prim := range s.Primitives {
		if prim == primitive {
			return fmt.Errorf("scene: primitive already added")
		}
	}
	if material == nil {
		return fmt.Errorf("scene: no material assigned to primitive")
	}
	if len(s.Primitives) > MaxInstanceID {
		return ErrTooManyPrimitives
	}
	for index, mat := range s.Materials {
		if mat == material {
			primitive.MaterialIndex = uint32(index)
			s.Primitives = append(s.Primitives, primitive)
			return nil
		}
	}

	return fmt.Errorf("scene: primitive references unknown material; ensure that the material is added to the scene before adding the primitive")
}

// Check the scene for dangling references.
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return ErrNoCamera
	}
	if len(s.Primitives) > MaxInstanceID+1 {
		return ErrTooManyPrimitives
	}
	for index, prim := range s.Primitives {
		if int(prim.MaterialIndex) >= len(s.Materials) {
			return fmt.Errorf("scene: primitive %d (%s) references unknown material %d", index, prim.Name, prim.MaterialIndex)
		}
	}
	return nil
}

// Evaluate the sky color along a direction.
func (s *Scene) Sky(dir types.Vec3) types.Vec3 {
	t := types.Clamp(dir[1], 0, 1)
	return s.SkyHorizon.Mix(s.SkyZenith, t)
}
