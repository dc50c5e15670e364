package tracer

import "github.com/achilleasa/polaris-gbuf/scene"

// AlbedoOp is applied to the path throughput after a reflect/refract event.
type AlbedoOp uint8

const (
	AlbedoNone AlbedoOp = iota
	AlbedoMultiply
	AlbedoAdd
)

// Capabilities is the decoded form of a geometry instance flag set.
type Capabilities struct {
	IsPortal      bool
	CanReflect    bool
	CanRefract    bool
	NoMediaChange bool
	AlbedoOp      AlbedoOp
}

// Decode geometry instance flags. Multiply takes precedence over add.
func DecodeCapabilities(flags uint32) Capabilities {
	c := Capabilities{
		IsPortal:      flags&scene.GeomInstFlagPortal != 0,
		CanReflect:    flags&scene.GeomInstFlagReflect != 0,
		CanRefract:    flags&scene.GeomInstFlagRefract != 0,
		NoMediaChange: flags&scene.GeomInstFlagNoMediaChange != 0,
	}
	switch {
	case flags&scene.GeomInstFlagReflRefrAlbedoMult != 0:
		c.AlbedoOp = AlbedoMultiply
	case flags&scene.GeomInstFlagReflRefrAlbedoAdd != 0:
		c.AlbedoOp = AlbedoAdd
	}
	return c
}

// Returns true if a ray hitting the surface spawns a secondary ray.
func (c Capabilities) Any() bool {
	return c.IsPortal || c.CanReflect || c.CanRefract
}
