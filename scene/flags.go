package scene

import "github.com/achilleasa/polaris-gbuf/media"

// Geometry instance flags. Bits media.FlagShift..+1 hold the media type on
// the far side of the surface.
const (
	GeomInstFlagPortal uint32 = 1 << iota
	GeomInstFlagRefract
	GeomInstFlagReflect
	GeomInstFlagNoMediaChange
	GeomInstFlagReflRefrAlbedoMult
	GeomInstFlagReflRefrAlbedoAdd
)

// Custom index flags carried by the payload.
const (
	CustomIndexFlagDynamic uint32 = 1 << iota
	CustomIndexFlagReflectRefract
)

// The largest instance id that can be packed in a payload.
const MaxInstanceID = 0xFFFE

// Pack an instance id and its custom index into a single value.
func PackInstanceIDAndCustomIndex(id, customIndex uint32) uint32 {
	return (id&0xFFFF)<<16 | customIndex&0xFFFF
}

// Unpack a value created by PackInstanceIDAndCustomIndex.
func UnpackInstanceIDAndCustomIndex(v uint32) (id, customIndex uint32) {
	return v >> 16, v & 0xFFFF
}

// Build geometry instance flags for a surface whose far side is filled with
// the given media.
func FlagsWithMedia(flags uint32, mt media.Type) uint32 {
	return flags&^media.FlagMask | media.ToFlags(mt)
}
