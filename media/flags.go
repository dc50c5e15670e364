package media

// The neighbour media of a surface is encoded into bits of the geometry
// instance flags.
const (
	FlagShift uint32 = 8
	FlagMask  uint32 = 0x3 << FlagShift
)

// Extract the media type from geometry instance flags.
func FromFlags(geomFlags uint32) Type {
	return Type((geomFlags & FlagMask) >> FlagShift)
}

// Encode a media type into geometry instance flags.
func ToFlags(t Type) uint32 {
	return (uint32(t) << FlagShift) & FlagMask
}
