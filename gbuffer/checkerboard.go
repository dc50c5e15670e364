package gbuffer

// Pixel is an integer coordinate in a render target.
type Pixel struct {
	X, Y uint32
}

// Checkerboard maps the pixels of a full resolution frame to a render target
// where the two interleaved parity grids are stored side by side. The frame
// width must be even.
type Checkerboard struct {
	Width, Height uint32
}

// Map a regular pixel to its checkerboard pixel.
func (c Checkerboard) ToCheckerboard(regular Pixel) Pixel {
	parity := (regular.X + regular.Y) & 1
	return Pixel{
		X: regular.X/2 + parity*c.Width/2,
		Y: regular.Y,
	}
}

// Map a checkerboard pixel back to its regular pixel.
func (c Checkerboard) ToRegular(chk Pixel) Pixel {
	half := c.Width / 2
	parity := uint32(0)
	x := chk.X
	if x >= half {
		parity = 1
		x -= half
	}

	// Recover the low bit so that (x + y) & 1 equals the parity
	x = x*2 + ((parity + chk.Y) & 1)
	return Pixel{X: x, Y: chk.Y}
}

// Returns true if the checkerboard pixel belongs to the odd parity grid.
func (c Checkerboard) IsOdd(chk Pixel) bool {
	return chk.X >= c.Width/2
}
