package gbuffer

import "math"

// FloatImage is a four component float32 image plane.
type FloatImage struct {
	Width, Height uint32
	Pix           []float32
}

// Allocate a cleared float image.
func NewFloatImage(width, height uint32) *FloatImage {
	return &FloatImage{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height*4),
	}
}

func (img *FloatImage) offset(p Pixel) uint32 {
	return (p.Y*img.Width + p.X) * 4
}

// Store a texel.
func (img *FloatImage) Set(p Pixel, v [4]float32) {
	off := img.offset(p)
	copy(img.Pix[off:off+4], v[:])
}

// Fetch a texel.
func (img *FloatImage) At(p Pixel) [4]float32 {
	var v [4]float32
	off := img.offset(p)
	copy(v[:], img.Pix[off:off+4])
	return v
}

// Reset every texel to zero.
func (img *FloatImage) Clear() {
	for i := range img.Pix {
		img.Pix[i] = 0
	}
}

// Create a deep copy of the image.
func (img *FloatImage) Clone() *FloatImage {
	clone := *img
	clone.Pix = append([]float32(nil), img.Pix...)
	return &clone
}

// Compare the bit patterns of two images.
func (img *FloatImage) Equal(other *FloatImage) bool {
	if img.Width != other.Width || img.Height != other.Height {
		return false
	}
	for i, v := range img.Pix {
		if math.Float32bits(v) != math.Float32bits(other.Pix[i]) {
			return false
		}
	}
	return true
}

// UintImage is a four component uint32 image plane.
type UintImage struct {
	Width, Height uint32
	Pix           []uint32
}

// Allocate a cleared uint image.
func NewUintImage(width, height uint32) *UintImage {
	return &UintImage{
		Width:  width,
		Height: height,
		Pix:    make([]uint32, width*height*4),
	}
}

func (img *UintImage) offset(p Pixel) uint32 {
	return (p.Y*img.Width + p.X) * 4
}

// Store a texel.
func (img *UintImage) Set(p Pixel, v [4]uint32) {
	off := img.offset(p)
	copy(img.Pix[off:off+4], v[:])
}

// Fetch a texel.
func (img *UintImage) At(p Pixel) [4]uint32 {
	var v [4]uint32
	off := img.offset(p)
	copy(v[:], img.Pix[off:off+4])
	return v
}

// Reset every texel to zero.
func (img *UintImage) Clear() {
	for i := range img.Pix {
		img.Pix[i] = 0
	}
}

// Create a deep copy of the image.
func (img *UintImage) Clone() *UintImage {
	clone := *img
	clone.Pix = append([]uint32(nil), img.Pix...)
	return &clone
}

// Compare two images.
func (img *UintImage) Equal(other *UintImage) bool {
	if img.Width != other.Width || img.Height != other.Height {
		return false
	}
	for i, v := range img.Pix {
		if v != other.Pix[i] {
			return false
		}
	}
	return true
}
