package types

import "github.com/go-gl/mathgl/mgl32"

// Column-major 3x3 and 4x4 matrices. Storage and conventions follow mgl32
// so conversions between the two are free.
type Mat3 mgl32.Mat3
type Mat4 mgl32.Mat4

// Create 4x4 identity matrix.
func Ident4() Mat4 {
	return Mat4(mgl32.Ident4())
}

// Create 3x3 identity matrix.
func Ident3() Mat3 {
	return Mat3(mgl32.Ident3())
}

// Create a perspective projection matrix. The fov is specified in degrees.
func Perspective4(fovy, aspect, near, far float32) Mat4 {
	return Mat4(mgl32.Perspective(mgl32.DegToRad(fovy), aspect, near, far))
}

// Create a view matrix for an eye looking at center.
func LookAtV(eye, center, up Vec3) Mat4 {
	return Mat4(mgl32.LookAtV(mgl32.Vec3(eye), mgl32.Vec3(center), mgl32.Vec3(up)))
}

// Create a matrix from three column vectors.
func Mat3FromCols(c0, c1, c2 Vec3) Mat3 {
	return Mat3(mgl32.Mat3FromCols(mgl32.Vec3(c0), mgl32.Vec3(c1), mgl32.Vec3(c2)))
}

// Multiply two 4x4 matrices.
func (m Mat4) Mul4(m2 Mat4) Mat4 {
	return Mat4(mgl32.Mat4(m).Mul4(mgl32.Mat4(m2)))
}

// Multiply matrix with a 4 component vector.
func (m Mat4) Mul4x1(v Vec4) Vec4 {
	return Vec4(mgl32.Mat4(m).Mul4x1(mgl32.Vec4(v)))
}

// Get matrix inverse.
func (m Mat4) Inv() Mat4 {
	return Mat4(mgl32.Mat4(m).Inv())
}

// Get matrix transpose.
func (m Mat4) Transpose() Mat4 {
	return Mat4(mgl32.Mat4(m).Transpose())
}

// Get the element at the specified row and column.
func (m Mat4) At(row, col int) float32 {
	return mgl32.Mat4(m).At(row, col)
}

// Extract the top-left 3x3 matrix from a 4x4 matrix.
func (m Mat4) Mat3() Mat3 {
	return Mat3(mgl32.Mat4(m).Mat3())
}

// Multiply matrix with a 3 component vector.
func (m Mat3) Mul3x1(v Vec3) Vec3 {
	return Vec3(mgl32.Mat3(m).Mul3x1(mgl32.Vec3(v)))
}

// Get matrix transpose.
func (m Mat3) Transpose() Mat3 {
	return Mat3(mgl32.Mat3(m).Transpose())
}

// Get the matrix column at the given index.
func (m Mat3) Col(col int) Vec3 {
	return Vec3(mgl32.Mat3(m).Col(col))
}
