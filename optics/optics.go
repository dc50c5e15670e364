// Package optics contains the specular light transport helpers shared by the
// tracing stages.
package optics

import "github.com/achilleasa/polaris-gbuf/types"

// Reflect the incident direction i about the normal n.
func Reflect(i, n types.Vec3) types.Vec3 {
	return i.Sub(n.Mul(2 * n.Dot(i)))
}

// Refract the incident direction i through a surface with normal n facing
// against i. Returns false on total internal reflection.
func Refract(n1, n2 float32, i, n types.Vec3) (types.Vec3, bool) {
	eta := n1 / n2
	cosI := -n.Dot(i)
	k := 1 - eta*eta*(1-cosI*cosI)
	if k < 0 {
		return types.Vec3{}, false
	}
	return i.Mul(eta).Add(n.Mul(eta*cosI - types.Sqrt(k))), true
}

// Schlick approximation of the Fresnel reflectance for light travelling from a
// media with index n1 into a media with index n2. v points away from the
// surface, towards the viewer.
func FresnelSchlick(n1, n2 float32, v, n types.Vec3) float32 {
	r0 := (n1 - n2) / (n1 + n2)
	r0 *= r0

	cos := types.Clamp(v.Dot(n), 0, 1)
	if n1 > n2 {
		eta := n1 / n2
		sinT2 := eta * eta * (1 - cos*cos)
		if sinT2 > 1 {
			return 1
		}
		cos = types.Sqrt(1 - sinT2)
	}

	x := 1 - cos
	return r0 + (1-r0)*x*x*x*x*x
}

// Build an orthonormal basis around n. The returned matrix columns are the
// tangent, bitangent and n.
func ONB(n types.Vec3) types.Mat3 {
	sign := float32(1)
	if n[2] < 0 {
		sign = -1
	}
	a := -1 / (sign + n[2])
	b := n[0] * n[1] * a

	t := types.Vec3{1 + sign*n[0]*n[0]*a, sign * b, -sign * n[0]}
	bt := types.Vec3{b, sign + n[1]*n[1]*a, -n[1]}
	return types.Mat3FromCols(t, bt, n)
}
