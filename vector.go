package tetradae

import (
	"strconv"

	"github.com/chewxy/math32"
)

// Vector3 represents a 3D vector; it's used for positions, directions, normals and scales.
// Functions that modify a Vector3 return modified copies, so they can be chained.
type Vector3 struct {
	X, Y, Z float32
}

// Vector4 is a 3D vector with a fourth (W) component, used for matrix rows and homogeneous coordinates.
type Vector4 struct {
	X, Y, Z, W float32
}

// VecX, VecY and VecZ are the unit vectors along the global axes. +Y is up and +Z points back, towards the viewer.
var (
	VecX = Vector3{X: 1}
	VecY = Vector3{Y: 1}
	VecZ = Vector3{Z: 1}
)

// NewVector3 returns a new Vector3.
func NewVector3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add returns a copy of the calling vector, added together with the other Vector3 provided.
func (vec Vector3) Add(other Vector3) Vector3 {
	vec.X += other.X
	vec.Y += other.Y
	vec.Z += other.Z
	return vec
}

// Sub returns a copy of the calling Vector3, with the other Vector3 subtracted from it.
func (vec Vector3) Sub(other Vector3) Vector3 {
	vec.X -= other.X
	vec.Y -= other.Y
	vec.Z -= other.Z
	return vec
}

// Scale returns a copy of the Vector3 with each component multiplied by the scalar.
func (vec Vector3) Scale(scalar float32) Vector3 {
	vec.X *= scalar
	vec.Y *= scalar
	vec.Z *= scalar
	return vec
}

// Invert returns a copy of the Vector3 pointing the opposite way.
func (vec Vector3) Invert() Vector3 {
	return vec.Scale(-1)
}

// Dot returns the dot product of the two vectors.
func (vec Vector3) Dot(other Vector3) float32 {
	return vec.X*other.X + vec.Y*other.Y + vec.Z*other.Z
}

// Cross returns the cross product of the two vectors.
func (vec Vector3) Cross(other Vector3) Vector3 {
	return Vector3{
		X: vec.Y*other.Z - vec.Z*other.Y,
		Y: vec.Z*other.X - vec.X*other.Z,
		Z: vec.X*other.Y - vec.Y*other.X,
	}
}

// Magnitude returns the length of the Vector3.
func (vec Vector3) Magnitude() float32 {
	return math32.Sqrt(vec.Dot(vec))
}

// Unit returns a copy of the Vector3 with a length of 1; a zero vector stays zero.
func (vec Vector3) Unit() Vector3 {
	length := vec.Magnitude()
	if length == 0 {
		return vec
	}
	return vec.Scale(1 / length)
}

// Equals returns true if the two vectors are within a small epsilon of each other.
func (vec Vector3) Equals(other Vector3) bool {
	eps := float32(0.0001)
	return math32.Abs(vec.X-other.X) <= eps && math32.Abs(vec.Y-other.Y) <= eps && math32.Abs(vec.Z-other.Z) <= eps
}

// Vector4 returns the Vector3 extended with the W component given.
func (vec Vector3) Vector4(w float32) Vector4 {
	return Vector4{X: vec.X, Y: vec.Y, Z: vec.Z, W: w}
}

func (vec Vector3) String() string {
	return "{" + strconv.FormatFloat(float64(vec.X), 'f', -1, 32) + ", " +
		strconv.FormatFloat(float64(vec.Y), 'f', -1, 32) + ", " +
		strconv.FormatFloat(float64(vec.Z), 'f', -1, 32) + "}"
}

// Vector3 drops the W component.
func (vec Vector4) Vector3() Vector3 {
	return Vector3{X: vec.X, Y: vec.Y, Z: vec.Z}
}
