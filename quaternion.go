package tetradae

import "github.com/chewxy/math32"

// Quaternion is a rotation, stored the way glTF stores one (X, Y, Z, then W).
type Quaternion struct {
	X, Y, Z, W float32
}

func NewQuaternion(x, y, z, w float32) Quaternion {
	return Quaternion{x, y, z, w}
}

// NewQuaternionFromMatrix returns the rotation of a pure rotation Matrix4, like the one Matrix4.Decompose returns.
func NewQuaternionFromMatrix(matrix Matrix4) Quaternion {

	// Row vectors, so the matrix is the transpose of the usual column-vector rotation.
	m00, m11, m22 := matrix[0][0], matrix[1][1], matrix[2][2]
	trace := m00 + m11 + m22

	var quat Quaternion

	switch {

	case trace > 0:
		s := math32.Sqrt(trace+1) * 2
		quat.W = s / 4
		quat.X = (matrix[1][2] - matrix[2][1]) / s
		quat.Y = (matrix[2][0] - matrix[0][2]) / s
		quat.Z = (matrix[0][1] - matrix[1][0]) / s

	case m00 > m11 && m00 > m22:
		s := math32.Sqrt(1+m00-m11-m22) * 2
		quat.W = (matrix[1][2] - matrix[2][1]) / s
		quat.X = s / 4
		quat.Y = (matrix[1][0] + matrix[0][1]) / s
		quat.Z = (matrix[2][0] + matrix[0][2]) / s

	case m11 > m22:
		s := math32.Sqrt(1+m11-m00-m22) * 2
		quat.W = (matrix[2][0] - matrix[0][2]) / s
		quat.X = (matrix[1][0] + matrix[0][1]) / s
		quat.Y = s / 4
		quat.Z = (matrix[2][1] + matrix[1][2]) / s

	default:
		s := math32.Sqrt(1+m22-m00-m11) * 2
		quat.W = (matrix[0][1] - matrix[1][0]) / s
		quat.X = (matrix[2][0] + matrix[0][2]) / s
		quat.Y = (matrix[2][1] + matrix[1][2]) / s
		quat.Z = s / 4

	}

	return quat.Unit()

}

func (quat Quaternion) Dot(other Quaternion) float32 {
	return quat.X*other.X + quat.Y*other.Y + quat.Z*other.Z + quat.W*other.W
}

// Unit returns the Quaternion scaled to a length of 1.
func (quat Quaternion) Unit() Quaternion {
	length := math32.Sqrt(quat.Dot(quat))
	if length == 0 {
		return Quaternion{W: 1}
	}
	return Quaternion{quat.X / length, quat.Y / length, quat.Z / length, quat.W / length}
}

// Matrix returns the rotation Matrix4 for the Quaternion.
func (quat Quaternion) Matrix() Matrix4 {

	x, y, z, w := quat.X, quat.Y, quat.Z, quat.W

	return Matrix4{
		{1 - 2*(y*y+z*z), 2 * (x*y + z*w), 2 * (x*z - y*w), 0},
		{2 * (x*y - z*w), 1 - 2*(x*x+z*z), 2 * (y*z + x*w), 0},
		{2 * (x*z + y*w), 2 * (y*z - x*w), 1 - 2*(x*x+y*y), 0},
		{0, 0, 0, 1},
	}

}

// Slerp returns the rotation percent of the way from the Quaternion to the other one, along the shortest arc.
func (quat Quaternion) Slerp(other Quaternion, percent float32) Quaternion {

	if percent <= 0 {
		return quat
	} else if percent >= 1 {
		return other
	}

	angle := quat.Dot(other)
	if angle < 0 {
		other = Quaternion{-other.X, -other.Y, -other.Z, -other.W}
		angle = -angle
	}

	// Nearly the same rotation; blend linearly.
	if angle > 0.9995 {
		return Quaternion{
			quat.X + (other.X-quat.X)*percent,
			quat.Y + (other.Y-quat.Y)*percent,
			quat.Z + (other.Z-quat.Z)*percent,
			quat.W + (other.W-quat.W)*percent,
		}.Unit()
	}

	halfTheta := math32.Acos(angle)
	sinHalfTheta := math32.Sin(halfTheta)

	ratioA := math32.Sin((1-percent)*halfTheta) / sinHalfTheta
	ratioB := math32.Sin(percent*halfTheta) / sinHalfTheta

	return Quaternion{
		quat.X*ratioA + other.X*ratioB,
		quat.Y*ratioA + other.Y*ratioB,
		quat.Z*ratioA + other.Z*ratioB,
		quat.W*ratioA + other.W*ratioB,
	}

}
