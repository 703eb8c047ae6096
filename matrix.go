package tetradae

import (
	"strconv"
	"strings"

	"github.com/chewxy/math32"
)

// Matrix4 represents a 4x4 matrix for translation, scale, and rotation. A Matrix4 is row-major and is used with row
// vectors (v' = v * M): the X axis is matrix[0] and the translation is matrix[3]. Because of this, A.Mult(B) is a
// transform that applies A first and B second.
type Matrix4 [4][4]float32

// NewMatrix4 returns a new identity Matrix4.
func NewMatrix4() Matrix4 {
	return Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// NewMatrix4Translate returns a new identity Matrix4, but with the x, y, and z translation components set as provided.
func NewMatrix4Translate(x, y, z float32) Matrix4 {
	mat := NewMatrix4()
	mat[3][0] = x
	mat[3][1] = y
	mat[3][2] = z
	return mat
}

// NewMatrix4Scale returns a new identity Matrix4, but with the scale components set as provided. 1, 1, 1 is the default.
func NewMatrix4Scale(x, y, z float32) Matrix4 {
	mat := NewMatrix4()
	mat[0][0] = x
	mat[1][1] = y
	mat[2][2] = z
	return mat
}

// NewMatrix4Rotate returns a new Matrix4 that rotates counter-clockwise by the angle given (in radians) around the
// axis given [x, y, z], as seen looking down the axis towards the origin. A zero axis rotates around +Y.
func NewMatrix4Rotate(x, y, z, angle float32) Matrix4 {

	if x == 0 && y == 0 && z == 0 {
		y = 1
	}

	axis := Vector3{X: x, Y: y, Z: z}.Unit()
	s := math32.Sin(angle)
	c := math32.Cos(angle)
	t := 1 - c

	return Matrix4{
		{t*axis.X*axis.X + c, t*axis.X*axis.Y + axis.Z*s, t*axis.X*axis.Z - axis.Y*s, 0},
		{t*axis.X*axis.Y - axis.Z*s, t*axis.Y*axis.Y + c, t*axis.Y*axis.Z + axis.X*s, 0},
		{t*axis.X*axis.Z + axis.Y*s, t*axis.Y*axis.Z - axis.X*s, t*axis.Z*axis.Z + c, 0},
		{0, 0, 0, 1},
	}

}

// NewMatrix4FromColumnMajorText builds a Matrix4 out of 16 values written in the order COLLADA's <matrix> element
// uses (rows of a matrix meant for column vectors, so the translation is values 3, 7 and 11).
// Text position i ends up at [i%4][i/4].
func NewMatrix4FromColumnMajorText(values []float32) Matrix4 {
	mat := Matrix4{}
	for i := 0; i < 16 && i < len(values); i++ {
		mat[i%4][i/4] = values[i]
	}
	return mat
}

// Mult multiplies the Matrix4 by the other Matrix4 provided; the result transforms by the Matrix4 first, then by other.
func (matrix Matrix4) Mult(other Matrix4) Matrix4 {

	var result Matrix4

	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			result[row][col] = matrix[row][0]*other[0][col] +
				matrix[row][1]*other[1][col] +
				matrix[row][2]*other[2][col] +
				matrix[row][3]*other[3][col]
		}
	}

	return result

}

// MultVec transforms the point provided by the Matrix4, treating it as having a W component of 1.
func (matrix Matrix4) MultVec(vect Vector3) Vector3 {
	return Vector3{
		X: matrix[0][0]*vect.X + matrix[1][0]*vect.Y + matrix[2][0]*vect.Z + matrix[3][0],
		Y: matrix[0][1]*vect.X + matrix[1][1]*vect.Y + matrix[2][1]*vect.Z + matrix[3][1],
		Z: matrix[0][2]*vect.X + matrix[1][2]*vect.Y + matrix[2][2]*vect.Z + matrix[3][2],
	}
}

// MultVecW transforms the vector provided by the Matrix4, including the fourth (W) component.
func (matrix Matrix4) MultVecW(vect Vector4) Vector4 {
	return Vector4{
		X: matrix[0][0]*vect.X + matrix[1][0]*vect.Y + matrix[2][0]*vect.Z + matrix[3][0]*vect.W,
		Y: matrix[0][1]*vect.X + matrix[1][1]*vect.Y + matrix[2][1]*vect.Z + matrix[3][1]*vect.W,
		Z: matrix[0][2]*vect.X + matrix[1][2]*vect.Y + matrix[2][2]*vect.Z + matrix[3][2]*vect.W,
		W: matrix[0][3]*vect.X + matrix[1][3]*vect.Y + matrix[2][3]*vect.Z + matrix[3][3]*vect.W,
	}
}

// MultDir transforms the direction provided by the rotation and scale of the Matrix4, ignoring its translation.
func (matrix Matrix4) MultDir(vect Vector3) Vector3 {
	return Vector3{
		X: matrix[0][0]*vect.X + matrix[1][0]*vect.Y + matrix[2][0]*vect.Z,
		Y: matrix[0][1]*vect.X + matrix[1][1]*vect.Y + matrix[2][1]*vect.Z,
		Z: matrix[0][2]*vect.X + matrix[1][2]*vect.Y + matrix[2][2]*vect.Z,
	}
}

// Inverted returns the inverse of the Matrix4 using Gauss-Jordan elimination with partial pivoting.
// ok is false, and the identity is returned, when the Matrix4 can't be inverted.
func (matrix Matrix4) Inverted() (inverse Matrix4, ok bool) {

	work := matrix
	inverse = NewMatrix4()

	for col := 0; col < 4; col++ {

		pivot := col
		for row := col + 1; row < 4; row++ {
			if math32.Abs(work[row][col]) > math32.Abs(work[pivot][col]) {
				pivot = row
			}
		}

		if math32.Abs(work[pivot][col]) < 1e-12 {
			return NewMatrix4(), false
		}

		work[col], work[pivot] = work[pivot], work[col]
		inverse[col], inverse[pivot] = inverse[pivot], inverse[col]

		scale := 1 / work[col][col]
		for i := 0; i < 4; i++ {
			work[col][i] *= scale
			inverse[col][i] *= scale
		}

		for row := 0; row < 4; row++ {
			if row == col {
				continue
			}
			factor := work[row][col]
			if factor == 0 {
				continue
			}
			for i := 0; i < 4; i++ {
				work[row][i] -= factor * work[col][i]
				inverse[row][i] -= factor * inverse[col][i]
			}
		}

	}

	return inverse, true

}

// Transposed returns a copy of the Matrix4 with its rows and columns swapped.
func (matrix Matrix4) Transposed() Matrix4 {
	var result Matrix4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			result[col][row] = matrix[row][col]
		}
	}
	return result
}

// Equals returns true if every value of the Matrix4 is within a small epsilon of the other Matrix4's.
func (matrix Matrix4) Equals(other Matrix4) bool {
	eps := float32(0.0001)
	for row := range matrix {
		for col := range matrix[row] {
			if math32.Abs(matrix[row][col]-other[row][col]) > eps {
				return false
			}
		}
	}
	return true
}

// IsIdentity returns true if the matrix is an unmodified identity matrix.
func (matrix Matrix4) IsIdentity() bool {
	return matrix.Equals(NewMatrix4())
}

// Row returns the indiced row from the Matrix4 as a Vector4.
func (matrix Matrix4) Row(rowIndex int) Vector4 {
	return Vector4{X: matrix[rowIndex][0], Y: matrix[rowIndex][1], Z: matrix[rowIndex][2], W: matrix[rowIndex][3]}
}

// Column returns the indiced column from the Matrix4 as a Vector4.
func (matrix Matrix4) Column(columnIndex int) Vector4 {
	return Vector4{X: matrix[0][columnIndex], Y: matrix[1][columnIndex], Z: matrix[2][columnIndex], W: matrix[3][columnIndex]}
}

// SetRow sets the Matrix4 with the row in rowIndex set to the 4D vector passed.
func (matrix *Matrix4) SetRow(rowIndex int, vec Vector4) {
	matrix[rowIndex] = [4]float32{vec.X, vec.Y, vec.Z, vec.W}
}

// Translation returns the translation the Matrix4 applies.
func (matrix Matrix4) Translation() Vector3 {
	return Vector3{X: matrix[3][0], Y: matrix[3][1], Z: matrix[3][2]}
}

// Decompose returns the position, scale, and rotation of the Matrix4. Negative scales are not supported.
func (matrix Matrix4) Decompose() (position Vector3, scale Vector3, rotation Matrix4) {

	position = matrix.Translation()

	scale = Vector3{
		X: matrix.Row(0).Vector3().Magnitude(),
		Y: matrix.Row(1).Vector3().Magnitude(),
		Z: matrix.Row(2).Vector3().Magnitude(),
	}

	rotation = NewMatrix4()
	rotation.SetRow(0, matrix.Row(0).Vector3().Unit().Vector4(0))
	rotation.SetRow(1, matrix.Row(1).Vector3().Unit().Vector4(0))
	rotation.SetRow(2, matrix.Row(2).Vector3().Unit().Vector4(0))

	return position, scale, rotation

}

// ColumnMajor returns the values of the Matrix4 in the order glTF and OpenGL expect for a column-vector matrix,
// which for the row-vector convention used here is simply row after row.
func (matrix Matrix4) ColumnMajor() [16]float64 {
	var values [16]float64
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			values[row*4+col] = float64(matrix[row][col])
		}
	}
	return values
}

// NewProjectionPerspective generates a perspective frustum Matrix4 for row vectors. fovy is the vertical field of
// view in degrees, near and far are the near and far clipping planes, and aspect is the view's width over its height.
func NewProjectionPerspective(fovy, near, far, aspect float32) Matrix4 {

	f := 1 / math32.Tan(ToRadians(fovy)/2)

	return Matrix4{
		{f / aspect, 0, 0, 0},
		{0, f, 0, 0},
		{0, 0, -(far + near) / (far - near), -1},
		{0, 0, -(2 * far * near) / (far - near), 0},
	}

}

func (matrix Matrix4) String() string {
	var builder strings.Builder
	builder.WriteString("{")
	for row := range matrix {
		for col, value := range matrix[row] {
			builder.WriteString(strconv.FormatFloat(float64(value), 'f', -1, 32))
			if col < 3 {
				builder.WriteString(", ")
			}
		}
		if row < 3 {
			builder.WriteString("\n ")
		}
	}
	builder.WriteString("}")
	return builder.String()
}
