package tetradae

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestQuaternionFromMatrix(t *testing.T) {

	for _, rotation := range []Matrix4{
		NewMatrix4(),
		NewMatrix4Rotate(1, 0, 0, -math32.Pi/2),
		NewMatrix4Rotate(0, 1, 0, 3),
		NewMatrix4Rotate(0, 0, 1, math32.Pi),
		NewMatrix4Rotate(1, 1, 0, math32.Pi),
		NewMatrix4Rotate(0.2, -1, 0.5, 2.5),
	} {
		quat := NewQuaternionFromMatrix(rotation)
		assert.InDelta(t, 1, quat.Dot(quat), 0.0001)
		assert.True(t, quat.Matrix().Equals(rotation), "%v", quat)
	}

	quat := NewQuaternionFromMatrix(NewMatrix4Rotate(0, 0, 1, math32.Pi/2))
	assert.InDelta(t, math32.Sqrt2/2, quat.Z, 0.0001)
	assert.InDelta(t, math32.Sqrt2/2, quat.W, 0.0001)

}

func TestQuaternionSlerp(t *testing.T) {

	start := NewQuaternion(0, 0, 0, 1)
	end := NewQuaternionFromMatrix(NewMatrix4Rotate(0, 1, 0, math32.Pi/2))

	assert.Equal(t, start, start.Slerp(end, 0))
	assert.Equal(t, end, start.Slerp(end, 1))

	half := start.Slerp(end, 0.5)
	assert.True(t, half.Matrix().Equals(NewMatrix4Rotate(0, 1, 0, math32.Pi/4)))

	// The negated quaternion is the same rotation, and the shortest arc is taken either way.
	negated := NewQuaternion(-end.X, -end.Y, -end.Z, -end.W)
	assert.True(t, start.Slerp(negated, 0.5).Matrix().Equals(half.Matrix()))

	assert.Equal(t, NewQuaternion(0, 0, 0, 1), Quaternion{}.Unit())

}
