package tetradae

import (
	"strconv"
	"strings"

	"github.com/solarlune/tetradae/dae"
)

// TransformStep is one translate, rotate, scale or matrix step of a Node's local transform, as written in the
// source document. Animations change the Values of steps by SID.
type TransformStep struct {
	SID    string
	Kind   dae.TransformKind
	Values []float32
}

// NewTransformStep returns a TransformStep with a copy of the values given.
func NewTransformStep(sid string, kind dae.TransformKind, values ...float32) TransformStep {
	return TransformStep{SID: sid, Kind: kind, Values: append([]float32(nil), values...)}
}

// Matrix returns the Matrix4 for the step. Rotation angles are in degrees. Missing values count as zero.
func (step TransformStep) Matrix() Matrix4 {

	v := func(i int) float32 {
		if i < len(step.Values) {
			return step.Values[i]
		}
		return 0
	}

	switch step.Kind {
	case dae.TransformTranslate:
		return NewMatrix4Translate(v(0), v(1), v(2))
	case dae.TransformRotate:
		return NewMatrix4Rotate(v(0), v(1), v(2), ToRadians(v(3)))
	case dae.TransformScale:
		return NewMatrix4Scale(v(0), v(1), v(2))
	case dae.TransformMatrix:
		return NewMatrix4FromColumnMajorText(step.Values)
	}

	return NewMatrix4()

}

// ComposeTransformSteps returns the local transform for the steps in document order; the first step is the
// outermost, so a point is transformed by the last step first.
func ComposeTransformSteps(steps []TransformStep) Matrix4 {
	local := NewMatrix4()
	for _, step := range steps {
		local = step.Matrix().Mult(local)
	}
	return local
}

// MemberIndex returns the index into the step's Values that an animation target member addresses:
// "X", "Y" and "Z" (and "ANGLE" for rotations), "(n)" for a single value, or "(row)(column)" for matrices.
// An empty member addresses the whole step and returns -1.
func (step TransformStep) MemberIndex(member string) (int, bool) {

	if member == "" {
		return -1, true
	}

	switch strings.ToUpper(member) {
	case "X":
		return 0, true
	case "Y":
		return 1, true
	case "Z":
		return 2, true
	case "ANGLE":
		if step.Kind == dae.TransformRotate {
			return 3, true
		}
		return 0, false
	}

	var indices []int
	for rest := member; rest != ""; {
		if rest[0] != '(' {
			return 0, false
		}
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return 0, false
		}
		n, err := strconv.Atoi(rest[1:end])
		if err != nil || n < 0 {
			return 0, false
		}
		indices = append(indices, n)
		rest = rest[end+1:]
	}

	index := 0
	switch len(indices) {
	case 1:
		index = indices[0]
	case 2:
		if indices[0] > 3 || indices[1] > 3 {
			return 0, false
		}
		index = indices[0]*4 + indices[1]
	default:
		return 0, false
	}

	if index >= step.Kind.Arity() {
		return 0, false
	}

	return index, true

}
