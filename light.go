package tetradae

import "github.com/solarlune/tetradae/dae"

// LightKind is the type of a Light.
type LightKind = dae.LightKind

const (
	LightAmbient     = dae.LightAmbient     // Ambient light colors everything evenly
	LightDirectional = dae.LightDirectional // Directional (sun) light shines down its node's -Z axis from infinitely far away
	LightPoint       = dae.LightPoint       // Point light radiates from its node's position
	LightSpot        = dae.LightSpot        // Spot light shines a cone down its node's -Z axis
)

// Light is a light source attached to a Node. Its position and direction come from the Node's scene transform.
type Light struct {
	Name  string
	Kind  LightKind
	Color Color
	// Energy scales Color; 1 by default.
	Energy float32
	// On is whether the light contributes to the scene.
	On bool

	// Attenuation factors for point and spot lights; the light's intensity at a distance d is divided by
	// ConstantAttenuation + LinearAttenuation*d + QuadraticAttenuation*d*d.
	ConstantAttenuation  float32
	LinearAttenuation    float32
	QuadraticAttenuation float32

	FalloffAngle    float32 // Spot cone angle in degrees
	FalloffExponent float32
}

// NewLight returns a new light of the given kind, color, and an energy of 1, with no attenuation.
func NewLight(name string, kind LightKind, color Color) *Light {
	return &Light{
		Name:                name,
		Kind:                kind,
		Color:               color,
		Energy:              1,
		On:                  true,
		ConstantAttenuation: 1,
		FalloffAngle:        180,
	}
}

// Clone returns a copy of the Light.
func (light *Light) Clone() *Light {
	clone := *light
	return &clone
}

// Attenuation returns the factor the light's intensity is multiplied by at the given distance.
// Ambient and directional lights don't attenuate.
func (light *Light) Attenuation(distance float32) float32 {
	if light.Kind == LightAmbient || light.Kind == LightDirectional {
		return 1
	}
	divisor := light.ConstantAttenuation + light.LinearAttenuation*distance + light.QuadraticAttenuation*distance*distance
	if divisor <= 0 {
		return 1
	}
	return 1 / divisor
}

// LightAllocator hands out the fixed number of light slots a renderer has. Lights are enabled for the subtree of
// the node that carries them, so slots are acquired on the way down a tree and released on the way back up.
type LightAllocator struct {
	used []bool
}

// NewLightAllocator returns a LightAllocator with max slots.
func NewLightAllocator(max int) *LightAllocator {
	if max < 0 {
		max = 0
	}
	return &LightAllocator{used: make([]bool, max)}
}

// Max returns the number of slots.
func (alloc *LightAllocator) Max() int {
	return len(alloc.used)
}

// Acquire returns the lowest free slot; ok is false if every slot is in use.
func (alloc *LightAllocator) Acquire() (slot int, ok bool) {
	for i, used := range alloc.used {
		if !used {
			alloc.used[i] = true
			return i, true
		}
	}
	return -1, false
}

// Release frees a slot. Releasing a free or unknown slot does nothing.
func (alloc *LightAllocator) Release(slot int) {
	if slot >= 0 && slot < len(alloc.used) {
		alloc.used[slot] = false
	}
}

// Reset frees every slot.
func (alloc *LightAllocator) Reset() {
	for i := range alloc.used {
		alloc.used[i] = false
	}
}

// InUse returns the number of slots acquired.
func (alloc *LightAllocator) InUse() int {
	count := 0
	for _, used := range alloc.used {
		if used {
			count++
		}
	}
	return count
}
