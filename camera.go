package tetradae

import "github.com/chewxy/math32"

// Camera is a perspective camera attached to a Node; it looks down the Node's -Z axis with +Y up.
// Field of view values are in degrees; a zero XFov, YFov, or AspectRatio is unset.
type Camera struct {
	Name        string
	XFov        float32
	YFov        float32
	AspectRatio float32
	Near        float32
	Far         float32
}

// NewCamera returns a new Camera with the given vertical field of view and clipping planes.
func NewCamera(name string, yfov, near, far float32) *Camera {
	return &Camera{Name: name, YFov: yfov, Near: near, Far: far}
}

// Clone returns a copy of the Camera.
func (camera *Camera) Clone() *Camera {
	clone := *camera
	return &clone
}

// Aspect returns the Camera's aspect ratio, or viewAspect if the Camera doesn't set one.
func (camera *Camera) Aspect(viewAspect float32) float32 {
	if camera.AspectRatio > 0 {
		return camera.AspectRatio
	}
	if camera.XFov > 0 && camera.YFov > 0 {
		return math32.Tan(ToRadians(camera.XFov)/2) / math32.Tan(ToRadians(camera.YFov)/2)
	}
	if viewAspect > 0 {
		return viewAspect
	}
	return 1
}

// FieldOfView returns the vertical field of view in degrees. A camera that only sets a horizontal field of view has
// its vertical one derived from the aspect ratio; one that sets neither gets 45 degrees.
func (camera *Camera) FieldOfView(viewAspect float32) float32 {
	if camera.YFov > 0 {
		return camera.YFov
	}
	if camera.XFov > 0 {
		aspect := camera.Aspect(viewAspect)
		return ToDegrees(2 * math32.Atan(math32.Tan(ToRadians(camera.XFov)/2)/aspect))
	}
	return 45
}

// Projection returns the Camera's projection matrix for a view with the given width over height.
func (camera *Camera) Projection(viewAspect float32) Matrix4 {
	return NewProjectionPerspective(camera.FieldOfView(viewAspect), camera.Near, camera.Far, camera.Aspect(viewAspect))
}

// ViewMatrix returns the view matrix for a camera whose node has the given scene transform.
func ViewMatrix(world Matrix4) Matrix4 {
	if view, ok := world.Inverted(); ok {
		return view
	}
	// Degenerate (zero-scaled) cameras still see from their position.
	pos := world.Translation().Invert()
	return NewMatrix4Translate(pos.X, pos.Y, pos.Z)
}
