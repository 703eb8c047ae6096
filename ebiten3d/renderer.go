package ebiten3d

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/solarlune/tetradae"
)

// DebugInfo holds counts for the last frame a Renderer drew. It's reset by BeginFrame.
type DebugInfo struct {
	DrawnTris  int // Number of drawn triangles, excluding those culled
	TotalTris  int // Total number of triangles handed to the Renderer
	DrawCalls  int // Number of DrawTriangles calls
	LightCount int // Number of lights enabled at some point during the frame
}

type activeLight struct {
	light     *tetradae.Light
	position  tetradae.Vector3
	direction tetradae.Vector3 // The direction the light shines in, for directional and spot lights
}

// screenTriangle is a triangle transformed, lit, and projected, waiting to be sorted and drawn.
type screenTriangle struct {
	vertices [3]ebiten.Vertex
	depth    float32
	texture  string
}

// Renderer draws tetradae scenes onto an ebiten.Image. It implements tetradae.RenderSink, so it's driven by
// tetradae.Render or Scene.Render.
type Renderer struct {
	Target   *ebiten.Image
	Textures *TextureCache
	// Background fills the Target at the start of each frame; a fully transparent Background clears it instead.
	Background tetradae.Color
	// Ambient light applied to every triangle on top of any ambient lights in the scene.
	Ambient tetradae.Color
	// Width and Height are the size of the view in pixels; BeginFrame sets them from Target when there is one.
	Width, Height int

	DebugInfo DebugInfo

	viewProjection tetradae.Matrix4
	cameraPosition tetradae.Vector3
	lights         []*activeLight
	triangles      []screenTriangle
	vertices       []ebiten.Vertex
	indices        []uint16
}

// NewRenderer returns a Renderer drawing onto target, loading textures through textures (which can be nil).
func NewRenderer(target *ebiten.Image, textures *TextureCache) *Renderer {
	renderer := &Renderer{
		Target:   target,
		Textures: textures,
	}
	if target != nil {
		size := target.Bounds().Size()
		renderer.Width, renderer.Height = size.X, size.Y
	}
	return renderer
}

func (renderer *Renderer) BeginFrame(view, projection tetradae.Matrix4) {

	renderer.DebugInfo = DebugInfo{}
	renderer.triangles = renderer.triangles[:0]
	renderer.viewProjection = view.Mult(projection)

	if inverse, ok := view.Inverted(); ok {
		renderer.cameraPosition = inverse.Translation()
	}

	if renderer.Target != nil {
		size := renderer.Target.Bounds().Size()
		renderer.Width, renderer.Height = size.X, size.Y
		if renderer.Background.A > 0 {
			renderer.Target.Fill(renderer.Background)
		} else {
			renderer.Target.Clear()
		}
	}

}

func (renderer *Renderer) EnableLight(slot int, light *tetradae.Light, world tetradae.Matrix4) {

	for len(renderer.lights) <= slot {
		renderer.lights = append(renderer.lights, nil)
	}

	renderer.lights[slot] = &activeLight{
		light:     light,
		position:  world.Translation(),
		direction: world.MultDir(tetradae.NewVector3(0, 0, -1)).Unit(),
	}

	renderer.DebugInfo.LightCount++

}

func (renderer *Renderer) DisableLight(slot int) {
	if slot >= 0 && slot < len(renderer.lights) {
		renderer.lights[slot] = nil
	}
}

// light returns the color a surface at position with the given normal receives from the enabled lights.
func (renderer *Renderer) light(position, normal tetradae.Vector3) tetradae.Color {

	total := renderer.Ambient

	add := func(c tetradae.Color, amount float32) {
		total.R += c.R * amount
		total.G += c.G * amount
		total.B += c.B * amount
	}

	for _, active := range renderer.lights {

		if active == nil || !active.light.On {
			continue
		}

		light := active.light

		switch light.Kind {

		case tetradae.LightAmbient:
			add(light.Color, light.Energy)

		case tetradae.LightDirectional:
			if diffuse := normal.Dot(active.direction.Invert()); diffuse > 0 {
				add(light.Color, light.Energy*diffuse)
			}

		case tetradae.LightPoint, tetradae.LightSpot:

			toLight := active.position.Sub(position)
			distance := toLight.Magnitude()
			if distance == 0 {
				continue
			}
			toLight = toLight.Scale(1 / distance)

			diffuse := normal.Dot(toLight)
			if diffuse <= 0 {
				continue
			}

			amount := light.Energy * diffuse * light.Attenuation(distance)

			if light.Kind == tetradae.LightSpot {
				cos := active.direction.Dot(toLight.Invert())
				cutoff := math32.Cos(tetradae.ToRadians(light.FalloffAngle / 2))
				if cos < cutoff {
					continue
				}
				if light.FalloffExponent > 0 {
					amount *= math32.Pow(cos, light.FalloffExponent)
				}
			}

			add(light.Color, amount)

		}

	}

	total.A = 1
	return total

}

// project returns the screen position and depth of a world-space position, and whether it's in front of the
// camera.
func (renderer *Renderer) project(position tetradae.Vector3) (x, y, depth float32, ok bool) {

	clip := renderer.viewProjection.MultVecW(position.Vector4(1))
	if clip.W <= 0 {
		return 0, 0, 0, false
	}

	width, height := float32(renderer.Width), float32(renderer.Height)

	x = (clip.X/clip.W*0.5 + 0.5) * width
	y = (-clip.Y/clip.W*0.5 + 0.5) * height
	return x, y, clip.W, true

}

func (renderer *Renderer) DrawMesh(world tetradae.Matrix4, mesh *tetradae.Mesh, materials []*tetradae.Material) {

	for partIndex, part := range mesh.Parts {

		var material *tetradae.Material
		if partIndex < len(materials) {
			material = materials[partIndex]
		}

		base := tetradae.NewColor(1, 1, 1, 1)
		texture := ""
		cull := true
		if material != nil {
			base = material.Diffuse()
			if material.Transparency < 1 {
				base.A *= material.Transparency
			}
			texture = material.DiffuseTexture()
			cull = material.BackfaceCulling
		}

		var texWidth, texHeight float32
		if texture != "" && renderer.Textures != nil {
			if img, err := renderer.Textures.Texture(texture); err == nil {
				size := img.Bounds().Size()
				texWidth, texHeight = float32(size.X), float32(size.Y)
			} else {
				texture = ""
			}
		} else {
			texture = ""
		}

		for _, tri := range part.Triangles {

			renderer.DebugInfo.TotalTris++

			var positions [3]tetradae.Vector3
			for i, corner := range tri {
				positions[i] = world.MultVec(mesh.Positions[corner.Position])
			}

			faceNormal := positions[1].Sub(positions[0]).Cross(positions[2].Sub(positions[0])).Unit()
			center := positions[0].Add(positions[1]).Add(positions[2]).Scale(1.0 / 3.0)

			if cull && faceNormal.Dot(renderer.cameraPosition.Sub(center)) <= 0 {
				continue
			}

			screen := screenTriangle{texture: texture}
			visible := true

			for i, corner := range tri {

				x, y, depth, ok := renderer.project(positions[i])
				if !ok {
					visible = false
					break
				}
				screen.depth += depth / 3

				normal := faceNormal
				if corner.Normal >= 0 {
					normal = world.MultDir(mesh.Normals[corner.Normal]).Unit()
				}

				vertex := &screen.vertices[i]
				vertex.DstX, vertex.DstY = x, y
				if corner.TexCoord >= 0 && texture != "" {
					uv := mesh.TexCoords[corner.TexCoord]
					// COLLADA's V runs up the image.
					vertex.SrcX = uv.U * texWidth
					vertex.SrcY = (1 - uv.V) * texHeight
				} else {
					vertex.SrcX, vertex.SrcY = 1, 1
				}
				vertexColor(vertex, base.Mult(renderer.light(positions[i], normal)))

			}

			if !visible {
				continue
			}

			renderer.triangles = append(renderer.triangles, screen)
			renderer.DebugInfo.DrawnTris++

		}

	}

}

// EndFrame sorts the frame's triangles back to front and draws them, batching runs of triangles sharing a
// texture into single DrawTriangles calls.
func (renderer *Renderer) EndFrame() {

	sort.SliceStable(renderer.triangles, func(i, j int) bool {
		return renderer.triangles[i].depth > renderer.triangles[j].depth
	})

	renderer.vertices = renderer.vertices[:0]
	renderer.indices = renderer.indices[:0]
	current := ""

	for _, tri := range renderer.triangles {
		if tri.texture != current || len(renderer.vertices)+3 > maxVertexCount {
			renderer.flush(current)
			current = tri.texture
		}
		for _, vertex := range tri.vertices {
			renderer.indices = append(renderer.indices, uint16(len(renderer.vertices)))
			renderer.vertices = append(renderer.vertices, vertex)
		}
	}

	renderer.flush(current)

}

func (renderer *Renderer) flush(texture string) {

	if len(renderer.vertices) == 0 {
		return
	}

	renderer.DebugInfo.DrawCalls++

	if renderer.Target != nil {

		img := defaultImage()
		if texture != "" && renderer.Textures != nil {
			if loaded, err := renderer.Textures.Texture(texture); err == nil {
				img = loaded
			}
		}

		options := &ebiten.DrawTrianglesOptions{}
		options.Filter = ebiten.FilterNearest
		options.Address = ebiten.AddressRepeat
		renderer.Target.DrawTriangles(renderer.vertices, renderer.indices, img, options)

	}

	renderer.vertices = renderer.vertices[:0]
	renderer.indices = renderer.indices[:0]

}

// Triangles returns the number of triangles waiting to be drawn by EndFrame.
func (renderer *Renderer) Triangles() int {
	return len(renderer.triangles)
}

var _ tetradae.RenderSink = (*Renderer)(nil)
