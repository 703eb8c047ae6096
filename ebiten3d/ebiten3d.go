// Package ebiten3d draws tetradae scenes with Ebitengine. Renderer implements tetradae.RenderSink: it transforms
// and lights triangles on the CPU, sorts them back to front, and hands them to ebiten.Image.DrawTriangles.
// TextureCache loads the image files COLLADA materials name.
package ebiten3d

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/solarlune/tetradae"
)

// maxVertexCount is the most vertices one DrawTriangles call can index with uint16 indices, rounded down to whole
// triangles.
const maxVertexCount = 65535

var defaultImg *ebiten.Image

// defaultImage returns the small white image untextured triangles are drawn with.
func defaultImage() *ebiten.Image {
	if defaultImg == nil {
		defaultImg = ebiten.NewImage(4, 4)
		defaultImg.Fill(color.White)
	}
	return defaultImg
}

// vertexColor sets the color of an ebiten.Vertex, clamping components to 0-1.
func vertexColor(vertex *ebiten.Vertex, c tetradae.Color) {
	vertex.ColorR = tetradae.Clamp(c.R, 0, 1)
	vertex.ColorG = tetradae.Clamp(c.G, 0, 1)
	vertex.ColorB = tetradae.Clamp(c.B, 0, 1)
	vertex.ColorA = tetradae.Clamp(c.A, 0, 1)
}
