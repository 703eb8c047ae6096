package tetradae

import "github.com/solarlune/tetradae/dae"

// ShaderModel is the shading model a Material was authored with.
type ShaderModel = dae.ShaderModel

const (
	ShaderPhong   = dae.ShaderPhong
	ShaderBlinn   = dae.ShaderBlinn
	ShaderLambert = dae.ShaderLambert
)

const (
	// TransparencyModeOpaque means the triangles are rendered to the color and depth buffer as normal.
	TransparencyModeOpaque = iota

	// TransparencyModeTransparent means the triangles are blended with what's behind them, and are drawn after
	// opaque triangles.
	TransparencyModeTransparent
)

// MaterialChannel names one of a Material's color channels.
type MaterialChannel int

const (
	ChannelEmission MaterialChannel = iota
	ChannelAmbient
	ChannelDiffuse
	ChannelSpecular
	ChannelReflective
	ChannelTransparent
	channelCount
)

var channelNames = [channelCount]string{"emission", "ambient", "diffuse", "specular", "reflective", "transparent"}

func (channel MaterialChannel) String() string {
	if channel >= 0 && channel < channelCount {
		return channelNames[channel]
	}
	return "unknown"
}

// Material describes how the surface of a MeshPart is shaded. Each color channel may also be given a texture,
// by image file name.
type Material struct {
	ID     string
	Name   string
	Shader ShaderModel

	Colors   [channelCount]Color
	Textures [channelCount]string

	Shininess         float32
	Reflectivity      float32
	Transparency      float32
	IndexOfRefraction float32

	BackfaceCulling  bool // If backface culling is enabled (which it is by default), faces turned away from the camera aren't rendered.
	TransparencyMode int
}

// Color returns the color of the channel.
func (material *Material) Color(channel MaterialChannel) Color {
	return material.Colors[channel]
}

// Texture returns the texture of the channel, or an empty string if it has none.
func (material *Material) Texture(channel MaterialChannel) string {
	return material.Textures[channel]
}

// Diffuse returns the diffuse color.
func (material *Material) Diffuse() Color {
	return material.Colors[ChannelDiffuse]
}

// DiffuseTexture returns the diffuse texture's image file name.
func (material *Material) DiffuseTexture() string {
	return material.Textures[ChannelDiffuse]
}

// Clone creates a clone of the Material.
func (material *Material) Clone() *Material {
	clone := *material
	return &clone
}

// MaterialBuilder builds a Material. Channels that are never set are black, scalars are zero, and the transparency
// is 1 (opaque).
type MaterialBuilder struct {
	material Material
	hasID    bool
}

// NewMaterialBuilder returns a new MaterialBuilder.
func NewMaterialBuilder() *MaterialBuilder {
	builder := &MaterialBuilder{}
	builder.material.Shader = ShaderPhong
	for i := range builder.material.Colors {
		builder.material.Colors[i] = NewColor(0, 0, 0, 1)
	}
	builder.material.Transparency = 1
	builder.material.BackfaceCulling = true
	return builder
}

// SetID sets the id of the Material, which it's stored under in a Library.
func (builder *MaterialBuilder) SetID(id string) *MaterialBuilder {
	builder.material.ID = id
	builder.hasID = id != ""
	return builder
}

func (builder *MaterialBuilder) SetName(name string) *MaterialBuilder {
	builder.material.Name = name
	return builder
}

func (builder *MaterialBuilder) SetShader(model ShaderModel) *MaterialBuilder {
	builder.material.Shader = model
	return builder
}

// SetColor sets the color of a channel.
func (builder *MaterialBuilder) SetColor(channel MaterialChannel, color Color) *MaterialBuilder {
	builder.material.Colors[channel] = color
	return builder
}

// SetTexture sets the texture of a channel to the image file name given.
func (builder *MaterialBuilder) SetTexture(channel MaterialChannel, name string) *MaterialBuilder {
	builder.material.Textures[channel] = name
	return builder
}

func (builder *MaterialBuilder) SetEmission(color Color) *MaterialBuilder {
	return builder.SetColor(ChannelEmission, color)
}

func (builder *MaterialBuilder) SetAmbient(color Color) *MaterialBuilder {
	return builder.SetColor(ChannelAmbient, color)
}

func (builder *MaterialBuilder) SetDiffuse(color Color) *MaterialBuilder {
	return builder.SetColor(ChannelDiffuse, color)
}

func (builder *MaterialBuilder) SetSpecular(color Color) *MaterialBuilder {
	return builder.SetColor(ChannelSpecular, color)
}

func (builder *MaterialBuilder) SetReflective(color Color) *MaterialBuilder {
	return builder.SetColor(ChannelReflective, color)
}

func (builder *MaterialBuilder) SetTransparent(color Color) *MaterialBuilder {
	return builder.SetColor(ChannelTransparent, color)
}

func (builder *MaterialBuilder) SetDiffuseTexture(name string) *MaterialBuilder {
	return builder.SetTexture(ChannelDiffuse, name)
}

func (builder *MaterialBuilder) SetShininess(value float32) *MaterialBuilder {
	builder.material.Shininess = value
	return builder
}

func (builder *MaterialBuilder) SetReflectivity(value float32) *MaterialBuilder {
	builder.material.Reflectivity = value
	return builder
}

// SetTransparency sets how opaque the material is, from 0 (invisible) to 1 (opaque).
func (builder *MaterialBuilder) SetTransparency(value float32) *MaterialBuilder {
	builder.material.Transparency = value
	return builder
}

func (builder *MaterialBuilder) SetIndexOfRefraction(value float32) *MaterialBuilder {
	builder.material.IndexOfRefraction = value
	return builder
}

// Build returns the Material. It returns ErrMaterialNoID if SetID was never called with an id.
func (builder *MaterialBuilder) Build() (*Material, error) {
	if !builder.hasID {
		return nil, ErrMaterialNoID
	}
	material := builder.material
	if material.Transparency < 1 || material.Colors[ChannelDiffuse].A < 1 {
		material.TransparencyMode = TransparencyModeTransparent
	}
	return &material, nil
}
