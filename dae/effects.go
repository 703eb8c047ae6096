package dae

import (
	"encoding/xml"
	"fmt"
)

func (p *Parser) enterCollada(attrs []xml.Attr) error {
	p.doc.Version = attr(attrs, "version")
	return nil
}

func (p *Parser) leaveCollada() error {

	if p.doc.Scene == nil {
		return fmt.Errorf("%w: document has no <scene>", ErrStructure)
	}

	for _, material := range p.unresolvedEffects {
		effect, err := lookup(p.doc.Effects, "effect", material.EffectURL)
		if err != nil {
			return fmt.Errorf("material %q: %w", material.ID, err)
		}
		material.Effect = effect
	}
	p.unresolvedEffects = nil

	for _, texture := range p.textures {
		if err := p.resolveTexture(texture); err != nil {
			return fmt.Errorf("effect %q: %w", texture.effect, err)
		}
	}
	p.textures = nil

	p.done = true

	Logger().Debug("dae: read document",
		"version", p.doc.Version,
		"geometries", p.doc.Geometries.Len(),
		"materials", p.doc.Materials.Len(),
		"lights", p.doc.Lights.Len(),
		"cameras", p.doc.Cameras.Len(),
		"animations", p.doc.Animations.Len(),
	)

	return nil

}

// resolveTexture follows a texture's sampler param to its surface param and then to an image.
// A texture attribute that doesn't name a param is taken to be an image id.
func (p *Parser) resolveTexture(texture pendingTexture) error {

	imageID := texture.ref.Texture

	if param, ok := texture.profile.Params[imageID]; ok {

		if param.Sampler != nil {
			surfaceParam, ok := texture.profile.Params[param.Sampler.Source]
			if !ok || surfaceParam.Surface == nil {
				return &ReferenceError{Kind: "surface", Ref: param.Sampler.Source}
			}
			param = surfaceParam
		}

		if param.Surface == nil {
			return &ReferenceError{Kind: "sampler", Ref: imageID}
		}

		imageID = param.Surface.InitFrom

	}

	image, ok := p.doc.Images.Get(imageID)
	if !ok {
		return &ReferenceError{Kind: "image", Ref: imageID}
	}
	texture.ref.Image = image
	return nil

}

func (p *Parser) leaveUpAxis() error {
	axis := p.textString()
	switch axis {
	case "X_UP", "Y_UP", "Z_UP":
		p.doc.Asset.UpAxis = axis
		return nil
	}
	return fmt.Errorf("%w: up_axis %q", ErrStructure, axis)
}

func (p *Parser) enterUnit(attrs []xml.Attr) error {
	p.doc.Asset.UnitName = attr(attrs, "name")
	if meter := attr(attrs, "meter"); meter != "" {
		values, err := parseFloats([]byte(meter))
		if err != nil {
			return err
		}
		if len(values) != 1 {
			return &FormatError{Token: meter, Kind: "float"}
		}
		p.doc.Asset.UnitMeter = values[0]
	}
	return nil
}

//---------------//

func (p *Parser) enterImage(attrs []xml.Attr) error {
	image, err := NewImage(attr(attrs, "id"), attr(attrs, "name"), "")
	if err != nil {
		return err
	}
	if err := p.doc.Images.Add(image); err != nil {
		return err
	}
	p.image = image
	return nil
}

func (p *Parser) leaveImageInitFrom() error {
	p.image.InitFrom = p.textString()
	return nil
}

func (p *Parser) leaveImage() error {
	image := p.image
	p.image = nil
	if image.InitFrom == "" {
		return missingField("Image", "init_from")
	}
	return nil
}

func (p *Parser) enterMaterial(attrs []xml.Attr) error {
	material, err := NewMaterial(attr(attrs, "id"), attr(attrs, "name"))
	if err != nil {
		return err
	}
	if err := p.doc.Materials.Add(material); err != nil {
		return err
	}
	p.material = material
	return nil
}

func (p *Parser) enterInstanceEffect(attrs []xml.Attr) error {
	url, err := requireAttr(attrs, "instance_effect", "url")
	if err != nil {
		return err
	}
	if _, err := fragment("effect", url); err != nil {
		return err
	}
	p.material.EffectURL = url
	return nil
}

func (p *Parser) leaveMaterial() error {

	material := p.material
	p.material = nil

	if material.EffectURL == "" {
		return missingField("Material", "instance_effect")
	}

	// Exporters commonly write library_materials before library_effects, so the effect may only be known
	// once the whole document has been read.
	if effect, err := lookup(p.doc.Effects, "effect", material.EffectURL); err == nil {
		material.Effect = effect
	} else {
		p.unresolvedEffects = append(p.unresolvedEffects, material)
	}

	return nil

}

//---------------//

func (p *Parser) enterEffect(attrs []xml.Attr) error {
	effect, err := NewEffect(attr(attrs, "id"), attr(attrs, "name"))
	if err != nil {
		return err
	}
	if err := p.doc.Effects.Add(effect); err != nil {
		return err
	}
	p.effect = effect
	return nil
}

func (p *Parser) leaveEffect() error {
	p.effect = nil
	return nil
}

func (p *Parser) enterProfileCommon(_ []xml.Attr) error {
	p.profile = newCommonProfile()
	p.effect.Profiles = append(p.effect.Profiles, p.profile)
	return nil
}

func (p *Parser) leaveProfileCommon() error {
	p.profile = nil
	return nil
}

func (p *Parser) enterNewParam(attrs []xml.Attr) error {
	sid, err := requireAttr(attrs, "newparam", "sid")
	if err != nil {
		return err
	}
	if _, exists := p.profile.Params[sid]; exists {
		return fmt.Errorf("%w: newparam sid %q", ErrDuplicateID, sid)
	}
	p.newParam = &NewParam{SID: sid}
	p.profile.Params[sid] = p.newParam
	return nil
}

func (p *Parser) leaveNewParam() error {
	p.newParam = nil
	return nil
}

func (p *Parser) enterSurface(_ []xml.Attr) error {
	p.newParam.Surface = &Surface{}
	return nil
}

func (p *Parser) leaveSurfaceInitFrom() error {
	p.newParam.Surface.InitFrom = p.textString()
	return nil
}

func (p *Parser) enterSampler2D(_ []xml.Attr) error {
	p.newParam.Sampler = &Sampler2D{}
	return nil
}

func (p *Parser) leaveSamplerSource() error {
	p.newParam.Sampler.Source = p.textString()
	return nil
}

func (p *Parser) enterTechnique(attrs []xml.Attr) error {
	p.technique = &Technique{SID: attr(attrs, "sid")}
	p.profile.Techniques = append(p.profile.Techniques, p.technique)
	return nil
}

func (p *Parser) leaveTechnique() error {
	p.technique = nil
	return nil
}

func shadingEnter(model ShaderModel) func(p *Parser, attrs []xml.Attr) error {
	return func(p *Parser, _ []xml.Attr) error {
		if p.technique.Shader != nil {
			return fmt.Errorf("%w: technique has more than one shader", ErrStructure)
		}
		p.shading = &Shading{Model: model}
		p.technique.Shader = p.shading
		return nil
	}
}

func (p *Parser) leaveShading() error {
	p.shading = nil
	return nil
}

func channelEnter(field func(s *Shading) **ColorOrTexture) action {
	return action{next: stateShadingChannel, enter: func(p *Parser, _ []xml.Attr) error {
		p.channel = field(p.shading)
		return nil
	}}
}

func (p *Parser) leaveShadingChannel() error {
	p.channel = nil
	return nil
}

func (p *Parser) leaveShadingColor() error {
	color, err := p.textColor()
	if err != nil {
		return err
	}
	*p.channel = NewColorValue(color[0], color[1], color[2], color[3])
	return nil
}

// textColor parses the collected text as an RGB or RGBA color; alpha is 1 when left out.
func (p *Parser) textColor() ([4]float32, error) {
	values, err := p.textFloats()
	if err != nil {
		return [4]float32{}, err
	}
	switch len(values) {
	case 3:
		return [4]float32{values[0], values[1], values[2], 1}, nil
	case 4:
		return [4]float32{values[0], values[1], values[2], values[3]}, nil
	}
	return [4]float32{}, fmt.Errorf("%w: color has %d components", ErrMalformedNumber, len(values))
}

func (p *Parser) enterTexture(attrs []xml.Attr) error {
	value, err := NewTextureValue(attr(attrs, "texture"), attr(attrs, "texcoord"))
	if err != nil {
		return err
	}
	*p.channel = value
	p.textures = append(p.textures, pendingTexture{ref: value.Texture(), profile: p.profile, effect: p.effect.ID})
	return nil
}

func scalarEnter(field func(s *Shading) **float32) action {
	return action{next: stateShadingScalar, enter: func(p *Parser, _ []xml.Attr) error {
		target := field(p.shading)
		p.setScalar = func(value float32) { *target = &value }
		return nil
	}}
}

func (p *Parser) leaveScalarHolder() error {
	p.setScalar = nil
	return nil
}

// leaveScalar parses the collected text as a single float and hands it to the pending setter.
func (p *Parser) leaveScalar() error {
	values, err := p.textFloats()
	if err != nil {
		return err
	}
	if len(values) != 1 {
		return fmt.Errorf("%w: expected 1 value, got %d", ErrMalformedNumber, len(values))
	}
	if p.setScalar == nil {
		return fmt.Errorf("%w: no scalar target", ErrInternalState)
	}
	p.setScalar(values[0])
	p.setScalar = nil
	return nil
}
