package dae

import (
	"encoding/xml"
	"fmt"
)

func (p *Parser) enterAnimation(attrs []xml.Attr) error {

	id := attr(attrs, "id")
	if id == "" {
		p.animationCounter++
		id = fmt.Sprintf("animation-%d", p.animationCounter)
	}

	animation, err := NewAnimation(id, attr(attrs, "name"))
	if err != nil {
		return err
	}

	if len(p.animations) > 0 {
		parent := p.animations[len(p.animations)-1]
		parent.Children = append(parent.Children, animation)
	} else if err := p.doc.Animations.Add(animation); err != nil {
		return err
	}

	p.animations = append(p.animations, animation)
	return nil

}

func (p *Parser) leaveAnimation() error {
	p.animations = p.animations[:len(p.animations)-1]
	return nil
}

func (p *Parser) enterSampler(attrs []xml.Attr) error {
	sampler := &Sampler{}
	var err error
	if sampler.Identifiable, err = newIdentifiable("Sampler", attr(attrs, "id"), ""); err != nil {
		return err
	}
	if err := p.animations[len(p.animations)-1].Samplers.Add(sampler); err != nil {
		return err
	}
	p.sampler = sampler
	return nil
}

func (p *Parser) enterSamplerInput(attrs []xml.Attr) error {
	input, err := NewInput(attr(attrs, "semantic"), attr(attrs, "source"), 0, -1)
	if err != nil {
		return err
	}
	if input.DataSource, err = lookup(p.animations[len(p.animations)-1].Sources, "source", input.Source); err != nil {
		return err
	}
	p.sampler.Inputs = append(p.sampler.Inputs, input)
	return nil
}

func (p *Parser) leaveSampler() error {
	sampler := p.sampler
	p.sampler = nil
	for _, semantic := range []string{"INPUT", "OUTPUT"} {
		if sampler.Input(semantic) == nil {
			return missingField("Sampler", semantic+" input")
		}
	}
	return nil
}

func (p *Parser) enterChannel(attrs []xml.Attr) error {
	source, err := requireAttr(attrs, "channel", "source")
	if err != nil {
		return err
	}
	target, err := requireAttr(attrs, "channel", "target")
	if err != nil {
		return err
	}
	animation := p.animations[len(p.animations)-1]
	sampler, err := lookup(animation.Samplers, "sampler", source)
	if err != nil {
		return err
	}
	animation.Channels = append(animation.Channels, &Channel{Source: source, Target: target, Sampler: sampler})
	return nil
}
