package dae

import (
	"encoding/xml"
	"fmt"
	"strconv"
)

// Handler receives the depth-first event stream of an XML document.
type Handler interface {
	StartElement(name string, attrs []xml.Attr) error
	Characters(text []byte) error
	EndElement(name string) error
}

// Options configures how a document is read.
type Options struct {
	// InjectDefaults makes every visual scene without lights get a white directional light, and every
	// visual scene without cameras get a perspective camera 10 units back along +Z.
	InjectDefaults bool
}

// DefaultOptions returns the options Read uses when none are given.
func DefaultOptions() *Options {
	return &Options{InjectDefaults: true}
}

type frame struct {
	state State
	name  string
}

type pendingTexture struct {
	ref     *TextureRef
	profile *CommonProfile
	effect  string
}

// Parser is a Handler that builds a Document out of COLLADA events. A Parser reads a single document
// and can't be reused; it is not safe for concurrent use.
type Parser struct {
	options Options
	doc     *Document
	stack   []frame
	done    bool

	text       []byte
	collecting bool
	reader     ChunkReader

	image     *Image
	material  *Material
	effect    *Effect
	profile   *CommonProfile
	newParam  *NewParam
	technique *Technique
	shading   *Shading
	channel   **ColorOrTexture
	setScalar func(value float32)

	geometry  *Geometry
	mesh      *Mesh
	source    *DataSource
	vertices  *Vertices
	primitive *PrimitiveGroup
	indices   []int

	light  *Light
	camera *Camera

	visualScene      *VisualScene
	nodes            []*Node
	transformation   *Transformation
	instanceGeometry *InstanceGeometry
	sceneLights      int
	sceneCameras     int

	animations        []*Animation
	sampler           *Sampler
	animationCounter  int
	unresolvedEffects []*Material
	textures          []pendingTexture
}

// NewParser returns a Parser ready for the start of a document. A nil options uses DefaultOptions.
func NewParser(options *Options) *Parser {
	if options == nil {
		options = DefaultOptions()
	}
	return &Parser{
		options: *options,
		doc:     NewDocument(),
		stack:   []frame{{state: stateRoot}},
	}
}

// State returns the state of the innermost open element.
func (p *Parser) State() State {
	return p.stack[len(p.stack)-1].state
}

// Depth returns the number of open elements.
func (p *Parser) Depth() int {
	return len(p.stack) - 1
}

// StartElement handles an opening tag.
func (p *Parser) StartElement(name string, attrs []xml.Attr) error {

	if p.done {
		return fmt.Errorf("%w: <%s> after </COLLADA>", ErrStructure, name)
	}

	top := p.State()

	if top == stateIgnore {
		p.stack = append(p.stack, frame{state: stateIgnore, name: name})
		return nil
	}

	act, ok := dispatch[top][name]
	if !ok {
		if top == stateRoot {
			return fmt.Errorf("%w: root element is <%s>, not <COLLADA>", ErrStructure, name)
		}
		Logger().Debug("dae: ignoring element", "element", name, "state", top)
		p.stack = append(p.stack, frame{state: stateIgnore, name: name})
		return nil
	}

	if act.enter != nil {
		if err := act.enter(p, attrs); err != nil {
			return err
		}
	}

	p.stack = append(p.stack, frame{state: act.next, name: name})
	return nil

}

// Characters handles a run of character data. Text may be split across any number of calls.
func (p *Parser) Characters(text []byte) error {
	if p.State() == stateIgnore {
		return nil
	}
	if p.reader != nil {
		return p.reader.Write(text)
	}
	if p.collecting {
		p.text = append(p.text, text...)
	}
	return nil
}

// EndElement handles a closing tag.
func (p *Parser) EndElement(name string) error {

	if len(p.stack) < 2 {
		return fmt.Errorf("%w: unexpected </%s>", ErrInternalState, name)
	}

	top := p.stack[len(p.stack)-1]
	if top.name != name {
		return fmt.Errorf("%w: </%s> closes <%s>", ErrInternalState, name, top.name)
	}
	p.stack = p.stack[:len(p.stack)-1]

	if top.state == stateIgnore {
		return nil
	}

	if fn, ok := leave[top.state]; ok {
		return fn(p)
	}
	return nil

}

// Document returns the document once </COLLADA> has been handled.
func (p *Parser) Document() (*Document, error) {
	if !p.done {
		return nil, fmt.Errorf("%w: document is incomplete", ErrStructure)
	}
	return p.doc, nil
}

//---------------//

func (p *Parser) beginText() {
	p.text = p.text[:0]
	p.collecting = true
}

func (p *Parser) endText() []byte {
	p.collecting = false
	return p.text
}

func (p *Parser) textString() string {
	return string(trimSpace(p.endText()))
}

func (p *Parser) textFloats() ([]float32, error) {
	return parseFloats(p.endText())
}

func (p *Parser) finishReader() error {
	reader := p.reader
	p.reader = nil
	if reader == nil {
		return fmt.Errorf("%w: no numeric reader installed", ErrInternalState)
	}
	return reader.Finish()
}

func trimSpace(text []byte) []byte {
	for len(text) > 0 && isSpace(text[0]) {
		text = text[1:]
	}
	for len(text) > 0 && isSpace(text[len(text)-1]) {
		text = text[:len(text)-1]
	}
	return text
}

func attr(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func intAttr(attrs []xml.Attr, name string, fallback int) (int, error) {
	value := attr(attrs, name)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &FormatError{Token: value, Kind: "int"}
	}
	return n, nil
}

func requireAttr(attrs []xml.Attr, entity, name string) (string, error) {
	value := attr(attrs, name)
	if value == "" {
		return "", missingField(entity, name)
	}
	return value, nil
}
