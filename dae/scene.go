package dae

import (
	"encoding/xml"
	"fmt"
)

// IDs of what the parser adds to a visual scene that has no light or no camera of its own.
const (
	DefaultLightID        = "default-light"         // White directional light
	DefaultCameraID       = "default-camera"        // Node 10 units back along +Z carrying the default optics
	DefaultCameraOpticsID = "default-camera-optics" // Perspective camera with a 45 degree vertical field of view
)

func (p *Parser) enterLight(attrs []xml.Attr) error {
	light, err := NewLight(attr(attrs, "id"), attr(attrs, "name"), LightAmbient)
	if err != nil {
		return err
	}
	if err := p.doc.Lights.Add(light); err != nil {
		return err
	}
	p.light = light
	return nil
}

func (p *Parser) leaveLight() error {
	p.light = nil
	return nil
}

func lightKindEnter(kind LightKind) action {
	return action{next: stateLightKind, enter: func(p *Parser, _ []xml.Attr) error {
		p.light.Kind = kind
		return nil
	}}
}

func lightScalarEnter(field func(l *Light) **float32) action {
	return action{next: stateLightScalar, enter: func(p *Parser, _ []xml.Attr) error {
		target := field(p.light)
		p.setScalar = func(value float32) { *target = &value }
		p.beginText()
		return nil
	}}
}

func (p *Parser) leaveLightColor() error {
	color, err := p.textColor()
	if err != nil {
		return err
	}
	p.light.Color = [3]float32{color[0], color[1], color[2]}
	return nil
}

//---------------//

func (p *Parser) enterCamera(attrs []xml.Attr) error {
	camera, err := NewCamera(attr(attrs, "id"), attr(attrs, "name"))
	if err != nil {
		return err
	}
	if err := p.doc.Cameras.Add(camera); err != nil {
		return err
	}
	p.camera = camera
	return nil
}

func (p *Parser) leaveCamera() error {
	camera := p.camera
	p.camera = nil
	if camera.Optic == nil {
		return missingField("Camera", "optics")
	}
	return nil
}

func (p *Parser) enterPerspective(_ []xml.Attr) error {
	p.camera.Optic = &Perspective{}
	return nil
}

func perspectiveEnter(setter func(o *Perspective) func(float32)) action {
	return action{next: statePerspectiveScalar, enter: func(p *Parser, _ []xml.Attr) error {
		p.setScalar = setter(p.camera.Optic)
		p.beginText()
		return nil
	}}
}

//---------------//

func (p *Parser) enterVisualScene(attrs []xml.Attr) error {
	scene, err := NewVisualScene(attr(attrs, "id"), attr(attrs, "name"))
	if err != nil {
		return err
	}
	if err := p.doc.VisualScenes.Add(scene); err != nil {
		return err
	}
	p.visualScene = scene
	p.sceneLights = 0
	p.sceneCameras = 0
	return nil
}

func (p *Parser) leaveVisualScene() error {

	scene := p.visualScene
	p.visualScene = nil

	if !p.options.InjectDefaults {
		return nil
	}

	if p.sceneLights == 0 {
		light, err := NewLight(DefaultLightID, "", LightDirectional)
		if err != nil {
			return err
		}
		scene.DefaultLight = light
		Logger().Debug("dae: visual scene has no lights, adding a default light", "scene", scene.ID)
	}

	if p.sceneCameras == 0 {
		camera, err := NewCamera(DefaultCameraOpticsID, "")
		if err != nil {
			return err
		}
		yfov := float32(45)
		camera.Optic = &Perspective{YFov: &yfov, ZNear: 0.1, ZFar: 1000}

		node := NewNode(DefaultCameraID, DefaultCameraID)
		node.Transformations = []*Transformation{{Kind: TransformTranslate, Values: []float32{0, 0, 10}}}
		node.Cameras = []*InstanceCamera{{URL: "#" + DefaultCameraOpticsID, Camera: camera}}
		scene.DefaultCamera = node
		Logger().Debug("dae: visual scene has no cameras, adding a default camera", "scene", scene.ID)
	}

	return nil

}

func (p *Parser) enterNode(attrs []xml.Attr) error {

	node := NewNode(attr(attrs, "id"), attr(attrs, "name"))
	node.SID = attr(attrs, "sid")
	if nodeType := attr(attrs, "type"); nodeType != "" {
		node.Type = nodeType
	}

	if len(p.nodes) > 0 {
		parent := p.nodes[len(p.nodes)-1]
		parent.Children = append(parent.Children, node)
	} else {
		p.visualScene.Nodes = append(p.visualScene.Nodes, node)
	}

	p.nodes = append(p.nodes, node)
	return nil

}

func (p *Parser) leaveNode() error {
	p.nodes = p.nodes[:len(p.nodes)-1]
	return nil
}

func (p *Parser) currentNode() *Node {
	return p.nodes[len(p.nodes)-1]
}

func transformEnter(kind TransformKind) action {
	return action{next: stateTransform, enter: func(p *Parser, attrs []xml.Attr) error {
		p.transformation = &Transformation{SID: attr(attrs, "sid"), Kind: kind}
		p.beginText()
		return nil
	}}
}

func (p *Parser) leaveTransform() error {

	transformation := p.transformation
	p.transformation = nil

	values, err := p.textFloats()
	if err != nil {
		return err
	}
	if len(values) != transformation.Kind.Arity() {
		return fmt.Errorf("%w: <%s> has %d values, expected %d", ErrMalformedNumber, transformation.Kind, len(values), transformation.Kind.Arity())
	}
	transformation.Values = values

	node := p.currentNode()
	node.Transformations = append(node.Transformations, transformation)
	return nil

}

func (p *Parser) enterInstanceGeometry(attrs []xml.Attr) error {
	url, err := requireAttr(attrs, "instance_geometry", "url")
	if err != nil {
		return err
	}
	geometry, err := lookup(p.doc.Geometries, "geometry", url)
	if err != nil {
		return err
	}
	p.instanceGeometry = &InstanceGeometry{URL: url, Geometry: geometry}
	node := p.currentNode()
	node.Geometries = append(node.Geometries, p.instanceGeometry)
	return nil
}

func (p *Parser) leaveInstanceGeometry() error {
	p.instanceGeometry = nil
	return nil
}

func (p *Parser) enterInstanceMaterial(attrs []xml.Attr) error {
	symbol, err := requireAttr(attrs, "instance_material", "symbol")
	if err != nil {
		return err
	}
	target, err := requireAttr(attrs, "instance_material", "target")
	if err != nil {
		return err
	}
	material, err := lookup(p.doc.Materials, "material", target)
	if err != nil {
		return err
	}
	p.instanceGeometry.Bindings = append(p.instanceGeometry.Bindings, &InstanceMaterial{Symbol: symbol, Target: target, Material: material})
	return nil
}

func (p *Parser) enterInstanceLight(attrs []xml.Attr) error {
	url, err := requireAttr(attrs, "instance_light", "url")
	if err != nil {
		return err
	}
	light, err := lookup(p.doc.Lights, "light", url)
	if err != nil {
		return err
	}
	node := p.currentNode()
	node.Lights = append(node.Lights, &InstanceLight{URL: url, Light: light})
	p.sceneLights++
	return nil
}

func (p *Parser) enterInstanceCamera(attrs []xml.Attr) error {
	url, err := requireAttr(attrs, "instance_camera", "url")
	if err != nil {
		return err
	}
	camera, err := lookup(p.doc.Cameras, "camera", url)
	if err != nil {
		return err
	}
	node := p.currentNode()
	node.Cameras = append(node.Cameras, &InstanceCamera{URL: url, Camera: camera})
	p.sceneCameras++
	return nil
}

//---------------//

func (p *Parser) enterScene(_ []xml.Attr) error {
	if p.doc.Scene != nil {
		return fmt.Errorf("%w: more than one <scene>", ErrStructure)
	}
	p.doc.Scene = &Scene{}
	return nil
}

func (p *Parser) enterInstanceVisualScene(attrs []xml.Attr) error {
	url, err := requireAttr(attrs, "instance_visual_scene", "url")
	if err != nil {
		return err
	}
	visualScene, err := lookup(p.doc.VisualScenes, "visual scene", url)
	if err != nil {
		return err
	}
	p.doc.Scene.InstanceVisualSceneURL = url
	p.doc.Scene.VisualScene = visualScene
	return nil
}

func (p *Parser) leaveScene() error {
	if p.doc.Scene.VisualScene == nil {
		return missingField("Scene", "instance_visual_scene")
	}
	return nil
}
