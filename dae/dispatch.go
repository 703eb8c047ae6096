package dae

import (
	"encoding/xml"
)

type action struct {
	next  State
	enter func(p *Parser, attrs []xml.Attr) error
}

func to(next State) action {
	return action{next: next}
}

func collect(next State) action {
	return action{next: next, enter: func(p *Parser, _ []xml.Attr) error {
		p.beginText()
		return nil
	}}
}

func unsupported(element, context string) action {
	return action{next: stateIgnore, enter: func(*Parser, []xml.Attr) error {
		return &UnsupportedError{Element: element, Context: context}
	}}
}

// dispatch maps the state of the innermost open element and the name of a child element to what the parser
// does on entering that child. Children that aren't listed are skipped along with their subtrees.
var dispatch = map[State]map[string]action{

	stateRoot: {
		"COLLADA": {next: stateCollada, enter: (*Parser).enterCollada},
	},

	stateCollada: {
		"asset":                 to(stateAsset),
		"library_images":        to(stateLibraryImages),
		"library_materials":     to(stateLibraryMaterials),
		"library_effects":       to(stateLibraryEffects),
		"library_geometries":    to(stateLibraryGeometries),
		"library_lights":        to(stateLibraryLights),
		"library_cameras":       to(stateLibraryCameras),
		"library_visual_scenes": to(stateLibraryVisualScenes),
		"library_animations":    to(stateLibraryAnimations),
		"scene":                 {next: stateScene, enter: (*Parser).enterScene},
	},

	stateAsset: {
		"up_axis": collect(stateUpAxis),
		"unit":    {next: stateIgnore, enter: (*Parser).enterUnit},
	},

	// Images and materials

	stateLibraryImages: {
		"image": {next: stateImage, enter: (*Parser).enterImage},
	},
	stateImage: {
		"init_from": collect(stateImageInitFrom),
	},

	stateLibraryMaterials: {
		"material": {next: stateMaterial, enter: (*Parser).enterMaterial},
	},
	stateMaterial: {
		"instance_effect": {next: stateIgnore, enter: (*Parser).enterInstanceEffect},
	},

	// Effects

	stateLibraryEffects: {
		"effect": {next: stateEffect, enter: (*Parser).enterEffect},
	},
	stateEffect: {
		"profile_COMMON": {next: stateProfileCommon, enter: (*Parser).enterProfileCommon},
	},
	stateProfileCommon: {
		"newparam":  {next: stateNewParam, enter: (*Parser).enterNewParam},
		"technique": {next: stateTechnique, enter: (*Parser).enterTechnique},
	},
	stateNewParam: {
		"surface":   {next: stateSurface, enter: (*Parser).enterSurface},
		"sampler2D": {next: stateSampler2D, enter: (*Parser).enterSampler2D},
	},
	stateSurface: {
		"init_from": collect(stateSurfaceInitFrom),
	},
	stateSampler2D: {
		"source": collect(stateSamplerSource),
	},
	stateTechnique: {
		"phong":    {next: stateShading, enter: shadingEnter(ShaderPhong)},
		"blinn":    {next: stateShading, enter: shadingEnter(ShaderBlinn)},
		"lambert":  {next: stateShading, enter: shadingEnter(ShaderLambert)},
		"constant": unsupported("constant", "technique"),
	},
	stateShading: {
		"emission":            channelEnter(func(s *Shading) **ColorOrTexture { return &s.Emission }),
		"ambient":             channelEnter(func(s *Shading) **ColorOrTexture { return &s.Ambient }),
		"diffuse":             channelEnter(func(s *Shading) **ColorOrTexture { return &s.Diffuse }),
		"specular":            channelEnter(func(s *Shading) **ColorOrTexture { return &s.Specular }),
		"reflective":          channelEnter(func(s *Shading) **ColorOrTexture { return &s.Reflective }),
		"transparent":         channelEnter(func(s *Shading) **ColorOrTexture { return &s.Transparent }),
		"shininess":           scalarEnter(func(s *Shading) **float32 { return &s.Shininess }),
		"reflectivity":        scalarEnter(func(s *Shading) **float32 { return &s.Reflectivity }),
		"transparency":        scalarEnter(func(s *Shading) **float32 { return &s.Transparency }),
		"index_of_refraction": scalarEnter(func(s *Shading) **float32 { return &s.IndexOfRefraction }),
	},
	stateShadingChannel: {
		"color":   collect(stateShadingColor),
		"texture": {next: stateIgnore, enter: (*Parser).enterTexture},
	},
	stateShadingScalar: {
		"float": collect(stateShadingFloat),
	},

	// Geometry

	stateLibraryGeometries: {
		"geometry": {next: stateGeometry, enter: (*Parser).enterGeometry},
	},
	stateGeometry: {
		"mesh":        {next: stateMesh, enter: (*Parser).enterMesh},
		"convex_mesh": unsupported("convex_mesh", "geometry"),
		"spline":      unsupported("spline", "geometry"),
	},
	stateMesh: {
		"source":     {next: stateSource, enter: (*Parser).enterSource},
		"vertices":   {next: stateVertices, enter: (*Parser).enterVertices},
		"polygons":   {next: statePrimitive, enter: primitiveEnter(PrimitivePolygons)},
		"triangles":  {next: statePrimitive, enter: primitiveEnter(PrimitiveTriangles)},
		"polylist":   {next: statePrimitive, enter: primitiveEnter(PrimitivePolyList)},
		"lines":      unsupported("lines", "mesh"),
		"linestrips": unsupported("linestrips", "mesh"),
		"trifans":    unsupported("trifans", "mesh"),
		"tristrips":  unsupported("tristrips", "mesh"),
	},
	stateSource: {
		"float_array":      {next: stateFloatArray, enter: (*Parser).enterFloatArray},
		"Name_array":       {next: stateNameArray, enter: (*Parser).enterNameArray},
		"IDREF_array":      {next: stateNameArray, enter: (*Parser).enterNameArray},
		"technique_common": to(stateSourceTechnique),
	},
	stateSourceTechnique: {
		"accessor": {next: stateAccessor, enter: (*Parser).enterAccessor},
	},
	stateAccessor: {
		"param": {next: stateIgnore, enter: (*Parser).enterAccessorParam},
	},
	stateVertices: {
		"input": {next: stateIgnore, enter: (*Parser).enterVerticesInput},
	},
	statePrimitive: {
		"input":  {next: stateIgnore, enter: (*Parser).enterPrimitiveInput},
		"p":      {next: statePrimitiveP, enter: (*Parser).enterP},
		"vcount": {next: stateVCount, enter: (*Parser).enterVCount},
	},

	// Lights

	stateLibraryLights: {
		"light": {next: stateLight, enter: (*Parser).enterLight},
	},
	stateLight: {
		"technique_common": to(stateLightTechnique),
	},
	stateLightTechnique: {
		"ambient":     lightKindEnter(LightAmbient),
		"directional": lightKindEnter(LightDirectional),
		"point":       lightKindEnter(LightPoint),
		"spot":        lightKindEnter(LightSpot),
	},
	stateLightKind: {
		"color":                 collect(stateLightColor),
		"constant_attenuation":  lightScalarEnter(func(l *Light) **float32 { return &l.ConstantAttenuation }),
		"linear_attenuation":    lightScalarEnter(func(l *Light) **float32 { return &l.LinearAttenuation }),
		"quadratic_attenuation": lightScalarEnter(func(l *Light) **float32 { return &l.QuadraticAttenuation }),
		"falloff_angle":         lightScalarEnter(func(l *Light) **float32 { return &l.FalloffAngle }),
		"falloff_exponent":      lightScalarEnter(func(l *Light) **float32 { return &l.FalloffExponent }),
	},

	// Cameras

	stateLibraryCameras: {
		"camera": {next: stateCamera, enter: (*Parser).enterCamera},
	},
	stateCamera: {
		"optics": to(stateOptics),
	},
	stateOptics: {
		"technique_common": to(stateOpticsTechnique),
	},
	stateOpticsTechnique: {
		"perspective":  {next: statePerspective, enter: (*Parser).enterPerspective},
		"orthographic": unsupported("orthographic", "optics"),
	},
	statePerspective: {
		"xfov":         perspectiveEnter(func(o *Perspective) func(float32) { return func(v float32) { o.XFov = &v } }),
		"yfov":         perspectiveEnter(func(o *Perspective) func(float32) { return func(v float32) { o.YFov = &v } }),
		"aspect_ratio": perspectiveEnter(func(o *Perspective) func(float32) { return func(v float32) { o.AspectRatio = &v } }),
		"znear":        perspectiveEnter(func(o *Perspective) func(float32) { return func(v float32) { o.ZNear = v } }),
		"zfar":         perspectiveEnter(func(o *Perspective) func(float32) { return func(v float32) { o.ZFar = v } }),
	},

	// Visual scenes

	stateLibraryVisualScenes: {
		"visual_scene": {next: stateVisualScene, enter: (*Parser).enterVisualScene},
	},
	stateVisualScene: {
		"node": {next: stateNode, enter: (*Parser).enterNode},
	},
	stateNode: {
		"node":              {next: stateNode, enter: (*Parser).enterNode},
		"translate":         transformEnter(TransformTranslate),
		"rotate":            transformEnter(TransformRotate),
		"scale":             transformEnter(TransformScale),
		"matrix":            transformEnter(TransformMatrix),
		"instance_geometry": {next: stateInstanceGeometry, enter: (*Parser).enterInstanceGeometry},
		"instance_light":    {next: stateIgnore, enter: (*Parser).enterInstanceLight},
		"instance_camera":   {next: stateIgnore, enter: (*Parser).enterInstanceCamera},
	},
	stateInstanceGeometry: {
		"bind_material": to(stateBindMaterial),
	},
	stateBindMaterial: {
		"technique_common": to(stateBindMaterialTechnique),
	},
	stateBindMaterialTechnique: {
		"instance_material": {next: stateIgnore, enter: (*Parser).enterInstanceMaterial},
	},

	// Animations

	stateLibraryAnimations: {
		"animation": {next: stateAnimation, enter: (*Parser).enterAnimation},
	},
	stateAnimation: {
		"animation": {next: stateAnimation, enter: (*Parser).enterAnimation},
		"source":    {next: stateAnimationSource, enter: (*Parser).enterSource},
		"sampler":   {next: stateAnimationSampler, enter: (*Parser).enterSampler},
		"channel":   {next: stateIgnore, enter: (*Parser).enterChannel},
	},
	stateAnimationSource: {
		"float_array":      {next: stateFloatArray, enter: (*Parser).enterFloatArray},
		"Name_array":       {next: stateNameArray, enter: (*Parser).enterNameArray},
		"technique_common": to(stateSourceTechnique),
	},
	stateAnimationSampler: {
		"input": {next: stateIgnore, enter: (*Parser).enterSamplerInput},
	},

	stateScene: {
		"instance_visual_scene": {next: stateIgnore, enter: (*Parser).enterInstanceVisualScene},
	},
}

// leave holds what the parser does when an element in the given state closes.
var leave = map[State]func(p *Parser) error{
	stateCollada:           (*Parser).leaveCollada,
	stateUpAxis:            (*Parser).leaveUpAxis,
	stateImage:             (*Parser).leaveImage,
	stateImageInitFrom:     (*Parser).leaveImageInitFrom,
	stateMaterial:          (*Parser).leaveMaterial,
	stateEffect:            (*Parser).leaveEffect,
	stateProfileCommon:     (*Parser).leaveProfileCommon,
	stateNewParam:          (*Parser).leaveNewParam,
	stateSurfaceInitFrom:   (*Parser).leaveSurfaceInitFrom,
	stateSamplerSource:     (*Parser).leaveSamplerSource,
	stateTechnique:         (*Parser).leaveTechnique,
	stateShading:           (*Parser).leaveShading,
	stateShadingChannel:    (*Parser).leaveShadingChannel,
	stateShadingColor:      (*Parser).leaveShadingColor,
	stateShadingScalar:     (*Parser).leaveScalarHolder,
	stateShadingFloat:      (*Parser).leaveScalar,
	stateGeometry:          (*Parser).leaveGeometry,
	stateMesh:              (*Parser).leaveMesh,
	stateSource:            (*Parser).leaveSource,
	stateFloatArray:        (*Parser).leaveFloatArray,
	stateNameArray:         (*Parser).leaveNameArray,
	stateVertices:          (*Parser).leaveVertices,
	statePrimitive:         (*Parser).leavePrimitive,
	statePrimitiveP:        (*Parser).leaveP,
	stateVCount:            (*Parser).finishReader,
	stateLight:             (*Parser).leaveLight,
	stateLightColor:        (*Parser).leaveLightColor,
	stateLightScalar:       (*Parser).leaveScalar,
	stateCamera:            (*Parser).leaveCamera,
	statePerspectiveScalar: (*Parser).leaveScalar,
	stateVisualScene:       (*Parser).leaveVisualScene,
	stateNode:              (*Parser).leaveNode,
	stateTransform:         (*Parser).leaveTransform,
	stateInstanceGeometry:  (*Parser).leaveInstanceGeometry,
	stateAnimation:         (*Parser).leaveAnimation,
	stateAnimationSource:   (*Parser).leaveSource,
	stateAnimationSampler:  (*Parser).leaveSampler,
	stateScene:             (*Parser).leaveScene,
}
