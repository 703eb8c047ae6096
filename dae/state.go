package dae

import "strconv"

// State is the parser state associated with an open element.
type State int

const (
	stateIgnore State = iota
	stateRoot
	stateCollada

	stateAsset
	stateUpAxis

	stateLibraryImages
	stateImage
	stateImageInitFrom

	stateLibraryMaterials
	stateMaterial

	stateLibraryEffects
	stateEffect
	stateProfileCommon
	stateNewParam
	stateSurface
	stateSurfaceInitFrom
	stateSampler2D
	stateSamplerSource
	stateTechnique
	stateShading
	stateShadingChannel
	stateShadingColor
	stateShadingScalar
	stateShadingFloat

	stateLibraryGeometries
	stateGeometry
	stateMesh
	stateSource
	stateFloatArray
	stateNameArray
	stateSourceTechnique
	stateAccessor
	stateVertices
	statePrimitive
	statePrimitiveP
	stateVCount

	stateLibraryLights
	stateLight
	stateLightTechnique
	stateLightKind
	stateLightColor
	stateLightScalar

	stateLibraryCameras
	stateCamera
	stateOptics
	stateOpticsTechnique
	statePerspective
	statePerspectiveScalar

	stateLibraryVisualScenes
	stateVisualScene
	stateNode
	stateTransform
	stateInstanceGeometry
	stateBindMaterial
	stateBindMaterialTechnique

	stateLibraryAnimations
	stateAnimation
	stateAnimationSource
	stateAnimationSampler

	stateScene
)

var stateNames = map[State]string{
	stateIgnore:                "Ignore",
	stateRoot:                  "Root",
	stateCollada:               "Collada",
	stateAsset:                 "Asset",
	stateUpAxis:                "UpAxis",
	stateLibraryImages:         "LibraryImages",
	stateImage:                 "Image",
	stateImageInitFrom:         "ImageInitFrom",
	stateLibraryMaterials:      "LibraryMaterials",
	stateMaterial:              "Material",
	stateLibraryEffects:        "LibraryEffects",
	stateEffect:                "Effect",
	stateProfileCommon:         "ProfileCommon",
	stateNewParam:              "NewParam",
	stateSurface:               "Surface",
	stateSurfaceInitFrom:       "SurfaceInitFrom",
	stateSampler2D:             "Sampler2D",
	stateSamplerSource:         "SamplerSource",
	stateTechnique:             "Technique",
	stateShading:               "Shading",
	stateShadingChannel:        "ShadingChannel",
	stateShadingColor:          "ShadingColor",
	stateShadingScalar:         "ShadingScalar",
	stateShadingFloat:          "ShadingFloat",
	stateLibraryGeometries:     "LibraryGeometries",
	stateGeometry:              "Geometry",
	stateMesh:                  "Mesh",
	stateSource:                "Source",
	stateFloatArray:            "FloatArray",
	stateNameArray:             "NameArray",
	stateSourceTechnique:       "SourceTechnique",
	stateAccessor:              "Accessor",
	stateVertices:              "Vertices",
	statePrimitive:             "Primitive",
	statePrimitiveP:            "PrimitiveP",
	stateVCount:                "VCount",
	stateLibraryLights:         "LibraryLights",
	stateLight:                 "Light",
	stateLightTechnique:        "LightTechnique",
	stateLightKind:             "LightKind",
	stateLightColor:            "LightColor",
	stateLightScalar:           "LightScalar",
	stateLibraryCameras:        "LibraryCameras",
	stateCamera:                "Camera",
	stateOptics:                "Optics",
	stateOpticsTechnique:       "OpticsTechnique",
	statePerspective:           "Perspective",
	statePerspectiveScalar:     "PerspectiveScalar",
	stateLibraryVisualScenes:   "LibraryVisualScenes",
	stateVisualScene:           "VisualScene",
	stateNode:                  "Node",
	stateTransform:             "Transform",
	stateInstanceGeometry:      "InstanceGeometry",
	stateBindMaterial:          "BindMaterial",
	stateBindMaterialTechnique: "BindMaterialTechnique",
	stateLibraryAnimations:     "LibraryAnimations",
	stateAnimation:             "Animation",
	stateAnimationSource:       "AnimationSource",
	stateAnimationSampler:      "AnimationSampler",
	stateScene:                 "Scene",
}

func (state State) String() string {
	if name, ok := stateNames[state]; ok {
		return name
	}
	return "State(" + strconv.Itoa(int(state)) + ")"
}
