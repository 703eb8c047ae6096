package tetradae

// Library represents a collection of Scenes, Meshes, Materials, Animations, etc., as loaded from a .dae file.
// Everything but Scenes is keyed by its id in the source document.
type Library struct {
	Scenes        []*Scene              // A slice of Scenes
	ExportedScene *Scene                // The scene the document instantiates
	Meshes        map[string]*Mesh      // A Map of Meshes to their ids
	Animations    map[string]*Animation // A Map of Animations to their ids
	Materials     map[string]*Material  // A Map of Materials to their ids
	Lights        map[string]*Light     // A Map of Lights to their ids
	Cameras       map[string]*Camera    // A Map of Cameras to their ids
	Images        map[string]string     // A Map of image ids to the file names they load from
	UpAxis        string                // The up axis of the source document, "Y_UP" if it didn't say
}

// NewLibrary creates a new Library.
func NewLibrary() *Library {
	return &Library{
		Scenes:     []*Scene{},
		Meshes:     map[string]*Mesh{},
		Animations: map[string]*Animation{},
		Materials:  map[string]*Material{},
		Lights:     map[string]*Light{},
		Cameras:    map[string]*Camera{},
		Images:     map[string]string{},
		UpAxis:     "Y_UP",
	}
}

// FindScene searches all scenes in a Library to find the one with the provided name. If a scene with the given name isn't found,
// FindScene will return nil.
func (lib *Library) FindScene(name string) *Scene {
	for _, scene := range lib.Scenes {
		if scene.Name == name {
			return scene
		}
	}
	return nil
}

// AddScene adds a new, empty Scene to the Library and returns it.
func (lib *Library) AddScene(sceneName string) *Scene {
	newScene := NewScene(sceneName)
	newScene.library = lib
	lib.Scenes = append(lib.Scenes, newScene)
	return newScene
}

// FindNode allows you to find a node by name by searching through each of a Library's scenes. If the Node with the given name isn't found,
// FindNode will return nil.
func (lib *Library) FindNode(objectName string) *Node {
	for _, scene := range lib.Scenes {
		if node := scene.Root.Search().ByName(objectName).First(); node != nil {
			return node
		}
	}
	return nil
}
