package ebiten3d

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/solarlune/tetradae"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// TextureCache loads the images materials reference by file name, once each. Names are resolved relative to the
// cache's file system, which is usually the directory the .dae file was loaded from.
type TextureCache struct {
	files    fs.FS
	textures map[string]*ebiten.Image
	failed   map[string]error
}

// NewTextureCache returns a TextureCache reading image files from files.
func NewTextureCache(files fs.FS) *TextureCache {
	return &TextureCache{
		files:    files,
		textures: map[string]*ebiten.Image{},
		failed:   map[string]error{},
	}
}

// NewTextureCacheDir returns a TextureCache reading image files from the given directory.
func NewTextureCacheDir(dir string) *TextureCache {
	return NewTextureCache(os.DirFS(dir))
}

// textureKey cleans up the way COLLADA exporters write image file names (file:// URLs, ./ and absolute paths
// the cache can't follow).
func textureKey(name string) string {
	name = strings.TrimPrefix(name, "file://")
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Clean(name)
	name = strings.TrimPrefix(name, "/")
	return name
}

// Decode reads and decodes the named image file. PNG, JPEG, BMP, TIFF, and WebP files are supported.
func (cache *TextureCache) Decode(name string) (image.Image, error) {

	file, err := cache.files.Open(textureKey(name))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w", name, err)
	}

	tetradae.Logger().Debug("decoded texture", "texture", name, "format", format, "size", img.Bounds().Size())

	return img, nil

}

// Texture returns the image for the named texture, loading it on first use. A texture that fails to load keeps
// failing with the same error without touching the file system again.
func (cache *TextureCache) Texture(name string) (*ebiten.Image, error) {

	key := textureKey(name)

	if texture, ok := cache.textures[key]; ok {
		return texture, nil
	}
	if err, ok := cache.failed[key]; ok {
		return nil, err
	}

	img, err := cache.Decode(key)
	if err != nil {
		cache.failed[key] = err
		return nil, err
	}

	texture := ebiten.NewImageFromImage(img)
	cache.textures[key] = texture
	return texture, nil

}

// Preload loads every texture the Library's materials use, returning the first error met. Textures that failed
// are still recorded, so drawing falls back to untextured triangles for them.
func (cache *TextureCache) Preload(lib *tetradae.Library) error {

	var firstErr error

	for _, material := range lib.Materials {
		name := material.DiffuseTexture()
		if name == "" {
			continue
		}
		if _, err := cache.Texture(name); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr

}

// Forget drops every loaded texture and recorded failure, so the next use reads the files again.
func (cache *TextureCache) Forget() {
	for key, texture := range cache.textures {
		texture.Deallocate()
		delete(cache.textures, key)
	}
	for key := range cache.failed {
		delete(cache.failed, key)
	}
}

// Len returns the number of textures loaded.
func (cache *TextureCache) Len() int {
	return len(cache.textures)
}
