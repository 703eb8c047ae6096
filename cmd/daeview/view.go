package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/solarlune/tetradae"
	"github.com/solarlune/tetradae/ebiten3d"
	"github.com/solarlune/tetradae/gltfexport"
)

// reloadDelay is how long the watcher waits for writes to a file to settle before reloading it.
const reloadDelay = 100 * time.Millisecond

type viewer struct {
	config Config
	out    io.Writer
	tree   *tetradae.TreeWatcher // Set while watching, to report nodes that come and go between reloads.
}

func isGLB(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".glb")
}

// view loads the document at path, prints its scenes, renders a frame of the exported scene to gather drawing
// statistics, and exports it to glTF if configured to.
func (v *viewer) view(path string) error {

	start := time.Now()

	lib, err := tetradae.LoadDAEFile(path, v.config.LoadOptions())
	if err != nil {
		return err
	}

	fmt.Fprintf(v.out, "%s: up axis %s, %d scene(s), %d mesh(es), %d material(s), %d animation(s), loaded in %s\n",
		path, lib.UpAxis, len(lib.Scenes), len(lib.Meshes), len(lib.Materials), len(lib.Animations),
		time.Since(start).Truncate(time.Microsecond))

	for _, scene := range lib.Scenes {
		marker := ""
		if scene == lib.ExportedScene {
			marker = " (exported)"
		}
		fmt.Fprintf(v.out, "\nScene %q%s\n", scene.Name, marker)
		fmt.Fprint(v.out, scene.Root.HierarchyAsString())
	}

	if lib.ExportedScene == nil {
		return nil
	}

	if v.tree != nil {
		v.tree.SetRoot(lib.ExportedScene.Root)
		v.tree.Update()
	}

	if err := v.render(lib, filepath.Dir(path)); err != nil {
		return err
	}

	if v.config.Export.Path != "" {
		if err := v.export(lib.ExportedScene); err != nil {
			return err
		}
		fmt.Fprintf(v.out, "\nExported %q to %s\n", lib.ExportedScene.Name, v.config.Export.Path)
	}

	return nil

}

// render draws one frame of the exported scene without a target image, which runs the whole render pass
// except for the final DrawTriangles calls.
func (v *viewer) render(lib *tetradae.Library, dir string) error {

	background, err := v.config.BackgroundColor()
	if err != nil {
		return err
	}

	textures := ebiten3d.NewTextureCacheDir(dir)
	if err := textures.Preload(lib); err != nil {
		tetradae.Logger().Warn("texture failed to load", "error", err)
	}

	renderer := ebiten3d.NewRenderer(nil, textures)
	renderer.Width, renderer.Height = v.config.Render.Width, v.config.Render.Height
	renderer.Background = background

	ctx := &tetradae.RenderContext{
		Sink:   renderer,
		Lights: tetradae.NewLightAllocator(v.config.Render.MaxLights),
		Aspect: float32(renderer.Width) / float32(renderer.Height),
	}

	if err := lib.ExportedScene.Render(ctx); err != nil {
		return err
	}

	info := renderer.DebugInfo
	fmt.Fprintf(v.out, "\nRendered %d of %d triangle(s) in %d draw call(s) with %d light(s), %d texture(s)\n",
		info.DrawnTris, info.TotalTris, info.DrawCalls, info.LightCount, textures.Len())

	return nil

}

func (v *viewer) export(scene *tetradae.Scene) error {

	file, err := os.Create(v.config.Export.Path)
	if err != nil {
		return err
	}

	if err := gltfexport.Write(file, scene, v.config.ExportBinary()); err != nil {
		file.Close()
		return fmt.Errorf("exporting %s: %w", v.config.Export.Path, err)
	}

	return file.Close()

}

// watch views the document at path, then again whenever it changes, until ctx is done. Errors loading changed
// versions are reported without stopping the watch.
func (v *viewer) watch(ctx context.Context, path string) error {

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	// Editors often replace files instead of writing them, so the directory is watched rather than the file.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	v.tree = tetradae.NewTreeWatcher(nil, nil)
	defer func() { v.tree = nil }()

	if err := v.view(path); err != nil {
		fmt.Fprintf(v.out, "error: %v\n", err)
	}

	v.tree.OnChange = func(nodePath string, added bool) {
		if added {
			fmt.Fprintf(v.out, "+ %s\n", nodePath)
		} else {
			fmt.Fprintf(v.out, "- %s\n", nodePath)
		}
	}

	var settle <-chan time.Time

	for {

		select {

		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			tetradae.Logger().Debug("file changed", "path", path, "op", event.Op.String())
			settle = time.After(reloadDelay)

		case <-settle:
			settle = nil
			fmt.Fprintf(v.out, "\n--- %s changed, reloading ---\n", path)
			if err := v.view(path); err != nil {
				fmt.Fprintf(v.out, "error: %v\n", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			tetradae.Logger().Warn("watch error", "error", err)

		}

	}

}
