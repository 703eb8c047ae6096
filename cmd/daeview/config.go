package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/solarlune/tetradae"
	"github.com/solarlune/tetradae/colors"
)

// Config is daeview's configuration, read from a TOML file:
//
//	watch = true
//
//	[load]
//	correct_y_up = true
//	inject_defaults = true
//
//	[render]
//	max_lights = 8
//	background = "dark gray"
//
//	[export]
//	path = "out.glb"
type Config struct {
	Load   LoadSection   `toml:"load"`
	Render RenderSection `toml:"render"`
	Export ExportSection `toml:"export"`
	Watch  bool          `toml:"watch"`
}

// LoadSection is the [load] table, mirroring tetradae.DaeLoadOptions.
type LoadSection struct {
	CorrectYUp     bool `toml:"correct_y_up"`
	InjectDefaults bool `toml:"inject_defaults"`
}

// RenderSection is the [render] table: the light slots and view size of the headless render pass, and the
// background color by name.
type RenderSection struct {
	MaxLights  int    `toml:"max_lights"`
	Background string `toml:"background"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
}

// ExportSection is the [export] table.
type ExportSection struct {
	// Path of the glTF file to write; empty disables exporting. A .glb extension selects binary output unless
	// Binary says otherwise.
	Path   string `toml:"path"`
	Binary *bool  `toml:"binary"`
}

// DefaultConfig returns the configuration daeview runs with when there's no config file.
func DefaultConfig() Config {
	defaults := tetradae.DefaultDaeLoadOptions()
	return Config{
		Load: LoadSection{
			CorrectYUp:     defaults.CorrectYUp,
			InjectDefaults: defaults.InjectDefaults,
		},
		Render: RenderSection{
			MaxLights:  8,
			Background: "dark gray",
			Width:      640,
			Height:     360,
		},
	}
}

// LoadConfig reads a TOML config file over the defaults. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {

	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}

	if err := toml.Unmarshal(data, &config); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return config, fmt.Errorf("%s:%d:%d: %w", path, row, col, err)
		}
		return config, fmt.Errorf("%s: %w", path, err)
	}

	return config, config.Validate()

}

// Validate checks the values that can't be used as they are.
func (config Config) Validate() error {
	if config.Render.MaxLights < 0 {
		return fmt.Errorf("render.max_lights must not be negative, got %d", config.Render.MaxLights)
	}
	if config.Render.Width <= 0 || config.Render.Height <= 0 {
		return fmt.Errorf("render size must be positive, got %dx%d", config.Render.Width, config.Render.Height)
	}
	if _, err := config.BackgroundColor(); err != nil {
		return err
	}
	return nil
}

// LoadOptions returns the options documents are loaded with.
func (config Config) LoadOptions() *tetradae.DaeLoadOptions {
	return &tetradae.DaeLoadOptions{
		CorrectYUp:     config.Load.CorrectYUp,
		InjectDefaults: config.Load.InjectDefaults,
	}
}

// BackgroundColor resolves the background color's name.
func (config Config) BackgroundColor() (tetradae.Color, error) {
	if config.Render.Background == "" {
		return colors.Transparent(), nil
	}
	color, ok := colors.ByName(config.Render.Background)
	if !ok {
		return color, fmt.Errorf("unknown background color %q (known: %v)", config.Render.Background, colors.Names())
	}
	return color, nil
}

// ExportBinary returns whether the export is written as a binary .glb.
func (config Config) ExportBinary() bool {
	if config.Export.Binary != nil {
		return *config.Export.Binary
	}
	return isGLB(config.Export.Path)
}
