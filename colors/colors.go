// Package colors names commonly used tetradae.Color values, so renderers and tools can pick them by name
// (for example from a config file).
package colors

import (
	"sort"
	"strings"

	"github.com/solarlune/tetradae"
)

var named = map[string]tetradae.Color{
	"transparent": tetradae.NewColor(0, 0, 0, 0),
	"white":       tetradae.NewColor(1, 1, 1, 1),
	"black":       tetradae.NewColor(0, 0, 0, 1),
	"gray":        tetradae.NewColor(0.5, 0.5, 0.5, 1),
	"lightgray":   tetradae.NewColor(0.8, 0.8, 0.8, 1),
	"darkgray":    tetradae.NewColor(0.2, 0.2, 0.2, 1),
	"red":         tetradae.NewColor(1, 0, 0, 1),
	"orange":      tetradae.NewColor(1, 0.5, 0, 1),
	"yellow":      tetradae.NewColor(1, 1, 0, 1),
	"green":       tetradae.NewColor(0, 1, 0, 1),
	"skyblue":     tetradae.NewColor(0, 0.5, 1, 1),
	"blue":        tetradae.NewColor(0, 0, 1, 1),
	"purple":      tetradae.NewColor(0.5, 0, 1, 1),
}

// White returns opaque white, the color of the default scene light.
func White() tetradae.Color { return named["white"] }

// Black returns opaque black.
func Black() tetradae.Color { return named["black"] }

// Transparent returns fully transparent black.
func Transparent() tetradae.Color { return named["transparent"] }

// DarkGray is the default background of the viewer.
func DarkGray() tetradae.Color { return named["darkgray"] }

// ByName returns the color with the given name. Names are case-insensitive and ignore spaces, dashes and underscores,
// so "Sky Blue", "sky_blue" and "skyblue" are the same color.
func ByName(name string) (tetradae.Color, bool) {
	key := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(name))
	color, ok := named[key]
	return color, ok
}

// Names returns the known color names in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
