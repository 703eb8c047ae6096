// Command daeview loads a COLLADA (.dae) file and prints the scenes it holds. It can also export the document's
// scene to glTF, and keep watching the file to reload it whenever it changes.
//
//	daeview [-config daeview.toml] [-export out.glb] [-watch] [-v] file.dae
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/solarlune/tetradae"
)

func main() {

	configPath := flag.String("config", "", "TOML config file")
	exportPath := flag.String("export", "", "Write the document's scene to this glTF (.gltf or .glb) file")
	binary := flag.Bool("binary", false, "Write the export as binary glTF regardless of its extension")
	watch := flag.Bool("watch", false, "Reload the file whenever it changes")
	maxLights := flag.Int("max-lights", 8, "Number of light slots of the render pass")
	correctYUp := flag.Bool("correct-y-up", true, "Rotate Z-up documents so +Y is up")
	defaults := flag.Bool("defaults", true, "Add a light and a camera to scenes without any")
	verbose := flag.Bool("v", false, "Log debug output to stderr")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: daeview [flags] file.dae\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if *verbose {
		tetradae.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	config, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "daeview:", err)
		os.Exit(1)
	}

	// Flags given on the command line win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "export":
			config.Export.Path = *exportPath
		case "binary":
			config.Export.Binary = binary
		case "watch":
			config.Watch = *watch
		case "max-lights":
			config.Render.MaxLights = *maxLights
		case "correct-y-up":
			config.Load.CorrectYUp = *correctYUp
		case "defaults":
			config.Load.InjectDefaults = *defaults
		}
	})

	if err := config.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "daeview:", err)
		os.Exit(1)
	}

	v := &viewer{config: config, out: os.Stdout}
	path := flag.Arg(0)

	if config.Watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = v.watch(ctx, path)
	} else {
		err = v.view(path)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "daeview:", err)
		os.Exit(1)
	}

}
