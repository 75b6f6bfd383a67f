package main

import (
	"flag"
	"log"
	"os"

	"physics2d/internal/game"
	"physics2d/internal/scene"
)

func main() {
	var opts game.Options
	flag.StringVar(&opts.Scene, "scene", "mixed", "built-in scene to start with")
	flag.StringVar(&opts.File, "file", "", "scene file to load instead of a built-in scene")
	flag.IntVar(&opts.Count, "count", 80, "number of bodies in generated scenes")
	flag.Int64Var(&opts.Seed, "seed", 1, "random seed for generated scenes")
	flag.IntVar(&opts.Width, "width", 1280, "window width")
	flag.IntVar(&opts.Height, "height", 720, "window height")
	flag.BoolVar(&opts.Mute, "mute", false, "disable impact sounds")
	list := flag.Bool("list", false, "list built-in scenes and exit")
	flag.Parse()

	if *list {
		for _, name := range scene.Names() {
			log.Println(name)
		}
		return
	}

	opts.Logger = log.New(os.Stderr, "", log.LstdFlags)
	if err := game.New(opts).Run(); err != nil {
		log.Fatalf("sandbox: %v", err)
	}
}
