package main

import (
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"strings"

	"github.com/1siamBot/rts-sim/engine/maplib"
)

func writePNG(path string, tm *maplib.TerrainMap, size int) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, Preview(tm, size))
}

func main() {
	var (
		p       Params
		seed    int64
		outPath string
		preview string
		size    int
	)
	flag.StringVar(&p.Name, "name", "hills", "map name")
	flag.IntVar(&p.Hills, "hills", 12, "number of hills")
	flag.Float64Var(&p.MaxHeight, "height", 30, "tallest hill height")
	flag.Float64Var(&p.Spread, "spread", 4, "hill radius in tiles")
	flag.IntVar(&p.Attempts, "attempts", 20, "seeds to try for a playable map")
	flag.Int64Var(&seed, "seed", 1, "first seed")
	flag.StringVar(&outPath, "o", "", "output map JSON (default <name>.rtsmap.json)")
	flag.StringVar(&preview, "preview", "", "also write a PNG preview")
	flag.IntVar(&size, "size", 500, "preview size in pixels")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if outPath == "" {
		outPath = p.Name + ".rtsmap.json"
	}

	tm, used, err := Generate(seed, p)
	if err != nil {
		log.Error("no playable map", "seed", seed, "attempts", p.Attempts,
			"problems", strings.Count(err.Error(), "\n")+1, "err", err)
		os.Exit(1)
	}
	if err := tm.SaveJSON(outPath); err != nil {
		log.Error("save map", "path", outPath, "err", err)
		os.Exit(1)
	}
	log.Info("map written", "path", outPath, "seed", used, "nodes", len(tm.ResourceNodes))

	if preview != "" {
		if err := writePNG(preview, tm, size); err != nil {
			log.Error("preview", "path", preview, "err", err)
			os.Exit(1)
		}
		fmt.Println(preview)
	}
	fmt.Println(outPath)
}
