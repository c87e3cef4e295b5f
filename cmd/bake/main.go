package main

import (
	"fmt"
	"os"

	"github.com/davidkennedy02/lazyjumper"

	"github.com/alecthomas/kong"
)

const desc = `Bakes the tile layers of one or more maps into a chunk store database.

Tiles are keyed by layer name & world tile coordinate, later maps overwrite earlier ones where
they overlap. The viewer (--store) then draws those layers from the store as infinite, chunked
layers in place of the map's own tile data.`

var cli struct {
	Maps []string `arg:"" help:"input .tmx or .tmj maps"`

	// where to write to, a temp file if not given
	Output string `short:"o" help:"output store database, created if it doesn't exist"`

	ChunkSize int `default:"16" help:"chunk size in tiles, used for the summary only"`
}

func main() {
	kong.Parse(&cli, kong.Name("bake"), kong.Description(desc))

	var (
		store *lazyjumper.Store
		err   error
	)
	if cli.Output == "" {
		store, err = lazyjumper.NewStore()
	} else {
		store, err = lazyjumper.OpenStore(cli.Output)
	}
	if err != nil {
		panic(err)
	}
	defer store.Close()

	for _, fname := range cli.Maps {
		if !fileExists(fname) {
			panic(fmt.Sprintf("input file not found: %s", fname))
		}

		m, err := lazyjumper.Open(fname)
		if err != nil {
			panic(err)
		}

		err = store.Import(m)
		if err != nil {
			panic(err)
		}
		fmt.Printf("imported %s: %d tile layers\n", fname, len(m.TileLayers()))
	}

	layers, err := store.Layers()
	if err != nil {
		panic(err)
	}
	for _, name := range layers {
		chunks, err := store.Chunks(name, cli.ChunkSize)
		if err != nil {
			panic(err)
		}
		fmt.Printf("\t%s: %d chunks\n", name, len(chunks))
	}

	fmt.Printf("wrote %s\n", store.Filename())
}

// fileExists checks if file exists
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}
