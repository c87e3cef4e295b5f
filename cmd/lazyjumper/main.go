package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/davidkennedy02/lazyjumper"

	"github.com/alecthomas/kong"
	"github.com/hajimehoshi/ebiten/v2"
)

const desc = `Views a Tiled map (.tmx / .tmj) with parallax layers, image layers & an object overlay.

Move the camera with WASD or the arrow keys, zoom with the mouse wheel and press Tab to glide
from one object to the next.`

var cli struct {
	Map string `arg:"" help:"input .tmx or .tmj map"`

	Config string `short:"c" help:"optional yaml config file"`
	Store  string `help:"optional chunk store whose layers replace tile layers of the same name"`
	Watch  bool   `short:"w" help:"reload the map when it, its tilesets or images change"`

	// overrides for the config file
	Width  int     `help:"window width in px"`
	Height int     `help:"window height in px"`
	Speed  float64 `help:"camera speed in px per second"`
}

func main() {
	kong.Parse(&cli, kong.Name("lazyjumper"), kong.Description(desc))

	cfg := lazyjumper.DefaultConfig()
	if cli.Config != "" {
		var err error
		cfg, err = lazyjumper.LoadConfig(cli.Config)
		if err != nil {
			log.Fatal(err)
		}
	}
	if cli.Store != "" {
		cfg.Store = cli.Store
	}
	if cli.Width > 0 {
		cfg.ScreenWidth = cli.Width
	}
	if cli.Height > 0 {
		cfg.ScreenHeight = cli.Height
	}
	if cli.Speed > 0 {
		cfg.CameraSpeed = cli.Speed
	}

	logger := log.New(os.Stderr, "lazyjumper ", log.LstdFlags)

	ebiten.SetWindowSize(cfg.ScreenWidth, cfg.ScreenHeight)
	ebiten.SetWindowTitle("LazyJumper v3")
	ebiten.SetTPS(60)

	game, err := newGame(cli.Map, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if cli.Watch {
		w, err := newWatcher(filepath.Dir(cli.Map))
		if err != nil {
			log.Fatal(err)
		}
		game.Watch(w)
	}

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		logger.Print(err)
	}
}
