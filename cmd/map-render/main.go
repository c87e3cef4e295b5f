package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/davidkennedy02/lazyjumper"

	"github.com/alecthomas/kong"
)

const desc = `Renders one frame of a .tmx / .tmj map to a png, as the viewer would draw it.`

var cli struct {
	// where to find the input map
	Input  string `short:"i" help:"input .tmx or .tmj map (required)"`
	Output string `short:"o" help:"where to write output .png. Defaults to input + camera target + .png. Overwrites output file if it exists."`

	Config string `short:"c" help:"optional yaml config file"`
	Store  string `help:"optional chunk store whose layers replace tile layers of the same name"`

	// frame size in pixels, defaults to the config's screen size
	Width  int `help:"width of the frame in px"`
	Height int `help:"height of the frame in px"`

	// camera
	X        float64 `default:"0" help:"x coord (world px) the camera looks at"`
	Y        float64 `default:"0" help:"y coord (world px) the camera looks at"`
	Zoom     float64 `default:"1" help:"camera zoom"`
	Rotation float64 `default:"0" help:"camera rotation in degrees"`

	Scale float64 `default:"1" help:"scale the final image by this"`
}

func main() {
	kong.Parse(&cli, kong.Name("map-render"), kong.Description(desc))

	if !fileExists(cli.Input) {
		panic(fmt.Sprintf("input file not found: %s", cli.Input))
	}
	if cli.Output == "" {
		base := strings.TrimSuffix(cli.Input, filepath.Ext(cli.Input))
		cli.Output = fmt.Sprintf("%s_%.0f.%.0f.png", base, cli.X, cli.Y)
	}

	cfg := lazyjumper.DefaultConfig()
	if cli.Config != "" {
		var err error
		cfg, err = lazyjumper.LoadConfig(cli.Config)
		if err != nil {
			panic(err)
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

	logger := log.New(os.Stderr, "map-render ", log.LstdFlags)

	session, err := lazyjumper.Load(cli.Input, cfg, lazyjumper.ImageLoader{}, logger)
	if err != nil {
		panic(err)
	}
	defer session.Close()

	for _, k := range session.Map.Properties.Keys() {
		fmt.Printf("%s: %s\n", k, session.Map.Properties.Format(k))
	}

	canvas, err := lazyjumper.NewCanvas(cfg.ScreenWidth, cfg.ScreenHeight)
	if err != nil {
		panic(err)
	}

	cam := lazyjumper.NewCamera(cfg.ScreenWidth, cfg.ScreenHeight)
	cam.Target = lazyjumper.Vec{X: cli.X, Y: cli.Y}
	cam.Zoom = cli.Zoom
	cam.Rotation = cli.Rotation * math.Pi / 180

	canvas.Render(cam, session.Compose(cam))

	err = canvas.SavePNG(cli.Output, cli.Scale)
	if err != nil {
		panic(err)
	}

	fmt.Printf("wrote %s\n", cli.Output)
}

// fileExists checks if file exists
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}
