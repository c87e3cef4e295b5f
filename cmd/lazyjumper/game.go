package main

import (
	"fmt"
	"log"
	"math"

	"github.com/davidkennedy02/lazyjumper"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/colornames"
)

const (
	controls = "Controls: WASD/Arrows - Move, Wheel - Zoom, Tab - Next object, R - Reset"

	minZoom = 0.1
	maxZoom = 10

	// seconds to glide to an object
	glideTime = 0.6
)

// glide moves the camera target to a point over time
type glide struct {
	x, y         *gween.Tween
	doneX, doneY bool
}

// Game is the viewer: it owns the current session, the camera and input.
type Game struct {
	cfg    *lazyjumper.Config
	fname  string
	logger *log.Logger

	session *lazyjumper.Session
	cam     lazyjumper.Camera
	cmds    []lazyjumper.DrawCommand

	renderer *renderer
	watcher  *watcher
	glide    *glide

	// index of the object Tab glides to next
	nextObject int
}

func newGame(fname string, cfg *lazyjumper.Config, logger *log.Logger) (*Game, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}

	session, err := lazyjumper.Load(fname, cfg, gpuLoader{}, logger)
	if err != nil {
		return nil, err
	}

	return &Game{
		cfg:      cfg,
		fname:    fname,
		logger:   logger,
		session:  session,
		cam:      lazyjumper.NewCamera(cfg.ScreenWidth, cfg.ScreenHeight),
		renderer: r,
	}, nil
}

// Watch reloads the map whenever the files of w change
func (g *Game) Watch(w *watcher) {
	g.watcher = w
}

// Close releases the session & watcher
func (g *Game) Close() {
	if g.watcher != nil {
		g.watcher.Close()
	}
	g.session.Close()
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.pollWatcher()

	dt := 1 / float64(ebiten.TPS())
	step := g.cfg.CameraSpeed * dt

	move := lazyjumper.Vec{}
	if ebiten.IsKeyPressed(ebiten.KeyRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		move.X += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		move.X -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		move.Y += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		move.Y -= step
	}
	if move != (lazyjumper.Vec{}) {
		g.glide = nil // keys win
		g.cam.Target = g.cam.Target.Add(move)
	}

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.cam.Zoom = math.Max(minZoom, math.Min(maxZoom, g.cam.Zoom*math.Pow(1.1, wy)))
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.glide = nil
		g.cam.Target = lazyjumper.Vec{}
		g.cam.Zoom = 1
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.glideToNextObject()
	}
	g.updateGlide(float32(dt))

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	g.cmds = g.session.AppendCommands(g.cmds[:0], g.cam)
	g.renderer.Target(screen)
	g.renderer.Render(g.cam, g.cmds)

	g.renderer.text(fmt.Sprintf("FPS: %.0f", ebiten.ActualFPS()), 10, 10, 20, colornames.Lime)
	g.renderer.text(fmt.Sprintf("Camera: %.2f, %.2f", g.cam.Target.X, g.cam.Target.Y), 10, 30, 20, colornames.White)
	g.renderer.text(controls, 10, float64(g.cfg.ScreenHeight-30), 20, colornames.Darkgray)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.ScreenWidth, g.cfg.ScreenHeight
}

// glideToNextObject starts moving the camera to the center of the next
// object, in document order, wrapping around.
func (g *Game) glideToNextObject() {
	objs := g.session.Objects
	if len(objs) == 0 {
		return
	}
	o := objs[g.nextObject%len(objs)]
	g.nextObject = (g.nextObject + 1) % len(objs)

	// objects are drawn at world - Offset, so this puts the center of the
	// object on the center of the screen
	x := o.Rect.X + o.Rect.W/2 - g.cam.Offset.X
	y := o.Rect.Y + o.Rect.H/2 - g.cam.Offset.Y

	g.glide = &glide{
		x: gween.New(float32(g.cam.Target.X), float32(x), glideTime, ease.InOutCubic),
		y: gween.New(float32(g.cam.Target.Y), float32(y), glideTime, ease.InOutCubic),
	}
	g.logger.Printf("gliding to object %d %q (%s)", o.ID, o.Name, o.Layer)
}

func (g *Game) updateGlide(dt float32) {
	if g.glide == nil {
		return
	}
	if !g.glide.doneX {
		v, done := g.glide.x.Update(dt)
		g.cam.Target.X = float64(v)
		g.glide.doneX = done
	}
	if !g.glide.doneY {
		v, done := g.glide.y.Update(dt)
		g.cam.Target.Y = float64(v)
		g.glide.doneY = done
	}
	if g.glide.doneX && g.glide.doneY {
		g.glide = nil
	}
}

// pollWatcher reloads the map if any of its files changed. A map that fails
// to load keeps the current session on screen.
func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}

	changed := ""
drain:
	for {
		select {
		case name := <-g.watcher.Events:
			changed = name
		case err := <-g.watcher.Errors:
			g.logger.Printf("watch: %v", err)
		default:
			break drain
		}
	}
	if changed == "" {
		return
	}

	g.logger.Printf("%s changed, reloading %s", changed, g.fname)
	session, err := lazyjumper.Load(g.fname, g.cfg, gpuLoader{}, g.logger)
	if err != nil {
		g.logger.Printf("reload failed: %v", err)
		return
	}

	g.session.Close()
	g.session = session
	g.nextObject = 0
}
