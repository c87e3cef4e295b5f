package lazyjumper

import "image/color"

// DrawCommand is one draw operation in camera space: a Blit, Rect or Label.
// Commands are built fresh every frame and only live for that frame.
type DrawCommand interface {
	command()
}

// Blit draws a texture with its top-left corner at (X, Y).
type Blit struct {
	Texture Texture
	X, Y    float64

	// Flip holds the FlipHorizontal / FlipVertical / FlipDiagonal bits
	Flip uint32
}

// Rect draws a rectangle, filled or as an outline of Thickness pixels.
type Rect struct {
	X, Y, W, H float64
	Color      color.NRGBA
	Outline    bool
	Thickness  float64
}

// ScreenCorners returns the rectangle's corners on screen, clockwise from
// the top-left. Outlines are inset by half their thickness so the stroke
// stays inside the rectangle.
func (r Rect) ScreenCorners(cam Camera) [4]Vec {
	x, y, w, h := r.X, r.Y, r.W, r.H
	if r.Outline {
		t := r.Thickness
		x, y, w, h = x+t/2, y+t/2, w-t, h-t
	}
	return [4]Vec{
		cam.ToScreen(Vec{x, y}),
		cam.ToScreen(Vec{x + w, y}),
		cam.ToScreen(Vec{x + w, y + h}),
		cam.ToScreen(Vec{x, y + h}),
	}
}

// Label draws text with its top-left corner at (X, Y).
type Label struct {
	Text  string
	X, Y  float64
	Size  float64
	Color color.NRGBA
}

func (Blit) command()  {}
func (Rect) command()  {}
func (Label) command() {}

// Renderer consumes the commands of one frame.
type Renderer interface {
	Render(cam Camera, cmds []DrawCommand)
}
