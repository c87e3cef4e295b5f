package main

import (
	"image/color"

	"github.com/davidkennedy02/lazyjumper"

	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// renderer draws a frame's commands onto the ebiten screen.
type renderer struct {
	font  *truetype.Font
	faces map[float64]ebtext.Face

	screen *ebiten.Image

	// untextured triangles for rects, and their reused buffers
	white *ebiten.Image
	vs    []ebiten.Vertex
	is    []uint16
}

func newRenderer() (*renderer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	white := ebiten.NewImage(1, 1)
	white.Fill(color.White)
	return &renderer{font: f, faces: map[float64]ebtext.Face{}, white: white}, nil
}

// Target sets the image drawn onto by Render
func (r *renderer) Target(screen *ebiten.Image) {
	r.screen = screen
}

// Render implements lazyjumper.Renderer
func (r *renderer) Render(cam lazyjumper.Camera, cmds []lazyjumper.DrawCommand) {
	view := cameraGeoM(cam)

	for _, cmd := range cmds {
		switch cmd := cmd.(type) {
		case lazyjumper.Blit:
			r.blit(cmd, view)
		case lazyjumper.Rect:
			r.rect(cmd, cam)
		case lazyjumper.Label:
			op := &ebtext.DrawOptions{}
			op.GeoM.Translate(cmd.X, cmd.Y)
			op.GeoM.Concat(view)
			op.ColorScale.ScaleWithColor(cmd.Color)
			ebtext.Draw(r.screen, cmd.Text, r.face(cmd.Size), op)
		}
	}
}

func (r *renderer) blit(b lazyjumper.Blit, view ebiten.GeoM) {
	img, ok := b.Texture.(*ebiten.Image)
	if !ok {
		return
	}
	bounds := img.Bounds()

	op := &ebiten.DrawImageOptions{}
	op.GeoM = flipGeoM(float64(bounds.Dx()), float64(bounds.Dy()), b.Flip)
	op.GeoM.Translate(b.X, b.Y)
	op.GeoM.Concat(view)
	r.screen.DrawImage(img, op)
}

// rect draws a rectangle through the camera, so it turns with it
func (r *renderer) rect(rc lazyjumper.Rect, cam lazyjumper.Camera) {
	var path vector.Path
	for i, p := range rc.ScreenCorners(cam) {
		if i == 0 {
			path.MoveTo(float32(p.X), float32(p.Y))
		} else {
			path.LineTo(float32(p.X), float32(p.Y))
		}
	}
	path.Close()

	var vs []ebiten.Vertex
	var is []uint16
	if rc.Outline {
		zoom := cam.Zoom
		if zoom == 0 {
			zoom = 1
		}
		vs, is = path.AppendVerticesAndIndicesForStroke(r.vs[:0], r.is[:0], &vector.StrokeOptions{
			Width:    float32(rc.Thickness * zoom),
			LineJoin: vector.LineJoinMiter,
		})
	} else {
		vs, is = path.AppendVerticesAndIndicesForFilling(r.vs[:0], r.is[:0])
	}

	cr, cg, cb, ca := float32(rc.Color.R)/255, float32(rc.Color.G)/255, float32(rc.Color.B)/255, float32(rc.Color.A)/255
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 0, 0
		vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = cr, cg, cb, ca
	}
	r.screen.DrawTriangles(vs, is, r.white, &ebiten.DrawTrianglesOptions{})
	r.vs, r.is = vs, is
}

// face returns a text face of the given size, cached
func (r *renderer) face(size float64) ebtext.Face {
	f, ok := r.faces[size]
	if !ok {
		f = ebtext.NewGoXFace(truetype.NewFace(r.font, &truetype.Options{Size: size}))
		r.faces[size] = f
	}
	return f
}

// text draws screen space text, for the HUD
func (r *renderer) text(s string, x, y, size float64, col color.Color) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	ebtext.Draw(r.screen, s, r.face(size), op)
}

// cameraGeoM is lazyjumper.Camera.Transform as an ebiten.GeoM
func cameraGeoM(cam lazyjumper.Camera) ebiten.GeoM {
	zoom := cam.Zoom
	if zoom == 0 {
		zoom = 1
	}

	var g ebiten.GeoM
	g.Translate(-cam.Target.X, -cam.Target.Y)
	g.Scale(zoom, zoom)
	g.Rotate(cam.Rotation)
	g.Translate(cam.Offset.X, cam.Offset.Y)
	return g
}

// flipGeoM places a w x h tile with Tiled's flip flags applied: diagonal
// first, then horizontal, then vertical.
func flipGeoM(w, h float64, flags uint32) ebiten.GeoM {
	var g ebiten.GeoM
	if flags&lazyjumper.FlipDiagonal != 0 {
		g.SetElement(0, 0, 0)
		g.SetElement(0, 1, 1)
		g.SetElement(1, 0, 1)
		g.SetElement(1, 1, 0)
		w, h = h, w
	}
	if flags&lazyjumper.FlipHorizontal != 0 {
		g.Scale(-1, 1)
		g.Translate(w, 0)
	}
	if flags&lazyjumper.FlipVertical != 0 {
		g.Scale(1, -1)
		g.Translate(0, h)
	}
	return g
}
