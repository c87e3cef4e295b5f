package lazyjumper

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Canvas renders draw commands into an in memory image using gg. It's the
// headless Renderer, used for snapshots & tests.
type Canvas struct {
	dc    *gg.Context
	font  *truetype.Font
	faces map[float64]font.Face
}

// NewCanvas returns a w x h canvas cleared to black
func NewCanvas(w, h int) (*Canvas, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}

	c := &Canvas{dc: gg.NewContext(w, h), font: f, faces: map[float64]font.Face{}}
	c.Clear(color.Black)
	return c, nil
}

// Clear fills the whole canvas with col
func (c *Canvas) Clear(col color.Color) {
	c.dc.SetColor(col)
	c.dc.Clear()
}

// Render implements Renderer. Commands are drawn in order with the camera
// transform applied.
func (c *Canvas) Render(cam Camera, cmds []DrawCommand) {
	dc := c.dc
	dc.Push()
	defer dc.Pop()

	zoom := cam.Zoom
	if zoom == 0 {
		zoom = 1
	}
	// gg applies these last to first: -Target, zoom, rotate, +Offset
	dc.Translate(cam.Offset.X, cam.Offset.Y)
	dc.Rotate(cam.Rotation)
	dc.Scale(zoom, zoom)
	dc.Translate(-cam.Target.X, -cam.Target.Y)

	for _, cmd := range cmds {
		switch cmd := cmd.(type) {
		case Blit:
			c.blit(cmd)
		case Rect:
			dc.SetColor(cmd.Color)
			if cmd.Outline {
				// inset so the stroke stays inside the rectangle
				half := cmd.Thickness / 2
				dc.DrawRectangle(cmd.X+half, cmd.Y+half, cmd.W-cmd.Thickness, cmd.H-cmd.Thickness)
				dc.SetLineWidth(cmd.Thickness)
				dc.Stroke()
			} else {
				dc.DrawRectangle(cmd.X, cmd.Y, cmd.W, cmd.H)
				dc.Fill()
			}
		case Label:
			dc.SetFontFace(c.face(cmd.Size))
			dc.SetColor(cmd.Color)
			dc.DrawStringAnchored(cmd.Text, cmd.X, cmd.Y, 0, 1)
		}
	}
}

// blit draws a texture, which must be an image.Image
func (c *Canvas) blit(b Blit) {
	img, ok := b.Texture.(image.Image)
	if !ok {
		return
	}
	if b.Flip != 0 {
		img = &flippedImage{src: img, flags: b.Flip}
	}

	min := img.Bounds().Min
	c.dc.Push()
	c.dc.Translate(b.X-float64(min.X), b.Y-float64(min.Y))
	c.dc.DrawImage(img, 0, 0)
	c.dc.Pop()
}

// face returns a font face of the given size, cached
func (c *Canvas) face(size float64) font.Face {
	if size <= 0 {
		size = overlayLabelSize
	}
	f, ok := c.faces[size]
	if !ok {
		f = truetype.NewFace(c.font, &truetype.Options{Size: size})
		c.faces[size] = f
	}
	return f
}

// Image returns what has been drawn so far
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// SavePNG writes the canvas to disk, scaled by `scale` (1 keeps the size)
func (c *Canvas) SavePNG(fpath string, scale float64) error {
	img := c.Image()
	if scale > 0 && scale != 1 {
		b := img.Bounds()
		img = resize.Resize(
			uint(float64(b.Dx())*scale),
			uint(float64(b.Dy())*scale),
			img,
			resize.Lanczos3,
		)
	}

	buff := new(bytes.Buffer)
	err := png.Encode(buff, img)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(fpath, buff.Bytes(), 0644)
}

// flippedImage presents a tile image with Tiled flip flags applied
type flippedImage struct {
	src   image.Image
	flags uint32
}

func (f *flippedImage) ColorModel() color.Model {
	return f.src.ColorModel()
}

func (f *flippedImage) Bounds() image.Rectangle {
	b := f.src.Bounds()
	if f.flags&FlipDiagonal != 0 {
		return image.Rect(0, 0, b.Dy(), b.Dx())
	}
	return image.Rect(0, 0, b.Dx(), b.Dy())
}

func (f *flippedImage) At(x, y int) color.Color {
	b := f.Bounds()
	sx, sy := flipSource(x, y, b.Dx(), b.Dy(), f.flags)
	min := f.src.Bounds().Min
	return f.src.At(min.X+sx, min.Y+sy)
}
