package lazyjumper

import (
	"image/color"
	"math"
)

// Object overlay styling
const (
	overlayFillAlpha = 100
	overlayOutline   = 2
	overlayLabelSize = 20
	overlayInset     = 5
)

// Compositor turns a map, its textures and a camera into the draw commands
// of one frame. It never changes anything it reads.
type Compositor struct {
	Map   *Map
	Atlas *Atlas

	// Backdrops holds the texture of each image layer; layers without one
	// are skipped.
	Backdrops map[*ImageLayer]Texture

	Objects []MapObject
}

// Compose returns the draw commands for a frame seen through `cam`
func (c *Compositor) Compose(cam Camera) []DrawCommand {
	return c.AppendCommands(nil, cam)
}

// AppendCommands appends the commands for a frame to dst, so callers can
// reuse one buffer across frames. Layers are drawn in document order, then
// the object overlays.
func (c *Compositor) AppendCommands(dst []DrawCommand, cam Camera) []DrawCommand {
	for _, l := range c.Map.Layers {
		h := l.Header()
		if !h.Visible {
			continue
		}

		switch layer := l.(type) {
		case *TileLayer:
			dst = c.appendTiles(dst, layer, cam.LayerOffset(h.Offset, h.Parallax))
		case *ImageLayer:
			dst = c.appendImage(dst, layer, cam.LayerOffset(h.Offset, h.Parallax), cam.viewWidth())
		}
		// object groups are drawn from the extracted objects below
	}

	return c.appendObjects(dst, cam)
}

// appendTiles emits one Blit per drawable tile of a tile layer. Empty cells
// and gids without a texture are skipped.
func (c *Compositor) appendTiles(dst []DrawCommand, l *TileLayer, offset Vec) []DrawCommand {
	tw := float64(c.Map.TileWidth)
	th := float64(c.Map.TileHeight)

	l.Source.Each(func(x, y int, raw uint32) {
		if raw == 0 {
			return
		}
		tex, ok := c.Atlas.Lookup(raw)
		if !ok {
			return
		}
		_, flags := SplitGID(raw)
		dst = append(dst, Blit{
			Texture: tex,
			X:       float64(x)*tw + offset.X,
			Y:       float64(y)*th + offset.Y,
			Flip:    flags,
		})
	})

	return dst
}

// appendImage emits an image layer. Repeating layers are tiled across the
// visible width (camera space) with one extra copy past each edge.
func (c *Compositor) appendImage(dst []DrawCommand, l *ImageLayer, offset Vec, viewportWidth float64) []DrawCommand {
	tex, ok := c.Backdrops[l]
	if !ok || tex == nil {
		return dst
	}

	if !l.RepeatX {
		return append(dst, Blit{Texture: tex, X: offset.X, Y: offset.Y})
	}

	w := float64(tex.Bounds().Dx())
	if w <= 0 {
		return dst
	}
	repetitions := int(math.Floor(viewportWidth/w)) + 2
	for i := -1; i < repetitions; i++ {
		dst = append(dst, Blit{Texture: tex, X: offset.X + float64(i)*w, Y: offset.Y})
	}
	return dst
}

// appendObjects emits the debug overlay of every object: a translucent
// fill, a solid outline & the object's name.
func (c *Compositor) appendObjects(dst []DrawCommand, cam Camera) []DrawCommand {
	for _, o := range c.Objects {
		x := o.Rect.X - cam.Offset.X
		y := o.Rect.Y - cam.Offset.Y

		solid := color.NRGBA{o.Color.R, o.Color.G, o.Color.B, 255}
		fill := solid
		fill.A = overlayFillAlpha

		dst = append(dst,
			Rect{X: x, Y: y, W: o.Rect.W, H: o.Rect.H, Color: fill},
			Rect{X: x, Y: y, W: o.Rect.W, H: o.Rect.H, Color: solid, Outline: true, Thickness: overlayOutline},
			Label{
				Text:  o.Name,
				X:     x + overlayInset,
				Y:     y + overlayInset,
				Size:  overlayLabelSize,
				Color: color.NRGBA{255, 255, 255, 255},
			},
		)
	}
	return dst
}
