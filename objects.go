package lazyjumper

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// DefaultObjectColor is used for object layers without a configured color
var DefaultObjectColor = colornames.Red

// Rectangle is an axis aligned rectangle in world pixels
type Rectangle struct {
	X, Y, W, H float64
}

// MapObject is an object from an object layer, extracted once at load and
// read-only afterwards.
type MapObject struct {
	ID    int
	Name  string
	Type  string
	Layer string

	// Rect is in world space: no layer offset, no parallax
	Rect  Rectangle
	Color color.RGBA

	Properties *Properties
}

// ObjectColors decides the debug color of each object layer.
type ObjectColors struct {
	Default color.RGBA
	Layers  map[string]color.RGBA
}

// For returns the color for objects of the named layer
func (c ObjectColors) For(layer string) color.RGBA {
	if col, ok := c.Layers[layer]; ok {
		return col
	}
	if c.Default == (color.RGBA{}) {
		return DefaultObjectColor
	}
	return c.Default
}

// ExtractObjects flattens every object group of `m` into MapObjects, in
// document order.
func ExtractObjects(m *Map, colors ObjectColors) []MapObject {
	out := []MapObject{}

	for _, l := range m.Layers {
		og, ok := l.(*ObjectGroup)
		if !ok {
			continue
		}

		col := colors.For(og.Name)
		for _, o := range og.Objects {
			props := o.Properties
			if props == nil {
				props = NewProperties()
			}
			out = append(out, MapObject{
				ID:         o.ID,
				Name:       o.Name,
				Type:       o.Type,
				Layer:      og.Name,
				Rect:       Rectangle{o.Position.X, o.Position.Y, o.Size.X, o.Size.Y},
				Color:      col,
				Properties: props,
			})
		}
	}

	return out
}
