package lazyjumper

import "math"

// Camera is the view into the map. It's changed once per frame by input
// handling and only read while composing that frame.
type Camera struct {
	// Target is the world position the camera looks at
	Target Vec

	// Offset is the screen position of the target, usually the screen center
	Offset Vec

	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out)
	Zoom float64

	// Rotation in radians, clockwise, around Offset
	Rotation float64

	// Viewport is the screen size in pixels
	Viewport Vec
}

// NewCamera returns a camera for a screen of w x h pixels with the target
// at the screen center.
func NewCamera(w, h int) Camera {
	return Camera{
		Offset:   Vec{float64(w) / 2, float64(h) / 2},
		Zoom:     1,
		Viewport: Vec{float64(w), float64(h)},
	}
}

// LayerOffset returns where a layer's origin lands in camera space:
//
//	offset + Target * (1 - parallax) - Offset
//
// A parallax of {1,1} scrolls with the camera; {0,0} pins the layer
// to the screen.
func (c Camera) LayerOffset(offset, parallax Vec) Vec {
	return offset.Add(c.Target.Mul(Vec{1 - parallax.X, 1 - parallax.Y})).Sub(c.Offset)
}

// viewWidth is the width of the screen in camera space
func (c Camera) viewWidth() float64 {
	if c.Zoom <= 0 {
		return c.Viewport.X
	}
	return c.Viewport.X / c.Zoom
}

// Affine is a 2D affine transform {a, b, c, d, tx, ty} mapping
// (x, y) to (a*x + c*y + tx, b*x + d*y + ty).
type Affine [6]float64

// Apply transforms p
func (m Affine) Apply(p Vec) Vec {
	return Vec{
		m[0]*p.X + m[2]*p.Y + m[4],
		m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Transform returns the camera-space to screen-space transform a frame
// renderer applies to every command: move Target to the origin, zoom,
// rotate, then move the origin to Offset.
func (c Camera) Transform() Affine {
	zoom := c.Zoom
	if zoom == 0 {
		zoom = 1
	}
	sin, cos := math.Sincos(c.Rotation)
	a, b := zoom*cos, zoom*sin
	cc, d := -zoom*sin, zoom*cos
	return Affine{
		a, b, cc, d,
		-(a*c.Target.X + cc*c.Target.Y) + c.Offset.X,
		-(b*c.Target.X + d*c.Target.Y) + c.Offset.Y,
	}
}

// ToScreen maps a camera-space point to the screen
func (c Camera) ToScreen(p Vec) Vec {
	return c.Transform().Apply(p)
}
