package lazyjumper

import "fmt"

// Vec is a 2D vector in pixels (or a unitless factor, for parallax).
type Vec struct {
	X, Y float64
}

// Add returns v + o
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

// Mul returns the component-wise product of v and o
func (v Vec) Mul(o Vec) Vec { return Vec{v.X * o.X, v.Y * o.Y} }

// LayerHeader holds what every layer kind carries.
type LayerHeader struct {
	ID   int
	Name string

	// Offset is added to the layer's pixel position
	Offset Vec

	// Parallax scales how fast the layer scrolls with the camera.
	// {1,1} scrolls with the camera, {0,0} never moves.
	Parallax Vec

	Visible    bool
	Properties *Properties
}

// Header implements Layer
func (h *LayerHeader) Header() *LayerHeader { return h }

// newHeader returns a header with Tiled's defaults
func newHeader(id int, name string) LayerHeader {
	return LayerHeader{
		ID:         id,
		Name:       name,
		Parallax:   Vec{1, 1},
		Visible:    true,
		Properties: NewProperties(),
	}
}

// nest folds a parent group's header into h: offsets add, parallax
// factors multiply and a hidden group hides its children.
func (h LayerHeader) nest(parent *LayerHeader) LayerHeader {
	if parent == nil {
		return h
	}
	h.Offset = h.Offset.Add(parent.Offset)
	h.Parallax = h.Parallax.Mul(parent.Parallax)
	h.Visible = h.Visible && parent.Visible
	return h
}

// TileLayer is a grid of global tile ids.
type TileLayer struct {
	LayerHeader
	Source TileSource
}

// ImageLayer draws a single image, optionally repeated horizontally.
type ImageLayer struct {
	LayerHeader
	Image   string
	RepeatX bool
}

// ObjectGroup holds freeform objects. Object groups are never parallaxed.
type ObjectGroup struct {
	LayerHeader
	Objects []ObjectDef
}

// ObjectDef is one object as authored in the map.
type ObjectDef struct {
	ID         int
	Name       string
	Type       string
	Position   Vec
	Size       Vec
	Properties *Properties
}

func (*TileLayer) layer()   {}
func (*ImageLayer) layer()  {}
func (*ObjectGroup) layer() {}

// Grid is the row-major tile storage of a finite layer.
type Grid struct {
	Width  int
	Height int
	Data   []uint32
}

// Each implements TileSource
func (g *Grid) Each(fn func(x, y int, gid uint32)) {
	for i, gid := range g.Data {
		// the reverse of index = y * width + x
		fn(i%g.Width, i/g.Width, gid)
	}
}

// Len implements TileSource
func (g *Grid) Len() int { return len(g.Data) }

func (g *Grid) validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: grid is %dx%d", ErrDataLength, g.Width, g.Height)
	}
	if len(g.Data) != g.Width*g.Height {
		return fmt.Errorf("%w: grid %dx%d holds %d tiles", ErrDataLength, g.Width, g.Height, len(g.Data))
	}
	return nil
}

// Chunk is a rectangular piece of an infinite layer. X and Y are in tiles
// and may be negative.
type Chunk struct {
	X, Y          int
	Width, Height int
	Data          []uint32
}

// Chunks is the tile storage of an infinite layer. Chunks never overlap.
type Chunks []Chunk

// Each implements TileSource
func (cs Chunks) Each(fn func(x, y int, gid uint32)) {
	for _, c := range cs {
		for i, gid := range c.Data {
			fn(c.X+i%c.Width, c.Y+i/c.Width, gid)
		}
	}
}

// Len implements TileSource
func (cs Chunks) Len() int {
	n := 0
	for _, c := range cs {
		n += len(c.Data)
	}
	return n
}

func (cs Chunks) validate() error {
	for _, c := range cs {
		if c.Width <= 0 || c.Height <= 0 {
			return fmt.Errorf("%w: chunk at (%d,%d) is %dx%d", ErrDataLength, c.X, c.Y, c.Width, c.Height)
		}
		if len(c.Data) != c.Width*c.Height {
			return fmt.Errorf(
				"%w: chunk at (%d,%d) is %dx%d but holds %d tiles",
				ErrDataLength, c.X, c.Y, c.Width, c.Height, len(c.Data),
			)
		}
	}
	return nil
}
