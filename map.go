/* file holds our in memory map model along with the functions to open,
decode & validate maps in either of Tiled's formats.
*/
package lazyjumper

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"
)

var (
	// ErrUnsupported is returned for map features we can't read
	ErrUnsupported = errors.New("unsupported map feature")

	// ErrDataLength is returned when tile data doesn't match its declared size
	ErrDataLength = errors.New("tile data length mismatch")

	// ErrTilesetOverlap is returned when two tilesets claim the same gid
	ErrTilesetOverlap = errors.New("tileset gid ranges overlap")

	// ErrInvalidMap is returned for maps that can't be rendered at all
	ErrInvalidMap = errors.New("invalid map")
)

// Format is the on disk encoding of a map
type Format int

const (
	FormatTMX Format = iota // XML
	FormatTMJ               // JSON
)

// FormatOf guesses a map format from a file name
func FormatOf(fname string) Format {
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".json", ".tmj":
		return FormatTMJ
	}
	return FormatTMX
}

// Map is a parsed tile map. Once validated it is only ever read.
type Map struct {
	// in pixels, constant across the map
	TileWidth  int
	TileHeight int

	// in tiles, finite maps only
	Width  int
	Height int

	Infinite bool

	Tilesets []*Tileset

	// Layers in document order, which is also render order
	Layers []Layer

	Properties *Properties

	// Dir is the directory relative image paths are resolved against
	Dir string
}

// Tileset is a named collection of tile images anchored at FirstGID.
type Tileset struct {
	FirstGID   uint32
	Name       string
	TileWidth  int
	TileHeight int
	Tiles      []TileDef
}

// TileDef is a single tile image of a tileset.
type TileDef struct {
	// ID is the 1-based local id: the first tile of a tileset is 1
	ID uint32

	// Image path, relative to the map
	Image string

	// Region of Image holding the tile; empty means the whole image
	Region image.Rectangle
}

// GID returns the global id of tile `t` in this tileset
func (ts *Tileset) GID(t TileDef) uint32 {
	return t.ID + ts.FirstGID - 1
}

// LastGID returns the highest global id claimed by the tileset, or
// FirstGID-1 for a tileset without tiles.
func (ts *Tileset) LastGID() uint32 {
	last := ts.FirstGID - 1
	for _, t := range ts.Tiles {
		if g := ts.GID(t); g > last {
			last = g
		}
	}
	return last
}

// sheetTiles cuts a spritesheet image into tile regions, left to right
// top to bottom.
func sheetTiles(src string, imgW, imgH, tw, th, spacing, margin, columns, count int) ([]TileDef, error) {
	if tw <= 0 || th <= 0 {
		return nil, fmt.Errorf("%w: %s has tile size %dx%d", ErrInvalidMap, src, tw, th)
	}
	if columns <= 0 {
		columns = (imgW - 2*margin + spacing) / (tw + spacing)
	}
	if columns <= 0 {
		if count <= 0 {
			return []TileDef{}, nil
		}
		return nil, fmt.Errorf("%w: %s is %dpx wide, too narrow for %dpx tiles", ErrInvalidMap, src, imgW, tw)
	}
	if count <= 0 {
		rows := (imgH - 2*margin + spacing) / (th + spacing)
		count = rows * columns
	}

	tiles := make([]TileDef, 0, count)
	for i := 0; i < count; i++ {
		x := margin + (i%columns)*(tw+spacing)
		y := margin + (i/columns)*(th+spacing)
		tiles = append(tiles, TileDef{
			ID:     uint32(i + 1),
			Image:  src,
			Region: image.Rect(x, y, x+tw, y+th),
		})
	}
	return tiles, nil
}

// relativeTo joins a path found inside a file in `dir` so it is relative to
// the map instead.
func relativeTo(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Validate checks every invariant the compositor relies on. Any failure here
// is fatal, the compositor never checks again per frame.
func (m *Map) Validate() error {
	if m.TileWidth <= 0 || m.TileHeight <= 0 {
		return fmt.Errorf("%w: tile size %dx%d", ErrInvalidMap, m.TileWidth, m.TileHeight)
	}

	sets := make([]*Tileset, len(m.Tilesets))
	copy(sets, m.Tilesets)
	sort.Slice(sets, func(i, j int) bool { return sets[i].FirstGID < sets[j].FirstGID })
	for i, ts := range sets {
		if ts.FirstGID < 1 {
			return fmt.Errorf("%w: tileset %q has firstgid %d", ErrInvalidMap, ts.Name, ts.FirstGID)
		}
		if i > 0 && sets[i-1].LastGID() >= ts.FirstGID {
			return fmt.Errorf(
				"%w: %q ends at %d, %q starts at %d",
				ErrTilesetOverlap, sets[i-1].Name, sets[i-1].LastGID(), ts.Name, ts.FirstGID,
			)
		}
	}

	for _, l := range m.Layers {
		tl, ok := l.(*TileLayer)
		if !ok {
			continue
		}

		var err error
		switch src := tl.Source.(type) {
		case *Grid:
			err = src.validate()
		case Chunks:
			err = src.validate()
		case nil:
			err = fmt.Errorf("%w: no tile data", ErrInvalidMap)
		}
		if err != nil {
			return fmt.Errorf("layer %q: %w", tl.Name, err)
		}
	}

	return nil
}

// TileLayers returns the map's tile layers in document order
func (m *Map) TileLayers() []*TileLayer {
	out := []*TileLayer{}
	for _, l := range m.Layers {
		if tl, ok := l.(*TileLayer); ok {
			out = append(out, tl)
		}
	}
	return out
}

// Decode a map in the given format. External tilesets & relative images are
// resolved against `dir`.
func Decode(r io.Reader, format Format, dir string) (*Map, error) {
	var (
		m   *Map
		err error
	)
	switch format {
	case FormatTMJ:
		m, err = decodeTMJ(r, dir)
	default:
		m, err = decodeTMX(r, dir)
	}
	if err != nil {
		return nil, err
	}

	m.Dir = dir
	return m, m.Validate()
}

// Open reads & validates the map file `fname`
func Open(fname string) (*Map, error) {
	fname, err := homedir.Expand(fname)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Decode(f, FormatOf(fname), filepath.Dir(fname))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return m, nil
}
