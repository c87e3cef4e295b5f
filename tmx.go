/* this file is a simplified set of structs for reading TMX (XML) files.

The struct layout started out from github.com/bcvery1/tilepix (all credit to
authors).

We only need part of the feature set of TMX in order to render maps so we only
bother to parse those things.
- orthogonal orientation only
- csv, base64, base64+zlib & base64+gzip tile data (also the deprecated <tile> form)
- group layers are flattened into their children
*/
package lazyjumper

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// tmxMap is a TMX file structure representing the map as a whole.
type tmxMap struct {
	XMLName        xml.Name      `xml:"map"`
	Orientation    string        `xml:"orientation,attr"`
	Width          int           `xml:"width,attr"`      // in tiles
	Height         int           `xml:"height,attr"`     // in tiles
	TileWidth      int           `xml:"tilewidth,attr"`  // in pixels
	TileHeight     int           `xml:"tileheight,attr"` // in pixels
	Infinite       int           `xml:"infinite,attr"`
	RootProperties []*Property   `xml:"properties>property"`
	Tilesets       []*tmxTileset `xml:"tileset"`

	// Everything else; layers of all kinds land here in document order.
	Layers []*tmxLayer `xml:",any"`
}

// tmxTileset is a TMX file structure which represents a Tiled Tileset,
// either inline or as the root of an external .tsx file.
type tmxTileset struct {
	FirstGID   uint32      `xml:"firstgid,attr"`
	Source     string      `xml:"source,attr"`
	Name       string      `xml:"name,attr"`
	TileWidth  int         `xml:"tilewidth,attr"`
	TileHeight int         `xml:"tileheight,attr"`
	Spacing    int         `xml:"spacing,attr"`
	Margin     int         `xml:"margin,attr"`
	TileCount  int         `xml:"tilecount,attr"`
	Columns    int         `xml:"columns,attr"`
	Properties []*Property `xml:"properties>property"`
	Tiles      []*tmxTile  `xml:"tile"`
	Image      *Image      `xml:"image"`
}

// Property is a TMX file structure which holds a Tiled property.
type Property struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
	Type  string `xml:"type,attr"` // string (default), int, float, bool, color, file
}

// Image is an image file in TMX
type Image struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

// tmxTile is a TMX tile (from a tileset)
type tmxTile struct {
	ID         uint32      `xml:"id,attr"`
	Image      *Image      `xml:"image"`
	Properties []*Property `xml:"properties>property"`
}

// tmxLayer holds any kind of TMX layer: <layer>, <imagelayer>, <objectgroup>
// or <group>. The element name tells us which fields matter.
type tmxLayer struct {
	XMLName    xml.Name
	ID         int          `xml:"id,attr"`
	Name       string       `xml:"name,attr"`
	Width      int          `xml:"width,attr"`
	Height     int          `xml:"height,attr"`
	OffsetX    float64      `xml:"offsetx,attr"`
	OffsetY    float64      `xml:"offsety,attr"`
	ParallaxX  *float64     `xml:"parallaxx,attr"`
	ParallaxY  *float64     `xml:"parallaxy,attr"`
	Visible    *int         `xml:"visible,attr"`
	RepeatX    int          `xml:"repeatx,attr"`
	Properties []*Property  `xml:"properties>property"`
	Data       *tmxData     `xml:"data"`
	Image      *Image       `xml:"image"`
	Objects    []*tmxObject `xml:"object"`
	Layers     []*tmxLayer  `xml:",any"`
}

// tmxData is a TMX file structure holding tile data, either directly or
// split into chunks for infinite maps.
type tmxData struct {
	Encoding    string       `xml:"encoding,attr"`
	Compression string       `xml:"compression,attr"`
	RawData     []byte       `xml:",chardata"`
	Tiles       []tmxTileRef `xml:"tile"`
	Chunks      []*tmxChunk  `xml:"chunk"`
}

// tmxChunk is a single chunk of an infinite layer
type tmxChunk struct {
	X       int          `xml:"x,attr"`
	Y       int          `xml:"y,attr"`
	Width   int          `xml:"width,attr"`
	Height  int          `xml:"height,attr"`
	RawData []byte       `xml:",chardata"`
	Tiles   []tmxTileRef `xml:"tile"`
}

// tmxTileRef is a single cell in the (deprecated) un-encoded XML format
type tmxTileRef struct {
	GID uint32 `xml:"gid,attr"`
}

// tmxObject is a single object in an object group
type tmxObject struct {
	ID         int         `xml:"id,attr"`
	Name       string      `xml:"name,attr"`
	Type       string      `xml:"type,attr"`
	Class      string      `xml:"class,attr"` // 'type' was renamed 'class' in Tiled 1.9
	X          float64     `xml:"x,attr"`
	Y          float64     `xml:"y,attr"`
	Width      float64     `xml:"width,attr"`
	Height     float64     `xml:"height,attr"`
	Properties []*Property `xml:"properties>property"`
}

// decodeTMX reads an XML map
func decodeTMX(r io.Reader, dir string) (*Map, error) {
	raw := &tmxMap{}
	if err := xml.NewDecoder(r).Decode(raw); err != nil {
		return nil, err
	}
	if raw.Orientation != "" && raw.Orientation != "orthogonal" {
		return nil, fmt.Errorf("%w: orientation %q", ErrUnsupported, raw.Orientation)
	}

	m := &Map{
		Width:      raw.Width,
		Height:     raw.Height,
		TileWidth:  raw.TileWidth,
		TileHeight: raw.TileHeight,
		Infinite:   raw.Infinite == 1,
		Tilesets:   []*Tileset{},
		Layers:     []Layer{},
		Properties: newPropertiesFromList(raw.RootProperties),
	}

	for _, ts := range raw.Tilesets {
		tileset, err := ts.build(dir)
		if err != nil {
			return nil, err
		}
		m.Tilesets = append(m.Tilesets, tileset)
	}

	layers, err := buildTMXLayers(raw.Layers, nil)
	if err != nil {
		return nil, err
	}
	m.Layers = layers

	return m, nil
}

// openTSX reads an external XML tileset
func openTSX(dir, source string) (*tmxTileset, error) {
	f, err := os.Open(relativeTo(dir, source))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ts := &tmxTileset{}
	if err := xml.NewDecoder(f).Decode(ts); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return ts, nil
}

// build turns the raw tileset into a Tileset, loading it from disk first
// if it's external. Image paths in the result are relative to the map.
func (ts *tmxTileset) build(dir string) (*Tileset, error) {
	src := ts
	imgDir := ""
	if ts.Source != "" {
		var err error
		src, err = loadTileset(dir, ts.Source)
		if err != nil {
			return nil, err
		}
		imgDir = filepath.Dir(ts.Source)
	}

	out := &Tileset{
		FirstGID:   ts.FirstGID,
		Name:       src.Name,
		TileWidth:  src.TileWidth,
		TileHeight: src.TileHeight,
	}

	if src.Image != nil && src.Image.Source != "" {
		// one image cut into tiles
		tiles, err := sheetTiles(
			relativeTo(imgDir, src.Image.Source), src.Image.Width, src.Image.Height,
			src.TileWidth, src.TileHeight, src.Spacing, src.Margin, src.Columns, src.TileCount,
		)
		if err != nil {
			return nil, fmt.Errorf("tileset %q: %w", src.Name, err)
		}
		out.Tiles = tiles
		return out, nil
	}

	// collection of images, one per tile
	for _, t := range src.Tiles {
		if t.Image == nil || t.Image.Source == "" {
			continue
		}
		out.Tiles = append(out.Tiles, TileDef{ID: t.ID + 1, Image: relativeTo(imgDir, t.Image.Source)})
	}
	return out, nil
}

// buildTMXLayers converts raw layers (recursing into groups) into our layers
func buildTMXLayers(in []*tmxLayer, parent *LayerHeader) ([]Layer, error) {
	out := []Layer{}

	for _, l := range in {
		h := newHeader(l.ID, l.Name)
		h.Offset = Vec{l.OffsetX, l.OffsetY}
		if l.ParallaxX != nil {
			h.Parallax.X = *l.ParallaxX
		}
		if l.ParallaxY != nil {
			h.Parallax.Y = *l.ParallaxY
		}
		if l.Visible != nil {
			h.Visible = *l.Visible != 0
		}
		h.Properties = newPropertiesFromList(l.Properties)
		h = h.nest(parent)

		switch l.XMLName.Local {
		case "layer":
			src, err := l.tileSource()
			if err != nil {
				return nil, fmt.Errorf("layer %q: %w", l.Name, err)
			}
			out = append(out, &TileLayer{LayerHeader: h, Source: src})
		case "imagelayer":
			img := ""
			if l.Image != nil {
				img = l.Image.Source
			}
			out = append(out, &ImageLayer{LayerHeader: h, Image: img, RepeatX: l.RepeatX == 1})
		case "objectgroup":
			og := &ObjectGroup{LayerHeader: h, Objects: make([]ObjectDef, 0, len(l.Objects))}
			for _, o := range l.Objects {
				typ := o.Type
				if typ == "" {
					typ = o.Class
				}
				og.Objects = append(og.Objects, ObjectDef{
					ID:         o.ID,
					Name:       o.Name,
					Type:       typ,
					Position:   Vec{o.X, o.Y},
					Size:       Vec{o.Width, o.Height},
					Properties: newPropertiesFromList(o.Properties),
				})
			}
			out = append(out, og)
		case "group":
			children, err := buildTMXLayers(l.Layers, &h)
			if err != nil {
				return nil, err
			}
			out = append(out, children...)
		}
		// anything else (editorsettings etc) is not a layer
	}

	return out, nil
}

// tileSource decodes the tile data of a <layer>
func (l *tmxLayer) tileSource() (TileSource, error) {
	if l.Data == nil {
		return nil, fmt.Errorf("%w: layer without data", ErrInvalidMap)
	}
	d := l.Data

	if len(d.Chunks) > 0 {
		chunks := make(Chunks, 0, len(d.Chunks))
		for _, c := range d.Chunks {
			gids, err := tmxCells(d.Encoding, d.Compression, c.RawData, c.Tiles)
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, Chunk{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height, Data: gids})
		}
		return chunks, nil
	}

	gids, err := tmxCells(d.Encoding, d.Compression, d.RawData, d.Tiles)
	if err != nil {
		return nil, err
	}
	return &Grid{Width: l.Width, Height: l.Height, Data: gids}, nil
}

// tmxCells decodes cells given as encoded text or as <tile> elements
func tmxCells(encoding, compression string, raw []byte, tiles []tmxTileRef) ([]uint32, error) {
	if encoding != "" {
		return decodeData(encoding, compression, raw)
	}
	gids := make([]uint32, len(tiles))
	for i, t := range tiles {
		gids[i] = t.GID
	}
	return gids, nil
}
