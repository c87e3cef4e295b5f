/* this file holds the structs for reading Tiled's JSON map format (.tmj / .json).

The JSON format carries the same information as TMX, so everything is funnelled
into the same builders as the XML structs where it can be.
*/
package lazyjumper

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type tmjMap struct {
	Orientation string         `json:"orientation"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	TileWidth   int            `json:"tilewidth"`
	TileHeight  int            `json:"tileheight"`
	Infinite    bool           `json:"infinite"`
	Properties  []*tmjProperty `json:"properties"`
	Tilesets    []*tmjTileset  `json:"tilesets"`
	Layers      []*tmjLayer    `json:"layers"`
}

type tmjProperty struct {
	Name  string      `json:"name"`
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

type tmjTileset struct {
	FirstGID    uint32         `json:"firstgid"`
	Source      string         `json:"source"`
	Name        string         `json:"name"`
	TileWidth   int            `json:"tilewidth"`
	TileHeight  int            `json:"tileheight"`
	Spacing     int            `json:"spacing"`
	Margin      int            `json:"margin"`
	TileCount   int            `json:"tilecount"`
	Columns     int            `json:"columns"`
	Image       string         `json:"image"`
	ImageWidth  int            `json:"imagewidth"`
	ImageHeight int            `json:"imageheight"`
	Properties  []*tmjProperty `json:"properties"`
	Tiles       []*tmjTile     `json:"tiles"`
}

type tmjTile struct {
	ID          uint32         `json:"id"`
	Image       string         `json:"image"`
	ImageWidth  int            `json:"imagewidth"`
	ImageHeight int            `json:"imageheight"`
	Properties  []*tmjProperty `json:"properties"`
}

type tmjLayer struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"` // tilelayer, imagelayer, objectgroup, group
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	OffsetX     float64         `json:"offsetx"`
	OffsetY     float64         `json:"offsety"`
	ParallaxX   *float64        `json:"parallaxx"`
	ParallaxY   *float64        `json:"parallaxy"`
	Visible     *bool           `json:"visible"`
	Encoding    string          `json:"encoding"`
	Compression string          `json:"compression"`
	Data        json.RawMessage `json:"data"`
	Chunks      []*tmjChunk     `json:"chunks"`
	Image       string          `json:"image"`
	RepeatX     bool            `json:"repeatx"`
	Objects     []*tmjObject    `json:"objects"`
	Layers      []*tmjLayer     `json:"layers"`
	Properties  []*tmjProperty  `json:"properties"`
}

type tmjChunk struct {
	X      int             `json:"x"`
	Y      int             `json:"y"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Data   json.RawMessage `json:"data"`
}

type tmjObject struct {
	ID         int            `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Class      string         `json:"class"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Width      float64        `json:"width"`
	Height     float64        `json:"height"`
	Properties []*tmjProperty `json:"properties"`
}

// decodeTMJ reads a JSON map
func decodeTMJ(r io.Reader, dir string) (*Map, error) {
	raw := &tmjMap{}
	if err := json.NewDecoder(r).Decode(raw); err != nil {
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
		Infinite:   raw.Infinite,
		Tilesets:   []*Tileset{},
		Properties: newPropertiesFromList(tmjProperties(raw.Properties)),
	}

	for _, ts := range raw.Tilesets {
		tileset, err := ts.toTMX().build(dir)
		if err != nil {
			return nil, err
		}
		m.Tilesets = append(m.Tilesets, tileset)
	}

	layers, err := buildTMJLayers(raw.Layers, nil)
	if err != nil {
		return nil, err
	}
	m.Layers = layers

	return m, nil
}

// loadTileset reads an external tileset in either format
func loadTileset(dir, source string) (*tmxTileset, error) {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json", ".tsj":
		f, err := os.Open(relativeTo(dir, source))
		if err != nil {
			return nil, err
		}
		defer f.Close()

		ts := &tmjTileset{}
		if err := json.NewDecoder(f).Decode(ts); err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		return ts.toTMX(), nil
	}
	return openTSX(dir, source)
}

// toTMX maps a JSON tileset onto the XML struct so both share one builder
func (ts *tmjTileset) toTMX() *tmxTileset {
	out := &tmxTileset{
		FirstGID:   ts.FirstGID,
		Source:     ts.Source,
		Name:       ts.Name,
		TileWidth:  ts.TileWidth,
		TileHeight: ts.TileHeight,
		Spacing:    ts.Spacing,
		Margin:     ts.Margin,
		TileCount:  ts.TileCount,
		Columns:    ts.Columns,
		Properties: tmjProperties(ts.Properties),
	}
	if ts.Image != "" {
		out.Image = &Image{Source: ts.Image, Width: ts.ImageWidth, Height: ts.ImageHeight}
	}
	for _, t := range ts.Tiles {
		tile := &tmxTile{ID: t.ID, Properties: tmjProperties(t.Properties)}
		if t.Image != "" {
			tile.Image = &Image{Source: t.Image, Width: t.ImageWidth, Height: t.ImageHeight}
		}
		out.Tiles = append(out.Tiles, tile)
	}
	return out
}

// tmjProperties flattens JSON property values to the strings TMX uses
func tmjProperties(in []*tmjProperty) []*Property {
	out := make([]*Property, 0, len(in))
	for _, p := range in {
		out = append(out, &Property{Name: p.Name, Type: p.Type, Value: fmt.Sprint(p.Value)})
	}
	return out
}

// buildTMJLayers converts raw JSON layers (recursing into groups) into our layers
func buildTMJLayers(in []*tmjLayer, parent *LayerHeader) ([]Layer, error) {
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
			h.Visible = *l.Visible
		}
		h.Properties = newPropertiesFromList(tmjProperties(l.Properties))
		h = h.nest(parent)

		switch l.Type {
		case "tilelayer":
			src, err := l.tileSource()
			if err != nil {
				return nil, fmt.Errorf("layer %q: %w", l.Name, err)
			}
			out = append(out, &TileLayer{LayerHeader: h, Source: src})
		case "imagelayer":
			out = append(out, &ImageLayer{LayerHeader: h, Image: l.Image, RepeatX: l.RepeatX})
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
					Properties: newPropertiesFromList(tmjProperties(o.Properties)),
				})
			}
			out = append(out, og)
		case "group":
			children, err := buildTMJLayers(l.Layers, &h)
			if err != nil {
				return nil, err
			}
			out = append(out, children...)
		default:
			return nil, fmt.Errorf("%w: layer type %q", ErrUnsupported, l.Type)
		}
	}

	return out, nil
}

// tileSource decodes the data of a JSON tile layer
func (l *tmjLayer) tileSource() (TileSource, error) {
	if len(l.Chunks) > 0 {
		chunks := make(Chunks, 0, len(l.Chunks))
		for _, c := range l.Chunks {
			gids, err := tmjCells(l.Encoding, l.Compression, c.Data)
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, Chunk{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height, Data: gids})
		}
		return chunks, nil
	}

	gids, err := tmjCells(l.Encoding, l.Compression, l.Data)
	if err != nil {
		return nil, err
	}
	return &Grid{Width: l.Width, Height: l.Height, Data: gids}, nil
}

// tmjCells decodes JSON tile data, either an array of gids or a base64 string
func tmjCells(encoding, compression string, raw json.RawMessage) ([]uint32, error) {
	if len(raw) == 0 {
		return []uint32{}, nil
	}

	if encoding == EncodingBase64 {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return decodeBase64([]byte(s), compression)
	}

	gids := []uint32{}
	if err := json.Unmarshal(raw, &gids); err != nil {
		return nil, err
	}
	return gids, nil
}
