package lazyjumper

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tmxFinite = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="3" height="2" tilewidth="16" tileheight="16" infinite="0">
 <properties>
  <property name="title" value="level one"/>
  <property name="gravity" type="float" value="9.8"/>
 </properties>
 <tileset firstgid="1" name="blocks" tilewidth="16" tileheight="16" tilecount="2" columns="0">
  <tile id="0"><image width="16" height="16" source="tiles/grass.png"/></tile>
  <tile id="1"><image width="16" height="16" source="tiles/dirt.png"/></tile>
 </tileset>
 <tileset firstgid="3" name="sheet" tilewidth="16" tileheight="16" spacing="0" margin="0" tilecount="4" columns="2">
  <image source="sheet.png" width="32" height="32"/>
 </tileset>
 <imagelayer id="4" name="sky" parallaxx="0.25" parallaxy="0.5" repeatx="1">
  <image source="backgrounds/sky.png" width="320" height="180"/>
 </imagelayer>
 <layer id="1" name="ground" width="3" height="2" offsetx="4" offsety="-8">
  <properties>
   <property name="solid" type="bool" value="true"/>
  </properties>
  <data encoding="csv">
1,0,2,
3,6,0
</data>
 </layer>
 <objectgroup id="2" name="triggers" offsetx="100" parallaxx="0.1">
  <object id="1" name="spawn" type="start" x="10" y="20" width="32" height="48">
   <properties>
    <property name="lives" type="int" value="3"/>
   </properties>
  </object>
  <object id="2" name="exit" class="door" x="40.5" y="8" width="16" height="16"/>
 </objectgroup>
 <group id="5" name="deco" offsetx="10" offsety="10" parallaxx="0.5">
  <layer id="6" name="flowers" width="3" height="2" offsetx="1" parallaxx="0.5" visible="0">
   <data encoding="csv">0,0,0,0,0,1</data>
  </layer>
 </group>
</map>
`

const tmxInfinite = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" width="30" height="20" tilewidth="32" tileheight="32" infinite="1">
 <tileset firstgid="1" name="blocks" tilewidth="32" tileheight="32" tilecount="6" columns="0">
  <tile id="4"><image width="32" height="32" source="five.png"/></tile>
  <tile id="5"><image width="32" height="32" source="six.png"/></tile>
 </tileset>
 <layer id="1" name="ground" width="30" height="20">
  <data encoding="csv">
   <chunk x="-16" y="-16" width="2" height="2">
5,0,
0,6
</chunk>
   <chunk x="0" y="0" width="2" height="1">
0,5
</chunk>
  </data>
 </layer>
</map>
`

func TestDecodeTMX(t *testing.T) {
	m, err := Decode(strings.NewReader(tmxFinite), FormatTMX, "maps")
	require.NoError(t, err)

	assert.Equal(t, 3, m.Width)
	assert.Equal(t, 2, m.Height)
	assert.Equal(t, 16, m.TileWidth)
	assert.Equal(t, 16, m.TileHeight)
	assert.False(t, m.Infinite)
	assert.Equal(t, "maps", m.Dir)

	title, _ := m.Properties.String("title")
	assert.Equal(t, "level one", title)
	g, _ := m.Properties.Float("gravity")
	assert.Equal(t, 9.8, g)

	require.Len(t, m.Tilesets, 2)
	assert.Equal(t, []TileDef{{ID: 1, Image: "tiles/grass.png"}, {ID: 2, Image: "tiles/dirt.png"}}, m.Tilesets[0].Tiles)
	assert.Equal(t, uint32(2), m.Tilesets[0].LastGID())
	assert.Len(t, m.Tilesets[1].Tiles, 4)
	assert.Equal(t, uint32(6), m.Tilesets[1].LastGID())

	// document order, group flattened
	require.Len(t, m.Layers, 4)

	sky, ok := m.Layers[0].(*ImageLayer)
	require.True(t, ok)
	assert.Equal(t, "backgrounds/sky.png", sky.Image)
	assert.True(t, sky.RepeatX)
	assert.Equal(t, Vec{0.25, 0.5}, sky.Parallax)

	ground, ok := m.Layers[1].(*TileLayer)
	require.True(t, ok)
	assert.Equal(t, Vec{4, -8}, ground.Offset)
	assert.Equal(t, Vec{1, 1}, ground.Parallax)
	assert.True(t, ground.Visible)
	assert.Equal(t, &Grid{Width: 3, Height: 2, Data: []uint32{1, 0, 2, 3, 6, 0}}, ground.Source)
	solid, _ := ground.Properties.Bool("solid")
	assert.True(t, solid)

	triggers, ok := m.Layers[2].(*ObjectGroup)
	require.True(t, ok)
	require.Len(t, triggers.Objects, 2)
	assert.Equal(t, "spawn", triggers.Objects[0].Name)
	assert.Equal(t, "start", triggers.Objects[0].Type)
	assert.Equal(t, Vec{10, 20}, triggers.Objects[0].Position)
	assert.Equal(t, Vec{32, 48}, triggers.Objects[0].Size)
	lives, _ := triggers.Objects[0].Properties.Int("lives")
	assert.Equal(t, 3, lives)
	assert.Equal(t, "door", triggers.Objects[1].Type)

	flowers, ok := m.Layers[3].(*TileLayer)
	require.True(t, ok)
	assert.Equal(t, Vec{11, 10}, flowers.Offset)
	assert.Equal(t, Vec{0.25, 1}, flowers.Parallax)
	assert.False(t, flowers.Visible)
}

func TestDecodeTMXInfinite(t *testing.T) {
	m, err := Decode(strings.NewReader(tmxInfinite), FormatTMX, "")
	require.NoError(t, err)

	assert.True(t, m.Infinite)
	require.Len(t, m.Tilesets[0].Tiles, 2)
	assert.Equal(t, uint32(5), m.Tilesets[0].GID(m.Tilesets[0].Tiles[0]))

	ground := m.Layers[0].(*TileLayer)
	assert.Equal(t, Chunks{
		{X: -16, Y: -16, Width: 2, Height: 2, Data: []uint32{5, 0, 0, 6}},
		{X: 0, Y: 0, Width: 2, Height: 1, Data: []uint32{0, 5}},
	}, ground.Source)

	cells := [][3]int{}
	ground.Source.Each(func(x, y int, gid uint32) {
		if gid != 0 {
			cells = append(cells, [3]int{x, y, int(gid)})
		}
	})
	assert.Equal(t, [][3]int{{-16, -16, 5}, {-15, -15, 6}, {1, 0, 5}}, cells)
}

// encodeGIDs returns gids as base64 little-endian, optionally zlib compressed
func encodeGIDs(t *testing.T, gids []uint32, compress bool) string {
	raw := new(bytes.Buffer)
	for _, g := range gids {
		require.NoError(t, binary.Write(raw, binary.LittleEndian, g))
	}
	if !compress {
		return base64.StdEncoding.EncodeToString(raw.Bytes())
	}

	z := new(bytes.Buffer)
	w := zlib.NewWriter(z)
	_, err := w.Write(raw.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return base64.StdEncoding.EncodeToString(z.Bytes())
}

func TestDecodeTMXBase64(t *testing.T) {
	gids := []uint32{1, 0, 2, 1 | FlipHorizontal}

	for _, compression := range []string{"", "zlib"} {
		data := encodeGIDs(t, gids, compression == "zlib")
		doc := fmt.Sprintf(`<map orientation="orthogonal" width="2" height="2" tilewidth="8" tileheight="8">
 <layer id="1" name="a" width="2" height="2">
  <data encoding="base64" compression="%s">
   %s
  </data>
 </layer>
</map>`, compression, data)

		m, err := Decode(strings.NewReader(doc), FormatTMX, "")
		require.NoError(t, err, compression)
		assert.Equal(t, gids, m.Layers[0].(*TileLayer).Source.(*Grid).Data, compression)
	}
}

func TestDecodeTMXXMLTiles(t *testing.T) {
	doc := `<map width="2" height="1" tilewidth="8" tileheight="8">
 <layer id="1" name="a" width="2" height="1">
  <data><tile gid="3"/><tile/></data>
 </layer>
</map>`

	m, err := Decode(strings.NewReader(doc), FormatTMX, "")
	require.NoError(t, err)
	assert.Equal(t, []uint32{3, 0}, m.Layers[0].(*TileLayer).Source.(*Grid).Data)
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]struct {
		doc string
		err error
	}{
		"chunk length": {
			doc: `<map width="2" height="2" tilewidth="8" tileheight="8" infinite="1">
 <layer id="1" name="a"><data encoding="csv"><chunk x="0" y="0" width="2" height="2">1,2,3</chunk></data></layer>
</map>`,
			err: ErrDataLength,
		},
		"grid length": {
			doc: `<map width="2" height="2" tilewidth="8" tileheight="8">
 <layer id="1" name="a" width="2" height="2"><data encoding="csv">1,2,3</data></layer>
</map>`,
			err: ErrDataLength,
		},
		"tile size": {
			doc: `<map width="1" height="1" tilewidth="0" tileheight="8"></map>`,
			err: ErrInvalidMap,
		},
		"overlap": {
			doc: `<map width="1" height="1" tilewidth="8" tileheight="8">
 <tileset firstgid="1" name="a"><tile id="0"><image source="a.png"/></tile><tile id="4"><image source="b.png"/></tile></tileset>
 <tileset firstgid="3" name="b"><tile id="0"><image source="c.png"/></tile></tileset>
</map>`,
			err: ErrTilesetOverlap,
		},
		"encoding": {
			doc: `<map width="1" height="1" tilewidth="8" tileheight="8">
 <layer id="1" name="a" width="1" height="1"><data encoding="base64" compression="zstd">AAAA</data></layer>
</map>`,
			err: ErrUnsupported,
		},
		"orientation": {
			doc: `<map orientation="isometric" width="1" height="1" tilewidth="8" tileheight="8"></map>`,
			err: ErrUnsupported,
		},
	}

	for name, c := range cases {
		_, err := Decode(strings.NewReader(c.doc), FormatTMX, "")
		assert.True(t, errors.Is(err, c.err), "%s: %v", name, err)
	}

	_, err := Decode(strings.NewReader("<map"), FormatTMX, "")
	assert.Error(t, err)
}

func TestOpenExternalTileset(t *testing.T) {
	dir, err := ioutil.TempDir("", "lazyjumper")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	tsx := `<tileset name="ext" tilewidth="16" tileheight="16" tilecount="1" columns="0">
 <tile id="0"><image source="img/rock.png" width="16" height="16"/></tile>
</tileset>`
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sets"), 0755))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "sets", "ext.tsx"), []byte(tsx), 0644))

	tmx := `<map width="1" height="1" tilewidth="16" tileheight="16">
 <tileset firstgid="7" source="sets/ext.tsx"/>
 <layer id="1" name="a" width="1" height="1"><data encoding="csv">7</data></layer>
</map>`
	fname := filepath.Join(dir, "level.tmx")
	require.NoError(t, ioutil.WriteFile(fname, []byte(tmx), 0644))

	m, err := Open(fname)
	require.NoError(t, err)

	assert.Equal(t, dir, m.Dir)
	require.Len(t, m.Tilesets, 1)
	ts := m.Tilesets[0]
	assert.Equal(t, "ext", ts.Name)
	assert.Equal(t, uint32(7), ts.FirstGID)
	assert.Equal(t, []TileDef{{ID: 1, Image: filepath.Join("sets", "img", "rock.png")}}, ts.Tiles)

	_, err = Open(filepath.Join(dir, "nope.tmx"))
	assert.Error(t, err)
}

func TestSheetTiles(t *testing.T) {
	// 2px margin, 1px spacing, columns & count derived from the image
	tiles, err := sheetTiles("s.png", 2+8+1+8+2, 2+8+1+8+2, 8, 8, 1, 2, 0, 0)
	require.NoError(t, err)
	require.Len(t, tiles, 4)
	assert.Equal(t, uint32(4), tiles[3].ID)
	assert.Equal(t, 2, tiles[0].Region.Min.X)
	assert.Equal(t, 11, tiles[1].Region.Min.X)
	assert.Equal(t, 11, tiles[3].Region.Min.Y)
	assert.Equal(t, 8, tiles[3].Region.Dx())
}

func TestDecodeNarrowSpritesheet(t *testing.T) {
	doc := `<map orientation="orthogonal" width="1" height="1" tilewidth="16" tileheight="16">
 <tileset firstgid="1" name="narrow" tilewidth="16" tileheight="16" tilecount="4">
  <image source="n.png" width="8" height="64"/>
 </tileset>
</map>`

	var err error
	assert.NotPanics(t, func() {
		_, err = Decode(strings.NewReader(doc), FormatTMX, "")
	})
	assert.True(t, errors.Is(err, ErrInvalidMap), "%v", err)
	assert.Contains(t, err.Error(), "narrow")
}

func TestSheetTilesTooNarrow(t *testing.T) {
	_, err := sheetTiles("n.png", 8, 64, 16, 16, 0, 0, 0, 4)
	assert.True(t, errors.Is(err, ErrInvalidMap), "%v", err)

	// nothing to cut, nothing wrong
	tiles, err := sheetTiles("n.png", 8, 64, 16, 16, 0, 0, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, tiles)
}
