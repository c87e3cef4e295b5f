package lazyjumper

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtlasGIDs(t *testing.T) {
	sets := []*Tileset{tilesetOf("a", 1, 3), tilesetOf("b", 10, 4)}
	m := &Map{TileWidth: 16, TileHeight: 16, Tilesets: sets}
	require.NoError(t, m.Validate())

	a := BuildAtlas(m, NewTextureCache(newFakeLoader(16, 16)), quietLogger())
	assert.Equal(t, 7, a.Len())

	for _, ts := range sets {
		for g := ts.FirstGID; g <= ts.LastGID(); g++ {
			tex, ok := a.Lookup(g)
			require.True(t, ok, "gid %d", g)
			want := fmt.Sprintf("%s%d.png", ts.Name, g-ts.FirstGID+1)
			assert.Equal(t, want, tex.(*fakeTexture).name)
		}
	}

	for _, g := range []uint32{0, 4, 9, 14, 1000} {
		_, ok := a.Lookup(g)
		assert.False(t, ok, "gid %d", g)
	}

	// flip flags don't change the texture
	tex, ok := a.Lookup(11 | FlipVertical)
	require.True(t, ok)
	assert.Equal(t, "b2.png", tex.(*fakeTexture).name)
}

func TestAtlasMissingImage(t *testing.T) {
	m := &Map{TileWidth: 16, TileHeight: 16, Tilesets: []*Tileset{tilesetOf("a", 1, 3)}}
	loader := newFakeLoader(16, 16, "a2.png")

	a := BuildAtlas(m, NewTextureCache(loader), quietLogger())

	assert.Equal(t, 2, a.Len())
	_, ok := a.Lookup(2)
	assert.False(t, ok)
	_, ok = a.Lookup(3)
	assert.True(t, ok)
}

func TestAtlasPaths(t *testing.T) {
	abs := filepath.Join(os.TempDir(), "tiles", "a.png")
	ts := &Tileset{FirstGID: 1, Name: "t", Tiles: []TileDef{
		{ID: 1, Image: abs},
		{ID: 2, Image: filepath.Join("tiles", "b.png")},
	}}
	m := &Map{TileWidth: 16, TileHeight: 16, Dir: "maps", Tilesets: []*Tileset{ts}}
	loader := newFakeLoader(16, 16)

	a := BuildAtlas(m, NewTextureCache(loader), quietLogger())
	assert.Equal(t, 2, a.Len())

	// absolute paths are used as they are, relative ones are under the map
	assert.Equal(t, map[string]int{
		abs:                                     1,
		filepath.Join("maps", "tiles", "b.png"): 1,
	}, loader.loads)

	tex, ok := a.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, abs, tex.(*fakeTexture).name)
}

func TestAtlasSpritesheet(t *testing.T) {
	tiles, err := sheetTiles("sheet.png", 64, 32, 16, 16, 0, 0, 4, 8)
	require.NoError(t, err)
	ts := &Tileset{FirstGID: 5, Name: "sheet", Tiles: tiles}
	m := &Map{TileWidth: 16, TileHeight: 16, Tilesets: []*Tileset{ts}}
	loader := newFakeLoader(64, 32)
	cache := NewTextureCache(loader)

	a := BuildAtlas(m, cache, quietLogger())

	assert.Equal(t, 8, a.Len())
	assert.Equal(t, 1, loader.loads["sheet.png"])

	tex, ok := a.Lookup(5)
	require.True(t, ok)
	assert.Equal(t, "sheet.png@0,0", tex.(*fakeTexture).name)

	// 6th tile: column 1, row 1
	tex, ok = a.Lookup(10)
	require.True(t, ok)
	assert.Equal(t, "sheet.png@16,16", tex.(*fakeTexture).name)
	assert.Equal(t, image.Rect(0, 0, 16, 16), tex.Bounds())

	a.Close()
	assert.Equal(t, 1, loader.unloads["sheet.png"])
	assert.Equal(t, 0, cache.Len())
}

func TestAtlasCloseReleasesOnce(t *testing.T) {
	a1 := tilesetOf("a", 1, 2)
	// two tiles sharing one image
	a1.Tiles = append(a1.Tiles, TileDef{ID: 3, Image: "a1.png"})
	m := &Map{TileWidth: 16, TileHeight: 16, Tilesets: []*Tileset{a1}}
	loader := newFakeLoader(16, 16)
	cache := NewTextureCache(loader)

	a := BuildAtlas(m, cache, quietLogger())
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, map[string]int{"a1.png": 1, "a2.png": 1}, loader.loads)

	a.Close()
	a.Close()

	assert.Equal(t, map[string]int{"a1.png": 1, "a2.png": 1}, loader.unloads)
	assert.Equal(t, 0, a.Len())
	_, ok := a.Lookup(1)
	assert.False(t, ok)
}

func TestTextureCacheRefcount(t *testing.T) {
	loader := newFakeLoader(8, 8)
	c := NewTextureCache(loader)

	t1, err := c.Acquire("x.png")
	require.NoError(t, err)
	t2, err := c.Acquire("x.png")
	require.NoError(t, err)
	assert.True(t, t1 == t2)
	assert.Equal(t, 1, loader.loads["x.png"])

	c.Release("x.png")
	assert.Equal(t, 0, loader.unloads["x.png"])
	c.Release("x.png")
	assert.Equal(t, 1, loader.unloads["x.png"])
	c.Release("x.png")
	assert.Equal(t, 1, loader.unloads["x.png"])
}
