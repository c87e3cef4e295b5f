package lazyjumper

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeTexture stands in for a GPU texture
type fakeTexture struct {
	name string
	w, h int
}

func (t *fakeTexture) Bounds() image.Rectangle { return image.Rect(0, 0, t.w, t.h) }

// fakeLoader hands out fakeTextures and counts loads / unloads per path
type fakeLoader struct {
	size    image.Point
	missing map[string]bool
	loads   map[string]int
	unloads map[string]int
	byTex   map[*fakeTexture]string
}

func newFakeLoader(w, h int, missing ...string) *fakeLoader {
	l := &fakeLoader{
		size:    image.Pt(w, h),
		missing: map[string]bool{},
		loads:   map[string]int{},
		unloads: map[string]int{},
		byTex:   map[*fakeTexture]string{},
	}
	for _, m := range missing {
		l.missing[m] = true
	}
	return l
}

func (l *fakeLoader) LoadTexture(path string) (Texture, error) {
	if l.missing[path] {
		return nil, errors.New("no such file")
	}
	l.loads[path]++
	t := &fakeTexture{name: path, w: l.size.X, h: l.size.Y}
	l.byTex[t] = path
	return t, nil
}

func (l *fakeLoader) SubTexture(t Texture, r image.Rectangle) Texture {
	ft := t.(*fakeTexture)
	return &fakeTexture{name: fmt.Sprintf("%s@%d,%d", ft.name, r.Min.X, r.Min.Y), w: r.Dx(), h: r.Dy()}
}

func (l *fakeLoader) UnloadTexture(t Texture) {
	l.unloads[l.byTex[t.(*fakeTexture)]]++
}

// quietLogger discards output
func quietLogger() *log.Logger {
	return log.New(ioutil.Discard, "", 0)
}

// tilesetOf returns a collection tileset with one image per tile, named
// "<prefix><local id>.png"
func tilesetOf(name string, first uint32, count int) *Tileset {
	ts := &Tileset{FirstGID: first, Name: name, TileWidth: 16, TileHeight: 16}
	for i := 1; i <= count; i++ {
		ts.Tiles = append(ts.Tiles, TileDef{ID: uint32(i), Image: fmt.Sprintf("%s%d.png", name, i)})
	}
	return ts
}

// compositorFor builds atlas & compositor for an in memory map
func compositorFor(t *testing.T, m *Map) (*Compositor, *fakeLoader) {
	require.NoError(t, m.Validate())
	loader := newFakeLoader(m.TileWidth, m.TileHeight)
	atlas := BuildAtlas(m, NewTextureCache(loader), quietLogger())
	return &Compositor{Map: m, Atlas: atlas, Backdrops: map[*ImageLayer]Texture{}}, loader
}

// blits returns only the Blit commands
func blits(cmds []DrawCommand) []Blit {
	out := []Blit{}
	for _, c := range cmds {
		if b, ok := c.(Blit); ok {
			out = append(out, b)
		}
	}
	return out
}

// texName is the fake texture name behind a blit
func texName(b Blit) string {
	return b.Texture.(*fakeTexture).name
}

// writePNG writes a solid w x h image to dir/name
func writePNG(t *testing.T, dir, name string, w, h int, col color.Color) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, col)
		}
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}
