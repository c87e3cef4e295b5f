package lazyjumper

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io/ioutil"
)

// Texture is a renderable image handle. Both image.Image and *ebiten.Image
// satisfy it.
type Texture interface {
	Bounds() image.Rectangle
}

// TextureLoader turns image paths into textures and back.
type TextureLoader interface {
	// LoadTexture acquires a texture for the image at path
	LoadTexture(path string) (Texture, error)

	// SubTexture returns the part of t inside r. Sub textures share t's
	// resources and are never unloaded by themselves.
	SubTexture(t Texture, r image.Rectangle) Texture

	// UnloadTexture releases a texture returned by LoadTexture
	UnloadTexture(t Texture)
}

// ImageLoader loads textures as decoded image.Image from disk.
type ImageLoader struct{}

// LoadTexture implements TextureLoader
func (ImageLoader) LoadTexture(path string) (Texture, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// SubTexture implements TextureLoader
func (ImageLoader) SubTexture(t Texture, r image.Rectangle) Texture {
	if si, ok := t.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return si.SubImage(r)
	}
	return t
}

// UnloadTexture implements TextureLoader. Decoded images are left to the
// garbage collector.
func (ImageLoader) UnloadTexture(Texture) {}

// TextureCache hands out one texture per resolved path, counting owners so
// the underlying texture is unloaded exactly once.
type TextureCache struct {
	loader TextureLoader
	byPath map[string]*cachedTexture
}

type cachedTexture struct {
	tex  Texture
	refs int
}

// NewTextureCache returns an empty cache loading through `loader`
func NewTextureCache(loader TextureLoader) *TextureCache {
	return &TextureCache{loader: loader, byPath: map[string]*cachedTexture{}}
}

// Acquire returns the texture for path, loading it on first use.
// Every successful Acquire must be paired with a Release.
func (c *TextureCache) Acquire(path string) (Texture, error) {
	if ct, ok := c.byPath[path]; ok {
		ct.refs++
		return ct.tex, nil
	}

	tex, err := c.loader.LoadTexture(path)
	if err != nil {
		return nil, err
	}
	c.byPath[path] = &cachedTexture{tex: tex, refs: 1}
	return tex, nil
}

// Release drops one reference to path, unloading the texture with the last.
func (c *TextureCache) Release(path string) {
	ct, ok := c.byPath[path]
	if !ok {
		return
	}
	ct.refs--
	if ct.refs > 0 {
		return
	}
	delete(c.byPath, path)
	c.loader.UnloadTexture(ct.tex)
}

// Sub returns a region of a texture via the loader
func (c *TextureCache) Sub(t Texture, r image.Rectangle) Texture {
	return c.loader.SubTexture(t, r)
}

// Len is the number of textures currently held
func (c *TextureCache) Len() int {
	return len(c.byPath)
}
