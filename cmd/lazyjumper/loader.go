package main

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/davidkennedy02/lazyjumper"

	"github.com/hajimehoshi/ebiten/v2"
)

// gpuLoader uploads map images as ebiten images.
type gpuLoader struct{}

func (gpuLoader) LoadTexture(path string) (lazyjumper.Texture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	im, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ebiten.NewImageFromImage(im), nil
}

func (gpuLoader) SubTexture(t lazyjumper.Texture, r image.Rectangle) lazyjumper.Texture {
	return t.(*ebiten.Image).SubImage(r).(*ebiten.Image)
}

func (gpuLoader) UnloadTexture(t lazyjumper.Texture) {
	t.(*ebiten.Image).Deallocate()
}
