package lazyjumper

import (
	"fmt"
	"image/color"
	"io/ioutil"

	"github.com/go-yaml/yaml"
	"github.com/mazznoer/csscolorparser"
	"github.com/mitchellh/go-homedir"
)

// Config includes settings for a map session & the viewer
type Config struct {
	// in pixels
	ScreenWidth  int `yaml:"screen_width"`
	ScreenHeight int `yaml:"screen_height"`

	// in pixels per second
	CameraSpeed float64 `yaml:"camera_speed"`

	// ObjectColor is the debug color of object layers, any css color
	ObjectColor string `yaml:"object_color"`

	// LayerColors overrides ObjectColor per object layer name
	LayerColors map[string]string `yaml:"layer_colors"`

	// Store is an optional chunk store database whose tiles replace the
	// tile layers of the same name.
	Store string `yaml:"store"`

	// ChunkSize in tiles, used when reading tiles from Store
	ChunkSize int `yaml:"chunk_size"`
}

// DefaultConfig returns a config with default settings.
func DefaultConfig() *Config {
	return &Config{
		ScreenWidth:  1440,
		ScreenHeight: 960,
		CameraSpeed:  500,
		ObjectColor:  "red",
		LayerColors:  map[string]string{},
		ChunkSize:    16,
	}
}

// LoadConfig reads a yaml config file on top of the defaults
func LoadConfig(fname string) (*Config, error) {
	fname, err := homedir.Expand(fname)
	if err != nil {
		return nil, err
	}

	data, err := ioutil.ReadFile(fname)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	if cfg.LayerColors == nil {
		cfg.LayerColors = map[string]string{}
	}

	cfg.Store, err = homedir.Expand(cfg.Store)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// ObjectColors parses the configured colors
func (c *Config) ObjectColors() (ObjectColors, error) {
	oc := ObjectColors{Default: DefaultObjectColor, Layers: map[string]color.RGBA{}}

	if c.ObjectColor != "" {
		col, err := parseColor(c.ObjectColor)
		if err != nil {
			return oc, err
		}
		oc.Default = col
	}

	for layer, s := range c.LayerColors {
		col, err := parseColor(s)
		if err != nil {
			return oc, fmt.Errorf("layer %q: %w", layer, err)
		}
		oc.Layers[layer] = col
	}

	return oc, nil
}

// parseColor reads any css color as an opaque color
func parseColor(s string) (color.RGBA, error) {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b, _ := c.RGBA255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
