package lazyjumper

import "log"

// Session is a loaded map ready to draw: the map, its atlas, image layer
// textures & extracted objects. Everything is built before the first frame
// and released together by Close.
type Session struct {
	Map     *Map
	Atlas   *Atlas
	Objects []MapObject

	cache      *TextureCache
	compositor *Compositor
	backdrops  map[*ImageLayer]string
	closed     bool
}

// Load opens the map file `fname` and builds a session from it. Failing to
// read or validate the map is fatal; failing to load an image isn't.
func Load(fname string, cfg *Config, loader TextureLoader, logger *log.Logger) (*Session, error) {
	m, err := Open(fname)
	if err != nil {
		return nil, err
	}

	if cfg != nil && cfg.Store != "" {
		store, err := OpenStore(cfg.Store)
		if err != nil {
			return nil, err
		}
		defer store.Close()

		if err := store.Apply(m, cfg.ChunkSize); err != nil {
			return nil, err
		}
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}

	return NewSession(m, cfg, loader, logger)
}

// NewSession builds a session for an already validated map
func NewSession(m *Map, cfg *Config, loader TextureLoader, logger *log.Logger) (*Session, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = log.Default()
	}

	colors, err := cfg.ObjectColors()
	if err != nil {
		return nil, err
	}

	cache := NewTextureCache(loader)
	s := &Session{
		Map:       m,
		Atlas:     BuildAtlas(m, cache, logger),
		Objects:   ExtractObjects(m, colors),
		cache:     cache,
		backdrops: map[*ImageLayer]string{},
	}

	textures := map[*ImageLayer]Texture{}
	for _, l := range m.Layers {
		il, ok := l.(*ImageLayer)
		if !ok || il.Image == "" {
			continue
		}
		path := relativeTo(m.Dir, il.Image)
		tex, err := cache.Acquire(path)
		if err != nil {
			logger.Printf("image layer %q: %v", il.Name, err)
			continue
		}
		textures[il] = tex
		s.backdrops[il] = path
	}

	logger.Printf(
		"loaded map %dx%d (infinite: %v): %d layers, %d tiles in atlas, %d objects",
		m.Width, m.Height, m.Infinite, len(m.Layers), s.Atlas.Len(), len(s.Objects),
	)

	s.compositor = &Compositor{Map: m, Atlas: s.Atlas, Backdrops: textures, Objects: s.Objects}
	return s, nil
}

// Compose returns the draw commands for one frame
func (s *Session) Compose(cam Camera) []DrawCommand {
	return s.compositor.Compose(cam)
}

// AppendCommands is Compose into a reusable buffer
func (s *Session) AppendCommands(dst []DrawCommand, cam Camera) []DrawCommand {
	return s.compositor.AppendCommands(dst, cam)
}

// Close releases every texture the session holds. Only the first call does
// anything; the session must not be drawn afterwards.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true

	s.Atlas.Close()
	for _, path := range s.backdrops {
		s.cache.Release(path)
	}
	s.backdrops = nil
	s.compositor.Backdrops = nil
}
