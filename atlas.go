package lazyjumper

import "log"

// Atlas maps global tile ids to textures. It's built once at load time and
// only read afterwards.
type Atlas struct {
	cache *TextureCache

	byGID map[uint32]Texture

	// paths we hold a reference to, released on Close
	paths []string
}

// BuildAtlas registers every tile of every tileset in `m` under
// gid = localID + firstGID - 1.
//
// Each unique image is loaded once; spritesheet tiles are sub textures of
// their sheet. An image that fails to load is logged and its tiles left
// out: lookups for them miss and the tiles are never drawn.
func BuildAtlas(m *Map, cache *TextureCache, logger *log.Logger) *Atlas {
	if logger == nil {
		logger = log.Default()
	}

	a := &Atlas{cache: cache, byGID: map[uint32]Texture{}, paths: []string{}}

	loaded := map[string]Texture{}
	failed := map[string]bool{}

	for _, ts := range m.Tilesets {
		for _, t := range ts.Tiles {
			path := relativeTo(m.Dir, t.Image)
			if failed[path] {
				continue
			}

			tex, ok := loaded[path]
			if !ok {
				var err error
				tex, err = cache.Acquire(path)
				if err != nil {
					logger.Printf("atlas: tileset %q tile %d: %v", ts.Name, t.ID, err)
					failed[path] = true
					continue
				}
				loaded[path] = tex
				a.paths = append(a.paths, path)
			}

			if !t.Region.Empty() {
				tex = cache.Sub(tex, t.Region)
			}
			a.byGID[ts.GID(t)] = tex
		}
	}

	return a
}

// Lookup returns the texture of a gid. Flip flags are ignored.
func (a *Atlas) Lookup(gid uint32) (Texture, bool) {
	id, _ := SplitGID(gid)
	t, ok := a.byGID[id]
	return t, ok
}

// Len is the number of registered gids
func (a *Atlas) Len() int {
	return len(a.byGID)
}

// Close releases every texture the atlas loaded. Safe to call twice.
func (a *Atlas) Close() {
	for _, p := range a.paths {
		a.cache.Release(p)
	}
	a.paths = nil
	a.byGID = map[uint32]Texture{}
}
