package lazyjumper

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	sqlUpdateTiles = `INSERT INTO tiles (id, layer, x, y, gid) VALUES (:id, :layer, :x, :y, :gid) ON CONFLICT (id) DO UPDATE SET gid=EXCLUDED.gid;`
	sqlGetTiles    = `SELECT layer, x, y, gid FROM tiles WHERE layer=? ORDER BY y, x;`
	sqlGetLayers   = `SELECT DISTINCT layer FROM tiles ORDER BY layer;`
)

// Store holds the tiles of any number of layers on disk, by world tile
// coordinate, without a size limit. Tiles are read back as chunks so a
// stored layer can be swapped into a map as an infinite layer.
type Store struct {
	filename string
	db       *sqlx.DB
}

// NewStore creates a store with a random name in the os tempdir.
func NewStore() (*Store, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	fname := filepath.Join(os.TempDir(), fmt.Sprintf("chunks.%d.sqlite", rng.Intn(1000000)))
	return OpenStore(fname)
}

// OpenStore given it's filename (database file) on disk.
// Will create if it doesn't exist.
func OpenStore(fname string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", fname)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, filename: fname}
	return s, s.init()
}

// Filename returns the path to the store on disk
func (s *Store) Filename() string {
	return s.filename
}

// Close the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Import writes every non-empty tile of every tile layer of `m`, keyed by
// layer name & world tile coordinate. Existing tiles at the same place are
// overwritten.
func (s *Store) Import(m *Map) error {
	rows := []dbTile{}
	for _, tl := range m.TileLayers() {
		name := tl.Name
		tl.Source.Each(func(x, y int, gid uint32) {
			if gid == 0 {
				return // nil tile
			}
			rows = append(rows, newDBTile(name, x, y, gid))
		})
	}

	txn, err := s.db.Beginx()
	if err != nil {
		return err
	}

	stmt, err := txn.PrepareNamed(sqlUpdateTiles)
	if err != nil {
		txn.Rollback()
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err = stmt.Exec(row)
		if err != nil {
			txn.Rollback()
			return err
		}
	}

	return txn.Commit()
}

// Layers returns the names of every layer with stored tiles
func (s *Store) Layers() ([]string, error) {
	names := []string{}
	return names, s.db.Select(&names, sqlGetLayers)
}

// Chunks returns the stored tiles of `layer` as size x size chunks aligned
// to multiples of size. Only chunks holding at least one tile are returned,
// sorted top to bottom, left to right.
func (s *Store) Chunks(layer string, size int) (Chunks, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid chunk size %d", size)
	}

	tiles := []dbTile{}
	if err := s.db.Select(&tiles, sqlGetTiles, layer); err != nil {
		return nil, err
	}

	type key struct{ x, y int }
	byKey := map[key]*Chunk{}
	for _, t := range tiles {
		k := key{floorDiv(t.X, size), floorDiv(t.Y, size)}
		c, ok := byKey[k]
		if !ok {
			c = &Chunk{X: k.x * size, Y: k.y * size, Width: size, Height: size, Data: make([]uint32, size*size)}
			byKey[k] = c
		}
		// index = y * width + x, within the chunk
		c.Data[(t.Y-c.Y)*size+(t.X-c.X)] = uint32(t.GID)
	}

	out := make(Chunks, 0, len(byKey))
	for _, c := range byKey {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out, nil
}

// Apply swaps the tile data of every tile layer in `m` with a stored layer
// of the same name for the stored chunks. The map becomes infinite if any
// layer was swapped.
func (s *Store) Apply(m *Map, size int) error {
	names, err := s.Layers()
	if err != nil {
		return err
	}
	stored := map[string]bool{}
	for _, n := range names {
		stored[n] = true
	}

	for _, tl := range m.TileLayers() {
		if !stored[tl.Name] {
			continue
		}
		chunks, err := s.Chunks(tl.Name, size)
		if err != nil {
			return err
		}
		tl.Source = chunks
		m.Infinite = true
	}
	return nil
}

// init creates some DB tables for us if they don't exist
func (s *Store) init() error {
	createTiles := `CREATE TABLE IF NOT EXISTS tiles(
		id TEXT PRIMARY KEY,
		layer TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		gid INTEGER NOT NULL
	    );`
	_, err := s.db.Exec(createTiles)
	if err != nil {
		return err
	}

	createIndex := `CREATE INDEX IF NOT EXISTS tiles_layer ON tiles(layer);`
	_, err = s.db.Exec(createIndex)
	return err
}

// dbTile object encodes a single tile.
// The ID here is used to insert/update on a unique tile by it's
// (layer,x,y) with a more straight forward query.
type dbTile struct {
	ID    string `db:"id"`
	Layer string `db:"layer"`
	X     int    `db:"x"`
	Y     int    `db:"y"`
	GID   int64  `db:"gid"`
}

// newDBTile crafts a dbTile struct given it's inputs
func newDBTile(layer string, x, y int, gid uint32) dbTile {
	return dbTile{
		ID:    fmt.Sprintf("%s/%d/%d", layer, x, y),
		Layer: layer,
		X:     x,
		Y:     y,
		GID:   int64(gid),
	}
}

// floorDiv divides rounding towards negative infinity so negative tiles
// land in the chunk left of / above the origin
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
