package lazyjumper

// Layer is one entry in a map's render order. It is implemented by exactly
// *TileLayer, *ImageLayer and *ObjectGroup.
type Layer interface {
	// Header returns the fields shared by every kind of layer
	Header() *LayerHeader

	// layer seals the interface to this package
	layer()
}

// TileSource is the storage behind a tile layer, either a finite *Grid or
// infinite Chunks.
type TileSource interface {
	// Each calls fn for every cell in storage order (row-major, chunk by
	// chunk) with world tile coordinates and the raw gid, flags included.
	// Empty cells (gid 0) are passed through; callers decide what to skip.
	Each(fn func(x, y int, gid uint32))

	// Len is the number of cells Each visits
	Len() int
}
