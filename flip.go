package lazyjumper

// GID flag bits, same as the Tiled map format.
const (
	FlipHorizontal uint32 = 1 << 31
	FlipVertical   uint32 = 1 << 30
	FlipDiagonal   uint32 = 1 << 29

	// rotateHex is only meaningful on hexagonal maps; we drop it.
	rotateHex uint32 = 1 << 28

	flagMask = FlipHorizontal | FlipVertical | FlipDiagonal | rotateHex
)

// SplitGID separates a raw gid into the tile id and its flip flags.
func SplitGID(raw uint32) (gid, flags uint32) {
	return raw &^ flagMask, raw & (FlipHorizontal | FlipVertical | FlipDiagonal)
}

// flipSource maps a pixel of a flipped tile (of size w x h after flipping)
// back to the pixel of the unflipped tile. Tiled applies the diagonal flip
// first, then horizontal, then vertical; undoing them runs backwards.
func flipSource(x, y, w, h int, flags uint32) (int, int) {
	if flags&FlipVertical != 0 {
		y = h - 1 - y
	}
	if flags&FlipHorizontal != 0 {
		x = w - 1 - x
	}
	if flags&FlipDiagonal != 0 {
		x, y = y, x
	}
	return x, y
}
