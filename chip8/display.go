package chip8

import "strings"

const (
	/// Width of the CHIP-8 display in pixels.
	///
	Width = 64

	/// Height of the CHIP-8 display in pixels.
	///
	Height = 32
)

/// Display is written to by CLS and DRW. Coordinates are always within
/// Width x Height when called from the VM.
///
type Display interface {
	Get(x, y int) bool
	Set(x, y int, on bool)
	Clear()
}

/// Framebuffer is the default Display: a 64x32 monochrome grid.
///
type Framebuffer struct {
	pixels [Width * Height]bool

	// set on every change, cleared by Dirty
	dirty bool
}

/// Get returns the pixel at x, y. Pixels off the grid are off.
///
func (fb *Framebuffer) Get(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}

	return fb.pixels[y*Width+x]
}

/// Set the pixel at x, y. Writes off the grid are dropped.
///
func (fb *Framebuffer) Set(x, y int, on bool) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}

	fb.pixels[y*Width+x] = on
	fb.dirty = true
}

/// Clear turns off every pixel.
///
func (fb *Framebuffer) Clear() {
	fb.pixels = [Width * Height]bool{}
	fb.dirty = true
}

/// Dirty reports whether the framebuffer changed since the last call.
///
func (fb *Framebuffer) Dirty() bool {
	d := fb.dirty
	fb.dirty = false

	return d
}

// String renders the framebuffer as rows of '#' and '.'.
func (fb *Framebuffer) String() string {
	var sb strings.Builder

	sb.Grow((Width + 1) * Height)

	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if fb.pixels[y*Width+x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
