package main

import (
	"fmt"

	"github.com/massung/chip-8/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	/// Render target holding the CHIP-8 display at 1:1.
	///
	Screen *sdl.Texture
)

/// InitScreen creates the render target for the CHIP-8 display.
///
func InitScreen() error {
	var err error

	// create a render target for the display
	Screen, err = Renderer.CreateTexture(uint32(sdl.PIXELFORMAT_RGB888), int(sdl.TEXTUREACCESS_TARGET), chip8.Width, chip8.Height)
	if err != nil {
		return fmt.Errorf("creating screen texture: %w", err)
	}

	// draw it once so the first frame isn't garbage
	redrawScreen()

	return nil
}

/// RefreshScreen redraws the render target if the display changed.
///
func RefreshScreen() {
	if d, ok := VM.Display.(interface{ Dirty() bool }); ok && !d.Dirty() {
		return
	}

	redrawScreen()
}

func redrawScreen() {
	if err := Renderer.SetRenderTarget(Screen); err != nil {
		return
	}

	// the background color for the screen
	Renderer.SetDrawColor(143, 145, 133, 255)
	Renderer.Clear()

	// set the pixel color
	Renderer.SetDrawColor(17, 29, 43, 255)

	for y := 0; y < chip8.Height; y++ {
		for x := 0; x < chip8.Width; x++ {
			if VM.Display.Get(x, y) {
				Renderer.DrawPoint(int32(x), int32(y))
			}
		}
	}

	// restore the render target
	Renderer.SetRenderTarget(nil)
}

/// CopyScreen stretches the render target to fit x, y, w, h.
///
func CopyScreen(x, y, w, h int32) {
	src := sdl.Rect{
		W: chip8.Width,
		H: chip8.Height,
	}

	Renderer.Copy(Screen, &src, &sdl.Rect{X: x, Y: y, W: w, H: h})
}
