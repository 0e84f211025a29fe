package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/massung/chip-8/chip8"
	"github.com/massung/chip-8/internal/beep"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	/// The SDL Window and Renderer.
	///
	Window   *sdl.Window
	Renderer *sdl.Renderer

	/// File is the ROM currently loaded.
	///
	File string

	/// Scale is the size of a CHIP-8 pixel in the window.
	///
	Scale int32
)

/// runWindow opens an SDL window and runs the virtual machine in it until
/// the window is closed or ctx is cancelled.
///
func runWindow(ctx context.Context, file string, scale int, gates chip8.SoundGates, recorder *beep.Recorder) error {
	var err error

	File = file
	Scale = int32(scale)

	// initialize SDL
	if err = sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("initializing sdl: %w", err)
	}
	defer sdl.Quit()

	// create the main window and renderer
	w, h := int32(chip8.Width)*Scale, int32(chip8.Height)*Scale

	Window, err = sdl.CreateWindow("CHIP-8", int32(sdl.WINDOWPOS_CENTERED), int32(sdl.WINDOWPOS_CENTERED), w, h, uint32(sdl.WINDOW_SHOWN))
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer Window.Destroy()

	if Renderer, err = sdl.CreateRenderer(Window, -1, uint32(sdl.RENDERER_ACCELERATED)); err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	defer Renderer.Destroy()

	// initialize subsystems
	if err = InitScreen(); err != nil {
		return err
	}

	// the game is still playable without sound
	if beeper, err := NewBeeper(); err != nil {
		Logger.Error("Audio unavailable", log.Err(err))
	} else {
		defer beeper.Close()
		gates = append(gates, beeper)
	}

	VM.Sound = gates

	UpdateTitle()

	// refresh rate, the clock catches up on each frame
	video := time.NewTicker(time.Second / 60)
	defer video.Stop()

	last := time.Now()

	// loop until window closed or user quit
	for ProcessEvents() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-video.C:
			elapsed := now.Sub(last)
			last = now

			if recorder != nil {
				recorder.Advance(elapsed)
			}

			if !Paused {
				if err := Clock.Process(elapsed); err != nil {
					Halt(err)
				}
			}

			Refresh()
		}
	}

	return nil
}

/// Refresh the window with the CHIP-8 display.
///
func Refresh() {
	RefreshScreen()

	if Speaker != nil {
		Speaker.Feed()
	}

	Renderer.SetDrawColor(0, 0, 0, 255)
	Renderer.Clear()

	w, h := Window.GetSize()
	CopyScreen(0, 0, w, h)

	// show the new frame
	Renderer.Present()
}

/// UpdateTitle shows the ROM, speed and run state in the title bar.
///
func UpdateTitle() {
	state := ""
	if Paused {
		state = " [paused]"
	}

	Window.SetTitle(fmt.Sprintf("CHIP-8 - %s - %d IPS%s", filepath.Base(File), Clock.Speed, state))
}
