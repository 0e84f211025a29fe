package main

import (
	"errors"

	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	/// Mapping of modern keyboard to CHIP-8 keys.
	///
	KeyMap = map[sdl.Scancode]uint{
		sdl.SCANCODE_X: 0x0,
		sdl.SCANCODE_1: 0x1,
		sdl.SCANCODE_2: 0x2,
		sdl.SCANCODE_3: 0x3,
		sdl.SCANCODE_Q: 0x4,
		sdl.SCANCODE_W: 0x5,
		sdl.SCANCODE_E: 0x6,
		sdl.SCANCODE_A: 0x7,
		sdl.SCANCODE_S: 0x8,
		sdl.SCANCODE_D: 0x9,
		sdl.SCANCODE_Z: 0xA,
		sdl.SCANCODE_C: 0xB,
		sdl.SCANCODE_4: 0xC,
		sdl.SCANCODE_R: 0xD,
		sdl.SCANCODE_F: 0xE,
		sdl.SCANCODE_V: 0xF,
	}
)

/// ProcessEvents from SDL and map keys to the CHIP-8 VM. Returns false
/// once the user has quit.
///
func ProcessEvents() bool {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			key, mapped := KeyMap[ev.Keysym.Scancode]

			if ev.Type == sdl.KEYUP {
				if mapped {
					VM.ReleaseKey(key)
				}
				continue
			}

			if ev.Type != sdl.KEYDOWN {
				continue
			}

			if mapped {
				VM.PressKey(key)
				continue
			}

			// emulator keys ignore auto-repeat
			if ev.Repeat != 0 {
				continue
			}

			if !handleKey(ev.Keysym.Scancode) {
				return false
			}
		}
	}

	return true
}

func handleKey(code sdl.Scancode) bool {
	switch code {
	case sdl.SCANCODE_ESCAPE:
		return false
	case sdl.SCANCODE_BACKSPACE:
		VM.Reset()
		Logger.Info("Reset")
	case sdl.SCANCODE_F3:
		file, err := LoadDialog()
		if err == nil {
			err = OpenROM(file)
		}

		if err != nil && !errors.Is(err, ErrNoROM) {
			Logger.Error("Loading ROM failed", log.Err(err))
		}

		UpdateTitle()
	case sdl.SCANCODE_F5, sdl.SCANCODE_SPACE, sdl.SCANCODE_M:
		TogglePause()
	case sdl.SCANCODE_F6, sdl.SCANCODE_PERIOD:
		Step()
	case sdl.SCANCODE_F8:
		DumpState()
	case sdl.SCANCODE_N:
		PrintDisplay()
	case sdl.SCANCODE_LEFTBRACKET:
		Clock.DecSpeed()
		UpdateTitle()
	case sdl.SCANCODE_RIGHTBRACKET:
		Clock.IncSpeed()
		UpdateTitle()
	}

	return true
}
