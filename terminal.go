package main

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell"
	"github.com/massung/chip-8/chip8"
	"github.com/massung/chip-8/internal/beep"
	"github.com/massung/chip-8/internal/tui"
)

/// runTerminal runs the virtual machine on a tcell screen until the
/// user quits or ctx is cancelled. There's no audio in the terminal
/// other than a recording.
///
func runTerminal(ctx context.Context, scrollback *tui.Logger, gates chip8.SoundGates, recorder *beep.Recorder) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating terminal screen: %w", err)
	}

	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal screen: %w", err)
	}
	defer screen.Fini()

	VM.Sound = gates

	f := tui.New(screen, Clock, scrollback, Logger)

	if recorder != nil {
		f.OnFrame = recorder.Advance
	}

	return f.Run(ctx)
}
