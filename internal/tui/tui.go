// Package tui runs the CHIP-8 virtual machine in a terminal.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell"
	"github.com/massung/chip-8/chip8"
	"github.com/retroenv/retrogolib/log"
)

const (
	// KeyHold is how long a key stays down after it is typed. Terminals
	// only report presses, never releases.
	KeyHold = 150 * time.Millisecond

	// FrameRate of screen refreshes.
	FrameRate = 60

	// LogLines visible in the log panel.
	LogLines = 10
)

// KeyMap maps the keyboard to the CHIP-8 keypad.
//
//	1 2 3 4     1 2 3 C
//	Q W E R     4 5 6 D
//	A S D F  >  7 8 9 E
//	Z X C V     A 0 B F
var KeyMap = map[rune]uint{
	'x': 0x0,
	'1': 0x1,
	'2': 0x2,
	'3': 0x3,
	'q': 0x4,
	'w': 0x5,
	'e': 0x6,
	'a': 0x7,
	's': 0x8,
	'd': 0x9,
	'z': 0xA,
	'c': 0xB,
	'4': 0xC,
	'r': 0xD,
	'f': 0xE,
	'v': 0xF,
}

// Frontend draws the machine to a tcell screen and feeds it key presses.
type Frontend struct {
	Screen tcell.Screen
	Clock  *chip8.Clock
	Log    *Logger

	// Paused stops the clock. Instructions can still be single stepped.
	Paused bool

	// OnFrame is called with the elapsed time of every frame, paused or
	// not, e.g. to keep a recording in step.
	OnFrame func(elapsed time.Duration)

	logger *log.Logger

	// when each held key is released
	release [16]time.Time
}

// New returns a frontend for the machine driven by clock.
func New(screen tcell.Screen, clock *chip8.Clock, scrollback *Logger, logger *log.Logger) *Frontend {
	return &Frontend{
		Screen: screen,
		Clock:  clock,
		Log:    scrollback,
		logger: logger,
	}
}

// Run refreshes the screen and processes input until the user quits or ctx
// is cancelled.
func (f *Frontend) Run(ctx context.Context) error {
	events := make(chan tcell.Event)

	go func() {
		for {
			ev := f.Screen.PollEvent()
			if ev == nil {
				return
			}

			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	video := time.NewTicker(time.Second / FrameRate)
	defer video.Stop()

	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !f.HandleKey(ev, time.Now()) {
					return nil
				}
			case *tcell.EventResize:
				f.Screen.Sync()
			}
		case now := <-video.C:
			elapsed := now.Sub(last)
			last = now

			f.Update(elapsed, now)
			f.Draw()
			f.Screen.Show()
		}
	}
}

// HandleKey processes a single key press. It returns false when the user
// asked to quit.
func (f *Frontend) HandleKey(ev *tcell.EventKey, now time.Time) bool {
	vm := f.Clock.VM

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		vm.Reset()
		f.logger.Info("Reset")
	case tcell.KeyF5:
		f.Paused = !f.Paused
	case tcell.KeyF6:
		f.step()
	case tcell.KeyPgUp, tcell.KeyUp:
		f.Log.ScrollUp(LogLines)
	case tcell.KeyPgDn, tcell.KeyDown:
		f.Log.ScrollDown(LogLines)
	case tcell.KeyHome:
		f.Log.Home()
	case tcell.KeyEnd:
		f.Log.End()
	case tcell.KeyRune:
		f.handleRune(ev.Rune(), now)
	}

	return true
}

func (f *Frontend) handleRune(r rune, now time.Time) {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}

	if key, ok := KeyMap[r]; ok {
		f.Clock.VM.PressKey(key)
		f.release[key] = now.Add(KeyHold)
		return
	}

	switch r {
	case ' ', 'm':
		f.Paused = !f.Paused
	case '.':
		f.step()
	case '[':
		f.Clock.DecSpeed()
	case ']':
		f.Clock.IncSpeed()
	case 'n':
		if fb, ok := f.Clock.VM.Display.(fmt.Stringer); ok {
			for _, line := range strings.Split(strings.TrimRight(fb.String(), "\n"), "\n") {
				f.Log.Log(line)
			}
		}
	}
}

// Update releases expired keys and runs the clock for elapsed time.
func (f *Frontend) Update(elapsed time.Duration, now time.Time) {
	for key, at := range f.release {
		if !at.IsZero() && !now.Before(at) {
			f.Clock.VM.ReleaseKey(uint(key))
			f.release[key] = time.Time{}
		}
	}

	if f.OnFrame != nil {
		f.OnFrame(elapsed)
	}

	if f.Paused {
		return
	}

	if err := f.Clock.Process(elapsed); err != nil {
		f.halt(err)
	}
}

func (f *Frontend) step() {
	if !f.Paused {
		return
	}

	if err := f.Clock.VM.Step(); err != nil {
		f.halt(err)
	}
}

func (f *Frontend) halt(err error) {
	f.Paused = true
	f.logger.Error("Execution halted", log.Err(err))
}

// Draw the display, registers, disassembly and log panels.
func (f *Frontend) Draw() {
	vm := f.Clock.VM

	f.Screen.Clear()

	Box(f.Screen, 0, 0, chip8.Width+1, chip8.Height/2+1)
	drawDisplay(f.Screen, 1, 1, vm.Display)

	x := chip8.Width + 3

	Box(f.Screen, x, 0, 24, chip8.Height/2+1)
	f.drawRegisters(x+2, 1)

	Box(f.Screen, x+26, 0, 24, chip8.Height/2+1)
	f.drawAssembly(x+28, 1)

	f.drawLog(0, chip8.Height/2+2)
}

// drawDisplay packs two pixel rows into each cell using half blocks.
func drawDisplay(s tcell.Screen, x, y int, display chip8.Display) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	for row := 0; row < chip8.Height; row += 2 {
		for col := 0; col < chip8.Width; col++ {
			top := display.Get(col, row)
			bottom := display.Get(col, row+1)

			c := ' '
			switch {
			case top && bottom:
				c = '█'
			case top:
				c = '▀'
			case bottom:
				c = '▄'
			}

			s.SetContent(x+col, y+row/2, c, nil, style)
		}
	}
}

// Show the current value of all the CHIP-8 registers.
func (f *Frontend) drawRegisters(x, y int) {
	vm := f.Clock.VM
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	for i := 0; i < 16; i++ {
		DrawString(f.Screen, x, y+i, style, fmt.Sprintf("V%X #%02X", i, vm.V[i]))
	}

	// shift over for the other registers
	x += 9

	DrawString(f.Screen, x, y, style, fmt.Sprintf("PC #%04X", vm.PC))
	DrawString(f.Screen, x, y+1, style, fmt.Sprintf("SP #%02X", vm.SP))
	DrawString(f.Screen, x, y+2, style, fmt.Sprintf("I  #%04X", vm.I))
	DrawString(f.Screen, x, y+4, style, fmt.Sprintf("DT #%02X", vm.Timers.Delay))
	DrawString(f.Screen, x, y+5, style, fmt.Sprintf("ST #%02X", vm.Timers.Sound))
	DrawString(f.Screen, x, y+7, style, fmt.Sprintf("%d IPS", f.Clock.Speed))

	if f.Paused {
		DrawString(f.Screen, x, y+9, style.Foreground(tcell.ColorRed), "PAUSED")
	}
}

// drawAssembly shows the disassembled instructions around the program
// counter, highlighting the next one.
func (f *Frontend) drawAssembly(x, y int) {
	vm := f.Clock.VM
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)

	address := int(vm.PC) - 6
	if address < 0 {
		address = int(vm.PC) & 1
	}

	for i := 0; i < chip8.Height/2; i++ {
		a := address + i*2
		if a >= chip8.MemorySize {
			break
		}

		line := vm.Disassemble(uint16(a))
		if a == int(vm.PC) {
			DrawString(f.Screen, x, y+i, style.Foreground(tcell.ColorWhite).Reverse(true), line)
		} else {
			DrawString(f.Screen, x, y+i, style, line)
		}
	}
}

func (f *Frontend) drawLog(x, y int) {
	_, h := f.Screen.Size()
	lines := h - y - 2
	if lines > LogLines {
		lines = LogLines
	}
	if lines <= 0 {
		return
	}

	LogBox(f.Screen, x, y, chip8.Width+53, lines+1, f.Log.Window(lines))
}
