package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell"
	"github.com/massung/chip-8/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newFrontend(t *testing.T, source string) (*Frontend, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("")
	assert.NoError(t, screen.Init())
	screen.SetSize(120, 32)
	t.Cleanup(screen.Fini)

	asm, err := chip8.Assemble([]byte(source))
	assert.NoError(t, err)

	vm, err := chip8.LoadROM(asm.ROM)
	assert.NoError(t, err)

	logger := log.NewTestLogger(t)

	return New(screen, chip8.NewClock(vm, logger), NewLog(), logger), screen
}

func row(s tcell.Screen, y int) string {
	w, _ := s.Size()

	var sb strings.Builder
	for x := 0; x < w; x++ {
		c, _, _, _ := s.GetContent(x, y)
		sb.WriteRune(c)
	}

	return sb.String()
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestFrontend_DrawDisplay(t *testing.T) {
	f, screen := newFrontend(t, "LOOP: JP LOOP")
	fb := f.Clock.VM.Display

	fb.Set(0, 0, true)
	fb.Set(1, 1, true)
	fb.Set(2, 0, true)
	fb.Set(2, 1, true)
	fb.Set(63, 31, true)

	f.Draw()

	check := func(x, y int, expected rune) {
		c, _, _, _ := screen.GetContent(x, y)
		assert.Equal(t, expected, c)
	}

	check(1, 1, '▀')
	check(2, 1, '▄')
	check(3, 1, '█')
	check(4, 1, ' ')
	check(64, 16, '▄')
	check(0, 0, tcell.RuneULCorner)
}

func TestFrontend_DrawPanels(t *testing.T) {
	f, screen := newFrontend(t, "LD V3, #AB\nLOOP: JP LOOP")
	f.Clock.VM.V[3] = 0xAB
	f.Paused = true
	f.Log.Log("hello")

	f.Draw()

	assert.Contains(t, row(screen, 4), "V3 #AB")
	assert.Contains(t, row(screen, 1), "PC #0200")
	assert.Contains(t, row(screen, 10), "PAUSED")
	assert.Contains(t, row(screen, 1), "01FA -")
	assert.Contains(t, row(screen, 4), "0200 - ")
	assert.Contains(t, row(screen, 19), "hello")
}

func TestFrontend_KeyHold(t *testing.T) {
	f, _ := newFrontend(t, "LOOP: JP LOOP")
	vm := f.Clock.VM
	now := time.Now()

	assert.True(t, f.HandleKey(key('q'), now))
	assert.True(t, vm.Keys[0x4])

	f.Update(0, now.Add(KeyHold/2))
	assert.True(t, vm.Keys[0x4])

	f.Update(0, now.Add(KeyHold))
	assert.False(t, vm.Keys[0x4])

	// upper case from caps lock
	f.HandleKey(key('V'), now)
	assert.True(t, vm.Keys[0xF])
}

func TestFrontend_Quit(t *testing.T) {
	f, _ := newFrontend(t, "LOOP: JP LOOP")

	assert.False(t, f.HandleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), time.Now()))
	assert.False(t, f.HandleKey(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone), time.Now()))
}

func TestFrontend_PauseAndStep(t *testing.T) {
	f, _ := newFrontend(t, "LOOP: ADD V0, 1\nJP LOOP")
	vm := f.Clock.VM
	now := time.Now()

	// stepping only works while paused
	f.HandleKey(key('.'), now)
	assert.Equal(t, int64(0), vm.Cycles)

	f.HandleKey(key(' '), now)
	assert.True(t, f.Paused)

	f.Update(time.Second, now)
	assert.Equal(t, int64(0), vm.Cycles)

	f.HandleKey(key('.'), now)
	f.HandleKey(tcell.NewEventKey(tcell.KeyF6, 0, tcell.ModNone), now)
	assert.Equal(t, int64(2), vm.Cycles)

	f.HandleKey(key('m'), now)
	assert.False(t, f.Paused)

	f.Update(time.Second, now)
	assert.Equal(t, int64(2+chip8.DefaultSpeed), vm.Cycles)
}

func TestFrontend_Speed(t *testing.T) {
	f, _ := newFrontend(t, "LOOP: JP LOOP")

	f.HandleKey(key(']'), time.Now())
	assert.Equal(t, chip8.DefaultSpeed+chip8.SpeedStep, f.Clock.Speed)

	f.HandleKey(key('['), time.Now())
	f.HandleKey(key('['), time.Now())
	assert.Equal(t, chip8.DefaultSpeed-chip8.SpeedStep, f.Clock.Speed)
}

func TestFrontend_Reset(t *testing.T) {
	f, _ := newFrontend(t, "LOOP: ADD V0, 1\nJP LOOP")
	vm := f.Clock.VM

	f.Update(100*time.Millisecond, time.Now())
	assert.True(t, vm.Cycles > 0)

	f.HandleKey(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), time.Now())

	assert.Equal(t, int64(0), vm.Cycles)
	assert.Equal(t, byte(0), vm.V[0])
	assert.Equal(t, uint16(chip8.ProgramAddress), vm.PC)
}

func TestFrontend_HaltPauses(t *testing.T) {
	f, _ := newFrontend(t, "RET")

	f.Update(time.Second, time.Now())

	assert.True(t, f.Paused)
}

func TestFrontend_OnFrame(t *testing.T) {
	f, _ := newFrontend(t, "RET")
	f.Paused = true

	var total time.Duration
	f.OnFrame = func(elapsed time.Duration) {
		total += elapsed
	}

	f.Update(10*time.Millisecond, time.Now())
	f.Update(15*time.Millisecond, time.Now())

	assert.Equal(t, 25*time.Millisecond, total)
}

func TestFrontend_DumpDisplay(t *testing.T) {
	f, _ := newFrontend(t, "LOOP: JP LOOP")
	f.Clock.VM.Display.Set(0, 0, true)

	f.HandleKey(key('n'), time.Now())

	assert.Equal(t, chip8.Height, f.Log.Len())
	assert.Equal(t, "#"+strings.Repeat(".", chip8.Width-1), f.Log.Window(chip8.Height)[0])
}

func TestFrontend_Run(t *testing.T) {
	f, screen := newFrontend(t, "LOOP: JP LOOP")

	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	assert.NoError(t, f.Run(context.Background()))
}

func TestFrontend_RunCancelled(t *testing.T) {
	f, _ := newFrontend(t, "LOOP: JP LOOP")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := f.Run(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, f.Clock.VM.Cycles > 0)
}
