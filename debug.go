package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/massung/chip-8/chip8"
	"github.com/retroenv/retrogolib/log"
	"github.com/sqweek/dialog"
)

const (
	/// Address the runtime stats are served on with -stats.
	///
	StatsAddress = "localhost:12600"
)

var (
	/// True if pausing emulation (single stepping).
	///
	Paused bool

	/// ErrNoROM is returned when the ROM dialog is cancelled.
	///
	ErrNoROM = errors.New("no rom selected")
)

/// LoadDialog asks the user for a ROM file.
///
func LoadDialog() (string, error) {
	file, err := dialog.File().Filter("CHIP-8 ROM", "ch8", "c8").Title("Load ROM").Load()
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return "", ErrNoROM
		}
		return "", fmt.Errorf("opening rom dialog: %w", err)
	}

	return file, nil
}

/// OpenROM replaces the running program with the one in file.
///
func OpenROM(file string) error {
	program, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading rom: %w", err)
	}

	if err := VM.Load(program); err != nil {
		return err
	}

	File = file
	Paused = false

	Logger.Info("Loaded ROM", log.String("file", file))
	return nil
}

/// Step a single instruction while paused.
///
func Step() {
	if !Paused {
		return
	}

	Logger.Debug("Step", log.String("instruction", VM.Disassemble(VM.PC)))

	if err := VM.Step(); err != nil {
		Halt(err)
	}
}

/// Halt pauses emulation after the VM failed.
///
func Halt(err error) {
	Paused = true
	Logger.Error("Execution halted", log.Err(err))
}

/// TogglePause stops or resumes the clock.
///
func TogglePause() {
	Paused = !Paused
	UpdateTitle()
}

/// PrintDisplay writes the display as text to the log.
///
func PrintDisplay() {
	if fb, ok := VM.Display.(fmt.Stringer); ok {
		fmt.Print(fb.String())
	}
}

/// machineState is the part of the VM worth graphing.
///
type machineState struct {
	PC     uint16
	SP     uint
	I      uint16
	V      [16]byte
	Stack  []uint16
	Timers chip8.Timers
	Keys   [16]bool
	Cycles int64
}

/// DumpState writes a graphviz dot file of the registers and stack.
///
func DumpState() {
	file := fmt.Sprintf("chip8-%d.dot", VM.Cycles)

	f, err := os.Create(file)
	if err != nil {
		Logger.Error("Dumping state failed", log.Err(err))
		return
	}
	defer f.Close()

	state := &machineState{
		PC:     VM.PC,
		SP:     VM.SP,
		I:      VM.I,
		V:      VM.V,
		Stack:  VM.Stack[:VM.SP],
		Timers: VM.Timers,
		Keys:   VM.Keys,
		Cycles: VM.Cycles,
	}

	memviz.Map(f, state)

	Logger.Info("Dumped state", log.String("file", file))
}

/// LaunchStats serves runtime charts in a background goroutine.
///
func LaunchStats() {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(StatsAddress))
		statsview.New().Start()
	}()

	Logger.Info("Stats available", log.String("url", "http://"+StatsAddress+"/debug/statsview"))
}
