package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/massung/chip-8/chip8"
	"github.com/massung/chip-8/internal/beep"
	"github.com/massung/chip-8/internal/config"
	"github.com/massung/chip-8/internal/tui"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

var (
	/// The CHIP-8 virtual machine.
	///
	VM *chip8.CHIP_8

	/// Clock running the virtual machine in real time.
	///
	Clock *chip8.Clock

	/// Logger shared by every part of the emulator.
	///
	Logger *log.Logger
)

func init() {
	runtime.LockOSThread()
}

func main() {
	ctx := app.Context()

	opts, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		var usageErr *config.UsageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "%s\n\n", err)
			usageErr.ShowUsage(os.Stderr)
		} else {
			config.CreateLogger(false, false).Error("Invalid options", log.Err(err))
		}
		os.Exit(1)
	}

	// in the terminal, anything printed goes to the log panel
	scrollback := tui.NewLog()
	restore := func() {}

	if opts.TUI {
		if restore, err = tui.Capture(scrollback); err != nil {
			config.CreateLogger(opts.Debug, opts.Quiet).Fatal(err.Error())
		}
	}

	Logger = config.CreateLogger(opts.Debug, opts.Quiet)
	printBanner(opts)

	err = run(ctx, opts, scrollback)
	restore()

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, ErrNoROM) {
		config.CreateLogger(opts.Debug, opts.Quiet).Fatal(err.Error())
	}
}

func printBanner(opts config.Options) {
	if opts.Quiet || opts.Disassemble {
		return
	}

	Logger.Info("CHIP-8", log.String("version", buildinfo.Version(version, commit, date)))
}

func run(ctx context.Context, opts config.Options, scrollback *tui.Logger) (err error) {
	if opts.Assemble != "" {
		return assemble(opts.ROM, opts.Assemble)
	}

	file := opts.ROM
	if file == "" {
		if file, err = LoadDialog(); err != nil {
			return err
		}
	}

	program, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading rom: %w", err)
	}

	if VM, err = chip8.LoadROM(program); err != nil {
		return err
	}

	if opts.Disassemble {
		disassemble(VM, len(program))
		return nil
	}

	Logger.Info("Loaded ROM", log.String("file", file))

	// seed the random number generator
	if opts.Seed != 0 {
		VM.Random.Seed(uint32(opts.Seed))
	} else {
		VM.Random.SeedWithClock(Logger)
	}

	Clock = chip8.NewClock(VM, Logger)
	Clock.Speed = opts.Speed

	if opts.SkipUnknown {
		Clock.Policy = chip8.SkipUnknown
	}

	var recorder *beep.Recorder
	var gates chip8.SoundGates

	if opts.WAV != "" {
		recorder = beep.NewRecorder()
		gates = append(gates, recorder)

		defer func() {
			Logger.Info("Saving recording",
				log.String("file", opts.WAV),
				log.String("duration", recorder.Duration().String()))

			err = errors.Join(err, recorder.Save(opts.WAV))
		}()
	}

	if opts.Stats {
		LaunchStats()
	}

	if opts.TUI {
		return runTerminal(ctx, scrollback, gates, recorder)
	}

	return runWindow(ctx, file, opts.Scale, gates, recorder)
}

func assemble(source, rom string) error {
	program, err := os.ReadFile(source)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}

	asm, err := chip8.Assemble(program)
	if err != nil {
		return fmt.Errorf("assembling %s: %w", source, err)
	}

	if err := os.WriteFile(rom, asm.ROM, 0o644); err != nil {
		return fmt.Errorf("writing rom: %w", err)
	}

	Logger.Info("Assembled ROM",
		log.String("file", rom),
		log.Int("bytes", len(asm.ROM)),
		log.Int("labels", len(asm.Labels)))

	return nil
}

// disassemble prints every instruction of the loaded program.
func disassemble(vm *chip8.CHIP_8, size int) {
	for address := chip8.ProgramAddress; address < chip8.ProgramAddress+size; address += 2 {
		fmt.Println(vm.Disassemble(uint16(address)))
	}
}
