package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/massung/chip-8/chip8"
)

// Options for a single run of the emulator.
type Options struct {
	ROM string

	Speed       int
	Seed        uint
	Scale       int
	SkipUnknown bool

	TUI   bool
	WAV   string
	Stats bool

	Assemble    string
	Disassemble bool

	Debug bool
	Quiet bool
}

const (
	DefaultScale = 10
	MaxScale     = 40
)

// UsageError is returned when the command line can't be used as given.
// The usage text is shown along with it.
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage writes the usage text and all flag defaults to w.
func (e *UsageError) ShowUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: chip-8 [options] [rom]\n\n")
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
}

// ParseFlags parses the command line arguments, not including the program
// name.
func ParseFlags(args []string) (Options, error) {
	flags := flag.NewFlagSet("chip-8", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts Options
	readOptionFlags(flags, &opts)

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	rest := flags.Args()
	if err := validateArgs(flags, rest); err != nil {
		return opts, err
	}

	if len(rest) > 0 {
		opts.ROM = rest[0]
	}

	if err := validateOptions(flags, opts); err != nil {
		return opts, err
	}

	return opts, nil
}

func readOptionFlags(flags *flag.FlagSet, opts *Options) {
	flags.IntVar(&opts.Speed, "speed", chip8.DefaultSpeed, fmt.Sprintf("instructions per second (%d-%d)", chip8.MinSpeed, chip8.MaxSpeed))
	flags.UintVar(&opts.Seed, "seed", 0, "fixed seed for RND, seeded from the clock when 0")
	flags.IntVar(&opts.Scale, "scale", DefaultScale, "window pixels per CHIP-8 pixel")
	flags.BoolVar(&opts.SkipUnknown, "skip-unknown", false, "skip unknown opcodes instead of halting")
	flags.BoolVar(&opts.TUI, "tui", false, "run in the terminal instead of a window")
	flags.StringVar(&opts.WAV, "wav", "", "record the beeper to a .wav file")
	flags.BoolVar(&opts.Stats, "stats", false, "serve runtime statistics over http")
	flags.StringVar(&opts.Assemble, "assemble", "", "assemble the source file argument into this ROM file and exit")
	flags.BoolVar(&opts.Disassemble, "disasm", false, "print the disassembly of the ROM and exit")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.Quiet, "q", false, "only log errors")
}

// validateArgs checks that at most one file is given, after all options.
func validateArgs(flags *flag.FlagSet, args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				flags: flags,
				msg:   fmt.Sprintf("option %s found after the rom, pass options first", arg),
			}
		}
	}

	if len(args) > 1 {
		return &UsageError{flags: flags, msg: "only one rom may be given"}
	}

	return nil
}

func validateOptions(flags *flag.FlagSet, opts Options) error {
	if opts.Speed < chip8.MinSpeed || opts.Speed > chip8.MaxSpeed {
		return fmt.Errorf("speed %d out of range %d-%d", opts.Speed, chip8.MinSpeed, chip8.MaxSpeed)
	}

	if opts.Scale < 1 || opts.Scale > MaxScale {
		return fmt.Errorf("scale %d out of range 1-%d", opts.Scale, MaxScale)
	}

	if uint64(opts.Seed) > 0xFFFFFFFF {
		return fmt.Errorf("seed %d does not fit in 32 bits", opts.Seed)
	}

	// only the window can open a file dialog
	if opts.ROM == "" && (opts.TUI || opts.Assemble != "" || opts.Disassemble) {
		return &UsageError{flags: flags, msg: "a file is required"}
	}

	if opts.Assemble != "" && opts.Disassemble {
		return &UsageError{flags: flags, msg: "-assemble and -disasm can't be combined"}
	}

	return nil
}
