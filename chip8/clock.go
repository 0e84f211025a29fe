package chip8

import (
	"errors"
	"time"

	"github.com/retroenv/retrogolib/log"
)

/// Policy decides what Clock does with an unknown opcode.
///
type Policy int

const (
	/// HaltOnUnknown stops processing and returns the error.
	///
	HaltOnUnknown Policy = iota

	/// SkipUnknown logs the opcode and carries on with the next one.
	///
	SkipUnknown
)

const (
	/// DefaultSpeed is the default instructions per second.
	///
	DefaultSpeed = 700

	MinSpeed  = 60
	MaxSpeed  = 5000
	SpeedStep = 50

	// most virtual time a single Process call will catch up on
	maxBacklog = time.Second
)

/// Clock drives a CHIP_8 from elapsed virtual time. Instructions run at
/// Speed per second while the timers tick at 60 Hz. Each has its own
/// accumulator, so the speed never changes how fast the timers count down.
///
type Clock struct {
	VM     *CHIP_8
	Speed  int
	Policy Policy

	logger *log.Logger

	// accumulated time scaled by rate; one instruction or tick is due
	// for every full second
	steps int64
	ticks int64
}

/// NewClock returns a Clock running vm at DefaultSpeed.
///
func NewClock(vm *CHIP_8, logger *log.Logger) *Clock {
	return &Clock{
		VM:     vm,
		Speed:  DefaultSpeed,
		logger: logger,
	}
}

/// Process catches the VM up by elapsed virtual time. Timer ticks are
/// spread evenly between the instructions that are due. Execution stops at
/// the first error the Policy doesn't allow to be skipped and any remaining
/// backlog is dropped.
///
func (c *Clock) Process(elapsed time.Duration) error {
	if elapsed < 0 {
		return nil
	}
	if elapsed > maxBacklog {
		elapsed = maxBacklog
	}

	c.steps += int64(elapsed) * int64(c.speed())
	c.ticks += int64(elapsed) * TimerFrequency

	n := c.steps / int64(time.Second)
	m := c.ticks / int64(time.Second)

	c.steps -= n * int64(time.Second)
	c.ticks -= m * int64(time.Second)

	fired := int64(0)

	for i := int64(0); i < n; i++ {
		// tick j belongs before instruction i once j/m <= i/n
		for fired < m && fired*n <= i*m {
			c.VM.Tick()
			fired++
		}

		if err := c.VM.Step(); err != nil && !c.skip(err) {
			c.steps = 0
			return err
		}
	}

	for ; fired < m; fired++ {
		c.VM.Tick()
	}

	return nil
}

func (c *Clock) skip(err error) bool {
	var unknown *UnknownOpcodeError

	if c.Policy != SkipUnknown || !errors.As(err, &unknown) {
		return false
	}

	if c.logger != nil {
		c.logger.Error("Skipping unknown opcode",
			log.Hex("address", unknown.Address),
			log.String("opcode", unknown.Instruction.String()))
	}

	return true
}

func (c *Clock) speed() int {
	switch {
	case c.Speed < MinSpeed:
		return MinSpeed
	case c.Speed > MaxSpeed:
		return MaxSpeed
	}

	return c.Speed
}

/// IncSpeed raises the instruction rate by SpeedStep.
///
func (c *Clock) IncSpeed() {
	c.Speed = c.speed() + SpeedStep
	if c.Speed > MaxSpeed {
		c.Speed = MaxSpeed
	}
}

/// DecSpeed lowers the instruction rate by SpeedStep.
///
func (c *Clock) DecSpeed() {
	c.Speed = c.speed() - SpeedStep
	if c.Speed < MinSpeed {
		c.Speed = MinSpeed
	}
}
