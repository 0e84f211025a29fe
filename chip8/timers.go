package chip8

/// TimerFrequency is the rate (Hz) at which Tick should be called.
///
const TimerFrequency = 60

/// Timers are the CHIP-8 delay and sound timers. Both count down by one
/// per tick and stop at zero.
///
type Timers struct {
	Delay byte
	Sound byte
}

/// Tick decrements both timers, saturating at zero.
///
func (t *Timers) Tick() {
	if t.Delay > 0 {
		t.Delay--
	}
	if t.Sound > 0 {
		t.Sound--
	}
}

/// SoundActive is true while the sound timer is non-zero.
///
func (t *Timers) SoundActive() bool {
	return t.Sound > 0
}
