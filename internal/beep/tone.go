// Package beep generates the CHIP-8 buzzer tone and records it.
package beep

const (
	// SampleRate of every generated stream.
	SampleRate = 44100

	// Frequency of the buzzer square wave.
	Frequency = 440

	// Amplitude of the square wave in signed 16-bit sample units.
	Amplitude = 3276
)

// Tone is a square wave oscillator. It keeps its phase between calls so
// consecutive buffers join without clicks.
type Tone struct {
	rate  int
	freq  int
	phase int
}

// NewTone returns a square wave at freq Hz sampled at rate Hz.
func NewTone(rate, freq int) *Tone {
	return &Tone{rate: rate, freq: freq}
}

// high reports whether the current sample is in the upper half cycle and
// advances the phase by one sample.
func (t *Tone) high() bool {
	// phase/rate is the position within the current cycle
	hi := t.phase < t.rate/2

	t.phase += t.freq
	if t.phase >= t.rate {
		t.phase -= t.rate
	}

	return hi
}

// Signed fills buf with samples of ±amplitude.
func (t *Tone) Signed(buf []int, amplitude int) {
	for i := range buf {
		if t.high() {
			buf[i] = amplitude
		} else {
			buf[i] = -amplitude
		}
	}
}

// Unsigned fills buf with 8-bit samples centered on silence.
func (t *Tone) Unsigned(buf []byte, silence, amplitude byte) {
	for i := range buf {
		if t.high() {
			buf[i] = silence + amplitude
		} else {
			buf[i] = silence - amplitude
		}
	}
}

// Reset the phase to the start of a cycle.
func (t *Tone) Reset() {
	t.phase = 0
}
