package beep

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const bitDepth = 16

// Recorder is a sound gate that captures the buzzer as PCM. The whole
// recording is held in memory and written out by Save.
type Recorder struct {
	on atomic.Bool

	mu      sync.Mutex
	tone    *Tone
	samples []int

	// elapsed time scaled by the sample rate not yet turned into samples
	carry int64
}

// NewRecorder returns an empty, silent recording.
func NewRecorder() *Recorder {
	return &Recorder{
		tone:    NewTone(SampleRate, Frequency),
		samples: make([]int, 0, SampleRate),
	}
}

// Enable starts the tone at the current position of the recording.
func (r *Recorder) Enable() {
	r.on.Store(true)
}

// Disable silences the recording.
func (r *Recorder) Disable() {
	r.on.Store(false)
}

// Advance appends elapsed time worth of samples, tone or silence depending
// on the gate.
func (r *Recorder) Advance(elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.carry += int64(elapsed) * SampleRate
	n := int(r.carry / int64(time.Second))
	r.carry -= int64(n) * int64(time.Second)

	start := len(r.samples)
	for i := 0; i < n; i++ {
		r.samples = append(r.samples, 0)
	}

	if r.on.Load() {
		r.tone.Signed(r.samples[start:], Amplitude)
	} else {
		r.tone.Reset()
	}
}

// Len returns the number of samples recorded.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.samples)
}

// Duration of the recording so far.
func (r *Recorder) Duration() time.Duration {
	return time.Duration(r.Len()) * time.Second / SampleRate
}

// Encode writes the recording as a mono 16-bit WAV stream.
func (r *Recorder) Encode(ws io.WriteSeeker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	enc := wav.NewEncoder(ws, SampleRate, bitDepth, 1, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  SampleRate,
		},
		Data:           r.samples,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding wav: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding wav: %w", err)
	}

	return nil
}

// Save writes the recording to a WAV file.
func (r *Recorder) Save(file string) (err error) {
	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("creating wav: %w", err)
	}

	defer func() {
		err = errors.Join(err, f.Close())
	}()

	return r.Encode(f)
}
