package main

import (
	"fmt"
	"sync/atomic"

	"github.com/massung/chip-8/internal/beep"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	/// Amount of audio kept queued ahead of playback.
	///
	audioLatency = beep.SampleRate / 20

	/// Peak distance from silence of an unsigned 8-bit sample.
	///
	audioAmplitude = 16
)

var (
	/// Speaker plays the buzzer. It's nil when no audio device opened.
	///
	Speaker *Beeper
)

/// Beeper plays the buzzer tone on an SDL audio device while the sound
/// timer is running.
///
type Beeper struct {
	device  sdl.AudioDeviceID
	silence byte
	tone    *beep.Tone
	on      atomic.Bool

	// reused between calls to Feed
	buf []byte
}

/// NewBeeper opens the default audio device for the buzzer.
///
func NewBeeper() (*Beeper, error) {
	spec := &sdl.AudioSpec{
		Freq:     beep.SampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}

	var actual sdl.AudioSpec

	// open the device and start playing it
	device, err := sdl.OpenAudioDevice("", false, spec, &actual, 0)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}

	b := &Beeper{
		device:  device,
		silence: actual.Silence,
		tone:    beep.NewTone(beep.SampleRate, beep.Frequency),
		buf:     make([]byte, audioLatency),
	}

	sdl.PauseAudioDevice(device, false)

	Speaker = b
	return b, nil
}

/// Enable the buzzer. Called by the VM as the sound timer starts.
///
func (b *Beeper) Enable() {
	b.on.Store(true)
}

/// Disable the buzzer and drop whatever is still queued.
///
func (b *Beeper) Disable() {
	b.on.Store(false)
	sdl.ClearQueuedAudio(b.device)
}

/// Feed tops up the device queue while the buzzer is on.
///
func (b *Beeper) Feed() {
	if !b.on.Load() {
		b.tone.Reset()
		return
	}

	queued := int(sdl.GetQueuedAudioSize(b.device))
	if queued >= audioLatency {
		return
	}

	buf := b.buf[:audioLatency-queued]
	b.tone.Unsigned(buf, b.silence, audioAmplitude)

	if err := sdl.QueueAudio(b.device, buf); err != nil {
		Logger.Debug("Queueing audio failed", log.Err(err))
	}
}

/// Close the audio device.
///
func (b *Beeper) Close() {
	sdl.CloseAudioDevice(b.device)

	if Speaker == b {
		Speaker = nil
	}
}
