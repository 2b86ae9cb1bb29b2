package audio

import (
	"fmt"
	"os"
	"sync"
)

// Waveform is decoded audio held in memory as float32 samples in [-1, 1].
// Samples are interleaved when Channels > 1; after Standardize there is
// always a single channel at the canonical rate.
//
// A Waveform is owned by one stage at a time. Release it once consumed; it
// frees the samples and removes any staged file.
type Waveform struct {
	samples    []float32
	sampleRate int
	channels   int

	mu       sync.Mutex
	path     string
	released bool
}

// New wraps mono samples at the given rate.
func New(samples []float32, sampleRate int) *Waveform {
	return &Waveform{samples: samples, sampleRate: sampleRate, channels: 1}
}

// SampleRate returns the sample rate in Hz.
func (w *Waveform) SampleRate() int { return w.sampleRate }

// Channels returns the number of interleaved channels.
func (w *Waveform) Channels() int { return w.channels }

// Samples returns the sample data. Callers must not modify it.
func (w *Waveform) Samples() []float32 { return w.samples }

// Frames returns the number of samples per channel.
func (w *Waveform) Frames() int {
	if w.channels <= 0 {
		return 0
	}
	return len(w.samples) / w.channels
}

// Duration returns the length in seconds.
func (w *Waveform) Duration() float64 {
	if w.sampleRate <= 0 {
		return 0
	}
	return float64(w.Frames()) / float64(w.sampleRate)
}

// Empty reports whether the waveform has no samples.
func (w *Waveform) Empty() bool { return w.Frames() == 0 }

// IsCanonical reports whether the waveform is mono at rate.
func (w *Waveform) IsCanonical(rate int) bool {
	return w.channels == 1 && w.sampleRate == rate
}

// WAVBytes encodes the waveform as a 16-bit PCM WAV file.
func (w *Waveform) WAVBytes() ([]byte, error) {
	return EncodeWAV(w.samples, w.sampleRate, w.channels)
}

// Stage writes the waveform to a WAV file in dir and returns its path.
// Repeated calls return the same file. The file lives until Release.
func (w *Waveform) Stage(dir string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.released {
		return "", fmt.Errorf("audio: stage released waveform")
	}
	if w.path != "" {
		return w.path, nil
	}

	data, err := w.WAVBytes()
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp(dir, "speechkit-*.wav")
	if err != nil {
		return "", fmt.Errorf("audio: create staging file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("audio: write staging file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("audio: close staging file: %w", err)
	}
	w.path = f.Name()
	return w.path, nil
}

// Path returns the staged file path, or "" if the waveform was never staged.
func (w *Waveform) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Release drops the samples and removes the staged file. It is idempotent.
func (w *Waveform) Release() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.released {
		return nil
	}
	w.released = true
	w.samples = nil
	if w.path == "" {
		return nil
	}
	err := os.Remove(w.path)
	w.path = ""
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("audio: remove staging file: %w", err)
	}
	return nil
}

// Released reports whether Release has been called.
func (w *Waveform) Released() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.released
}
