// Package audio turns uploaded recordings into canonical waveforms (mono,
// fixed sample rate) and cuts time windows out of them.
//
// PCM WAV input is decoded in-process; everything else goes through a
// Decoder, by default ffmpeg. Staging files needed for decoding are removed
// before Standardize returns.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
)

var errEmptyInput = errors.New("audio: empty input")

// Preparer standardizes and crops audio.
type Preparer struct {
	cfg     Config
	decoder Decoder
	log     *logger.Logger
}

// Option configures a Preparer.
type Option func(*Preparer)

// WithDecoder replaces the ffmpeg decoder.
func WithDecoder(d Decoder) Option {
	return func(p *Preparer) { p.decoder = d }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Preparer) { p.log = l }
}

// NewPreparer creates a Preparer.
func NewPreparer(cfg Config, opts ...Option) *Preparer {
	cfg.ApplyDefaults()
	p := &Preparer{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.decoder == nil {
		p.decoder = NewFFmpegDecoder(cfg)
	}
	if p.log == nil {
		p.log = logger.Get("audio")
	}
	return p
}

// SampleRate returns the canonical sample rate.
func (p *Preparer) SampleRate() int { return p.cfg.SampleRate }

// Standardize decodes data into a mono waveform at the canonical rate.
// hint is a file name, extension or MIME type describing the container; it
// only selects the staging file extension for the decoder. Any failure is a
// DECODE_ERROR.
func (p *Preparer) Standardize(ctx context.Context, data []byte, hint string) (*Waveform, error) {
	if len(data) == 0 {
		return nil, apperrors.Decode(hint, errEmptyInput)
	}
	if p.cfg.MaxUploadBytes > 0 && int64(len(data)) > p.cfg.MaxUploadBytes {
		return nil, apperrors.Decode(hint, fmt.Errorf("audio: %d bytes exceeds limit of %d", len(data), p.cfg.MaxUploadBytes))
	}

	if isWAV(data) {
		w, err := DecodeWAV(bytes.NewReader(data))
		if err == nil {
			return p.canonical(w), nil
		}
		p.log.Debug("In-process WAV decode failed, falling back to decoder", map[string]interface{}{
			logger.FieldError: err.Error(),
		})
	}

	w, err := p.decodeExternal(ctx, data, hint)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperrors.Decode(hint, err)
	}
	return p.canonical(w), nil
}

// decodeExternal stages data to a private temp dir, runs the decoder and
// reads back its WAV output. The directory is removed on every path.
func (p *Preparer) decodeExternal(ctx context.Context, data []byte, hint string) (*Waveform, error) {
	dir, err := os.MkdirTemp(p.cfg.WorkDir, "speechkit-decode-*")
	if err != nil {
		return nil, fmt.Errorf("audio: create staging dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			p.log.Warn("Failed to remove staging dir", map[string]interface{}{
				"dir":             dir,
				logger.FieldError: rmErr.Error(),
			})
		}
	}()

	in := filepath.Join(dir, "input."+ExtensionFor(hint))
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return nil, fmt.Errorf("audio: stage input: %w", err)
	}
	out := filepath.Join(dir, "output.wav")
	if err := p.decoder.Decode(ctx, in, out, p.cfg.SampleRate); err != nil {
		return nil, err
	}

	f, err := os.Open(out)
	if err != nil {
		return nil, fmt.Errorf("audio: open decoder output: %w", err)
	}
	defer f.Close()
	return DecodeWAV(f)
}

// canonical downmixes and resamples w if it is not already canonical.
func (p *Preparer) canonical(w *Waveform) *Waveform {
	if w.IsCanonical(p.cfg.SampleRate) {
		return w
	}
	mono := toMono(w.samples, w.channels)
	return New(resample(mono, w.sampleRate, p.cfg.SampleRate), p.cfg.SampleRate)
}

// Crop returns the samples in [span.Start, span.End) as a new waveform.
// span.End is clamped to the waveform duration; a span starting at or past
// the end, or with Start >= End, is an INVALID_SPAN error.
func (p *Preparer) Crop(w *Waveform, span Span) (*Waveform, error) {
	return Crop(w, span)
}

// Crop is the stateless form of Preparer.Crop.
func Crop(w *Waveform, span Span) (*Waveform, error) {
	duration := w.Duration()
	if math.IsNaN(span.Start) || math.IsNaN(span.End) ||
		span.Start < 0 || span.Start >= duration || span.Start >= span.End {
		return nil, apperrors.InvalidSpan(span.Start, span.End, duration)
	}
	end := math.Min(span.End, duration)

	rate := float64(w.sampleRate)
	frames := w.Frames()
	from := int(math.Round(span.Start * rate))
	to := int(math.Round(end * rate))
	if to > frames {
		to = frames
	}
	if from > to {
		from = to
	}

	ch := w.channels
	out := make([]float32, (to-from)*ch)
	copy(out, w.samples[from*ch:to*ch])
	return &Waveform{samples: out, sampleRate: w.sampleRate, channels: ch}, nil
}

var mimeExtensions = map[string]string{
	"audio/wav":       "wav",
	"audio/x-wav":     "wav",
	"audio/wave":      "wav",
	"audio/vnd.wave":  "wav",
	"audio/mpeg":      "mp3",
	"audio/mp3":       "mp3",
	"audio/mp4":       "m4a",
	"audio/x-m4a":     "m4a",
	"audio/aac":       "aac",
	"audio/ogg":       "ogg",
	"audio/opus":      "opus",
	"audio/webm":      "webm",
	"video/webm":      "webm",
	"video/mp4":       "mp4",
	"audio/flac":      "flac",
	"audio/x-flac":    "flac",
	"audio/amr":       "amr",
	"audio/3gpp":      "3gp",
	"video/quicktime": "mov",
}

// ExtensionFor maps a format hint (MIME type, file name or bare extension)
// to a file extension without the dot. Unknown hints map to "bin"; ffmpeg
// probes the content anyway.
func ExtensionFor(hint string) string {
	h := strings.ToLower(strings.TrimSpace(hint))
	if i := strings.Index(h, ";"); i >= 0 {
		h = strings.TrimSpace(h[:i])
	}
	if ext, ok := mimeExtensions[h]; ok {
		return ext
	}
	if strings.Contains(h, "/") {
		return "bin"
	}
	h = strings.TrimPrefix(filepath.Ext("x."+strings.TrimPrefix(h, ".")), ".")
	if h == "" || !isAlnum(h) {
		return "bin"
	}
	return h
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
