package audio

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/speechkit/process"
)

// Decoder converts an audio file of any supported container into a mono
// 16-bit PCM WAV file at the requested rate.
type Decoder interface {
	Decode(ctx context.Context, inPath, outPath string, sampleRate int) error
}

// FFmpegDecoder decodes through the ffmpeg binary.
type FFmpegDecoder struct {
	Binary  string
	Timeout time.Duration
}

// NewFFmpegDecoder creates a decoder from the audio config.
func NewFFmpegDecoder(cfg Config) *FFmpegDecoder {
	cfg.ApplyDefaults()
	return &FFmpegDecoder{Binary: cfg.FFmpegPath, Timeout: cfg.DecodeTimeout}
}

// Decode runs ffmpeg -i inPath -ac 1 -ar rate -f wav outPath.
func (d *FFmpegDecoder) Decode(ctx context.Context, inPath, outPath string, sampleRate int) error {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	res, err := process.Run(ctx, process.Command{
		Binary: d.Binary,
		Args:   ffmpegArgs(inPath, outPath, sampleRate),
	})
	if err != nil {
		if tail := res.StderrTail(3); tail != "" {
			return fmt.Errorf("ffmpeg: %s: %w", strings.ReplaceAll(tail, "\n", "; "), err)
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

func ffmpegArgs(inPath, outPath string, sampleRate int) []string {
	return []string{
		"-nostdin", "-hide_banner", "-loglevel", "error",
		"-y", "-i", inPath,
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-f", "wav", "-acodec", "pcm_s16le",
		outPath,
	}
}
