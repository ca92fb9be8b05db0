// Package media normalizes uploads before they are fingerprinted
//
// Photos are decoded and re-encoded in process. Audio goes through ffmpeg,
// which must be on PATH or configured with MEDIA_FFMPEG_PATH.
package media

import (
	"birdspot/internal/platform/config"
)

// DefaultMaxPixels bounds decoded photos to roughly a 40 megapixel frame
const DefaultMaxPixels = 40_000_000

// Options configures a Processor
type Options struct {
	MaxImageSize int
	// MaxPixels caps width*height of an upload as declared by its header
	MaxPixels    int64
	TrimSeconds  int
	FFmpegPath   string
}

// FromConfig reads MEDIA_* settings
func FromConfig(cfg config.Conf) Options {
	mc := cfg.Prefix("MEDIA_")
	return Options{
		MaxImageSize: mc.MayInt("MAX_IMAGE_SIZE", 1024),
		MaxPixels:    int64(mc.MayInt("MAX_PIXELS", DefaultMaxPixels)),
		TrimSeconds:  mc.MayInt("AUDIO_TRIM_SECONDS", 6),
		FFmpegPath:   mc.MayString("FFMPEG_PATH", "ffmpeg"),
	}
}

// Processor turns raw uploads into the canonical bytes the pipeline hashes
type Processor struct {
	opts Options
	run  runner
}

// New builds a Processor, filling zero options with defaults
func New(opts Options) *Processor {
	if opts.MaxImageSize <= 0 {
		opts.MaxImageSize = 1024
	}
	if opts.MaxPixels <= 0 {
		opts.MaxPixels = DefaultMaxPixels
	}
	if opts.TrimSeconds <= 0 {
		opts.TrimSeconds = 6
	}
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	return &Processor{opts: opts, run: execRunner}
}

// Options returns the effective options
func (p *Processor) Options() Options { return p.opts }
