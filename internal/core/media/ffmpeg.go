package media

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	perr "birdspot/internal/platform/errors"
	"birdspot/internal/platform/logger"

	"github.com/go-audio/wav"
)

// SampleRate of trimmed clips
const SampleRate = 22050

// spectrogramFilter keeps the 800Hz to 11kHz band where most song sits, on a log axis
const spectrogramFilter = "highpass=f=800,lowpass=f=11000," +
	"showspectrumpic=s=1200x600:scale=log:color=intensity:legend=disabled"

// runner executes a command and returns its stderr on failure
type runner func(ctx context.Context, name string, args ...string) error

// ffmpegError carries the tail of ffmpeg stderr
type ffmpegError struct {
	err    error
	stderr string
}

func (e *ffmpegError) Error() string {
	if e.stderr == "" {
		return e.err.Error()
	}
	return e.err.Error() + ": " + e.stderr
}

func (e *ffmpegError) Unwrap() error { return e.err }

func execRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec // binary from config, args built here
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 512 {
			msg = msg[len(msg)-512:]
		}
		return &ffmpegError{err: err, stderr: msg}
	}
	return nil
}

// Trim cuts raw audio to TrimSeconds of mono SampleRate WAV
func (p *Processor) Trim(ctx context.Context, raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, perr.Validationf("audio is empty")
	}
	out, err := p.transcode(ctx, raw, "in_audio", "out.wav",
		"-t", strconv.Itoa(p.opts.TrimSeconds),
		"-ac", "1",
		"-ar", strconv.Itoa(SampleRate),
	)
	if err != nil {
		return nil, p.classify(ctx, err, perr.ErrorCodeInvalidArgument, "audio could not be decoded")
	}
	if err := CheckWAV(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Spectrogram renders a trimmed clip as a single PNG frame
func (p *Processor) Spectrogram(ctx context.Context, wavBytes []byte) ([]byte, error) {
	out, err := p.transcode(ctx, wavBytes, "audio.wav", "spectrogram.png",
		"-lavfi", spectrogramFilter,
		"-frames:v", "1",
	)
	if err != nil {
		return nil, p.classify(ctx, err, perr.ErrorCodeUnknown, "spectrogram rendering failed")
	}
	return out, nil
}

// transcode stages in under a temp dir and runs ffmpeg -y -i in <args> out
func (p *Processor) transcode(ctx context.Context, in []byte, inName, outName string, args ...string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "birdspot-media-")
	if err != nil {
		return nil, err
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			logger.C(ctx).Warn().Err(rmErr).Str("dir", dir).Msg("media temp cleanup failed")
		}
	}()

	inPath := filepath.Join(dir, inName)
	outPath := filepath.Join(dir, outName)
	if err := os.WriteFile(inPath, in, 0o600); err != nil {
		return nil, err
	}

	argv := append([]string{"-hide_banner", "-loglevel", "error", "-y", "-i", inPath}, args...)
	argv = append(argv, outPath)
	if err := p.run(ctx, p.opts.FFmpegPath, argv...); err != nil {
		return nil, err
	}
	return os.ReadFile(outPath)
}

func (p *Processor) classify(ctx context.Context, err error, code perr.ErrorCode, msg string) error {
	switch {
	case ctx.Err() != nil:
		return perr.Wrap(ctx.Err(), perr.ErrorCodeUnavailable, "media processing timed out")
	case errors.Is(err, exec.ErrNotFound):
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "ffmpeg not available at %s", p.opts.FFmpegPath)
	default:
		return perr.Wrap(err, code, msg)
	}
}

// CheckWAV requires a well formed WAV carrying at least one sample
func CheckWAV(b []byte) error {
	d := wav.NewDecoder(bytes.NewReader(b))
	d.ReadInfo()
	if !d.IsValidFile() {
		return perr.InvalidArgf("trimmed audio is not a valid wav")
	}
	if err := d.FwdToPCM(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeInvalidArgument, "trimmed audio has no pcm data")
	}
	frame := int64(d.NumChans) * int64(d.BitDepth/8)
	if frame <= 0 || d.PCMLen() < frame {
		return perr.InvalidArgf("trimmed audio has no samples")
	}
	return nil
}
