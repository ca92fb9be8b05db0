// Package service runs the photo, sound and validate identification flows
//
// Every flow fingerprints the normalized media and answers from the result cache when it can.
// A miss is charged to the caller's daily quota before any inference spend, then the provider
// reply is normalized, stored and logged.
package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"birdspot/internal/adapters/inference"
	"birdspot/internal/core/catalog"
	"birdspot/internal/core/fingerprint"
	"birdspot/internal/core/normalize"
	"birdspot/internal/core/prompt"
	perr "birdspot/internal/platform/errors"
	"birdspot/internal/platform/logger"
	"birdspot/internal/platform/metrics"
	pnet "birdspot/internal/platform/net"
	pstrings "birdspot/internal/platform/strings"
	"birdspot/internal/services/identify/domain"
	quotadom "birdspot/internal/services/quota/domain"
	cachedom "birdspot/internal/services/resultcache/domain"
	usagedom "birdspot/internal/services/usage/domain"

	"golang.org/x/sync/singleflight"
)

// Config carries collaborators and flow switches
type Config struct {
	Catalog  *catalog.Catalog
	Media    domain.Media
	Cache    cachedom.Port
	Quota    quotadom.EnforcerPort
	Usage    usagedom.RecorderPort
	Provider inference.Provider
	// Transcriber, when set, adds a transcript to sound identifications
	Transcriber inference.Transcriber
	Metrics     *metrics.Metrics

	// Canonical sorts candidate ids before the validate fingerprint
	Canonical bool
	// Collapse shares one inference call between concurrent misses of a key
	Collapse bool
}

// Svc implements domain.Port
type Svc struct {
	cfg    Config
	flight singleflight.Group
}

var _ domain.Port = (*Svc)(nil)

// New constructs the service
func New(cfg Config) *Svc {
	switch {
	case cfg.Media == nil:
		panic("identify.Service requires Media")
	case cfg.Cache == nil:
		panic("identify.Service requires a result cache")
	case cfg.Quota == nil:
		panic("identify.Service requires a quota enforcer")
	case cfg.Usage == nil:
		panic("identify.Service requires a usage recorder")
	case cfg.Provider == nil:
		panic("identify.Service requires an inference provider")
	}
	return &Svc{cfg: cfg}
}

// call is one request moving through a flow
type call struct {
	flow     string
	endpoint string
	key      string
	caller   pnet.Caller
	input    int
}

// Photo identifies the bird in an uploaded image
func (s *Svc) Photo(ctx context.Context, in domain.PhotoInput) (domain.Identification, error) {
	var out domain.Identification
	png, err := s.cfg.Media.Photo(ctx, in.Image)
	if err != nil {
		return out, err
	}
	c := call{flow: domain.FlowPhoto, endpoint: domain.EndpointPhoto, key: fingerprint.PhotoKey(png), caller: in.Caller, input: len(png)}

	if hit, err := s.lookup(ctx, c, &out); err != nil || hit {
		out.Cached = hit
		return out, err
	}
	if err := s.enforce(ctx, c); err != nil {
		return domain.Identification{}, err
	}
	raw, err := s.infer(ctx, c, inference.Request{System: prompt.System, User: prompt.Photo, ImagePNG: png})
	if err != nil {
		return domain.Identification{}, err
	}
	out = normalize.Identify(raw, s.cfg.Catalog)
	out.Cached = false
	out.InputBytes = c.input
	return out, s.save(ctx, c, out)
}

// Sound identifies the bird in an uploaded clip from its spectrogram
func (s *Svc) Sound(ctx context.Context, in domain.SoundInput) (domain.Identification, error) {
	var out domain.Identification
	wav, err := s.cfg.Media.Trim(ctx, in.Audio)
	if err != nil {
		return out, err
	}
	c := call{flow: domain.FlowSound, endpoint: domain.EndpointSound, key: fingerprint.AudioKey(wav), caller: in.Caller, input: len(wav)}

	if hit, err := s.lookup(ctx, c, &out); err != nil || hit {
		out.Cached = hit
		return out, err
	}
	if err := s.enforce(ctx, c); err != nil {
		return domain.Identification{}, err
	}
	png, err := s.cfg.Media.Spectrogram(ctx, wav)
	if err != nil {
		return domain.Identification{}, err
	}
	transcript := s.transcribe(ctx, wav)
	raw, err := s.infer(ctx, c, inference.Request{System: prompt.System, User: prompt.SoundWith(transcript), ImagePNG: png})
	if err != nil {
		return domain.Identification{}, err
	}
	out = normalize.Identify(raw, s.cfg.Catalog)
	out.Cached = false
	out.InputBytes = c.input
	out.Transcript = transcript
	return out, s.save(ctx, c, out)
}

// Validate checks a clip against a target species and its candidate list
func (s *Svc) Validate(ctx context.Context, in domain.ValidateInput) (domain.Validation, error) {
	var out domain.Validation
	target := strings.TrimSpace(in.TargetID)
	if target == "" {
		return out, perr.WithField(perr.Validationf("target_species_id is required"), "target_species_id")
	}
	ids := CandidateIDs(in.CandidateIDs)

	wav, err := s.cfg.Media.Trim(ctx, in.Audio)
	if err != nil {
		return out, err
	}
	c := call{
		flow:     domain.FlowValidate,
		endpoint: domain.EndpointValidate,
		key:      fingerprint.ValidateKey(wav, target, ids, s.cfg.Canonical),
		caller:   in.Caller,
		input:    len(wav),
	}

	if hit, err := s.lookup(ctx, c, &out); err != nil || hit {
		out.Cached = hit
		return out, err
	}
	if err := s.enforce(ctx, c); err != nil {
		return domain.Validation{}, err
	}
	png, err := s.cfg.Media.Spectrogram(ctx, wav)
	if err != nil {
		return domain.Validation{}, err
	}
	ref := normalize.Target(target, s.cfg.Catalog)
	user := prompt.Validate(prompt.ValidateInput{
		TargetID:             target,
		TargetName:           ref.SpeciesName,
		TargetScientificName: ref.ScientificName,
		Candidates:           normalize.CandidateBlock(ids, s.cfg.Catalog),
		Location:             in.Location,
		Season:               in.Season,
		Habitat:              in.Habitat,
	})
	raw, err := s.infer(ctx, c, inference.Request{System: prompt.ValidateSystem, User: user, ImagePNG: png})
	if err != nil {
		return domain.Validation{}, err
	}
	out = normalize.Validate(raw, ref, s.cfg.Catalog)
	out.Cached = false
	out.InputBytes = c.input
	return out, s.save(ctx, c, out)
}

// CandidateIDs splits comma separated values, trims them and drops blanks; order is kept
func CandidateIDs(values []string) []string { return pstrings.SplitList(values...) }

// cachedResult is a response type that can tell a normalized answer from a foreign value
type cachedResult interface{ WellFormed() bool }

// lookup decodes a cached response into dst and logs the hit
// an entry that does not decode or is not well formed is treated as a miss and overwritten later
func (s *Svc) lookup(ctx context.Context, c call, dst cachedResult) (bool, error) {
	raw, ok, err := s.cfg.Cache.Get(ctx, c.key)
	if err != nil {
		return false, err
	}
	if ok {
		if err := json.Unmarshal(raw, dst); err != nil {
			logger.C(ctx).Warn().Err(err).Str("key", c.key).Msg("cached result undecodable, recomputing")
			ok = false
		} else if !dst.WellFormed() {
			logger.C(ctx).Warn().Str("key", c.key).Msg("cached result malformed, recomputing")
			ok = false
		}
	}
	s.cfg.Metrics.CacheLookup(c.flow, ok)
	logger.C(ctx).Debug().Str("flow", c.flow).Str("key", c.key).Bool("hit", ok).Msg("result cache lookup")
	if !ok {
		return false, nil
	}
	return true, s.record(ctx, c, true)
}

func (s *Svc) enforce(ctx context.Context, c call) error {
	_, err := s.cfg.Quota.Enforce(ctx, quotadom.Caller{Identity: c.caller.Identity, Explicit: c.caller.Explicit})
	return err
}

// infer asks the provider, optionally sharing one call between concurrent misses of c.key
// a shared call is detached from any single caller; each caller still stops waiting on its own ctx
func (s *Svc) infer(ctx context.Context, c call, req inference.Request) (map[string]any, error) {
	do := func(ctx context.Context) (map[string]any, error) {
		start := time.Now()
		raw, err := s.cfg.Provider.Infer(ctx, req)
		d := time.Since(start)
		s.cfg.Metrics.ObserveInference(c.flow, d, err)
		ev := logger.C(ctx).Info()
		if err != nil {
			ev = logger.C(ctx).Error().Err(err)
		}
		ev.Str("flow", c.flow).Str("model", s.cfg.Provider.Model()).Dur("took", d).Msg("inference")
		return raw, err
	}
	if !s.cfg.Collapse {
		return do(ctx)
	}
	shared := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(c.key, func() (any, error) { return do(shared) })
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			logger.C(ctx).Debug().Str("key", c.key).Msg("inference shared with a concurrent miss")
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(map[string]any), nil
	}
}

func (s *Svc) transcribe(ctx context.Context, wav []byte) string {
	if s.cfg.Transcriber == nil {
		return ""
	}
	text, err := s.cfg.Transcriber.Transcribe(ctx, wav)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Msg("transcription failed, continuing without it")
		return ""
	}
	return strings.TrimSpace(text)
}

// save stores the fresh response and logs the miss
func (s *Svc) save(ctx context.Context, c call, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "encode result")
	}
	if err := s.cfg.Cache.Set(ctx, c.key, b); err != nil {
		return err
	}
	return s.record(ctx, c, false)
}

func (s *Svc) record(ctx context.Context, c call, cached bool) error {
	return s.cfg.Usage.Log(ctx, usagedom.Entry{
		Identity:    c.caller.Identity,
		IP:          c.caller.IP,
		Endpoint:    c.endpoint,
		Fingerprint: c.key,
		Cached:      cached,
		Model:       s.cfg.Provider.Model(),
		InputBytes:  int64(c.input),
	})
}
