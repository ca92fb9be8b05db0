// Package http provides the upload endpoints for the identification flows
package http

import (
	stdhttp "net/http"

	"birdspot/internal/modkit/httpkit"
	"birdspot/internal/platform/net/http/bind"
	"birdspot/internal/services/identify/domain"
)

// content types accepted per upload field
var (
	imageTypes = []string{"image/"}
	audioTypes = []string{"", "audio/", "application/octet-stream"}
)

// ValidateForm are the non file fields of a validate upload
// candidate_species_ids may be repeated or comma separated
type ValidateForm struct {
	TargetSpeciesID     string   `form:"target_species_id" validate:"required,max=128" example:"amerob"`
	CandidateSpeciesIDs []string `form:"candidate_species_ids" example:"amerob,norcar"`
	Location            string   `form:"location" validate:"max=200" example:"Ohio, USA"`
	Season              string   `form:"season" validate:"max=100" example:"May"`
	Habitat             string   `form:"habitat" validate:"max=200" example:"suburban garden"`
}

// Register mounts the identify routes
func Register(r httpkit.Router, s domain.Port) {
	h := &handlers{svc: s}

	httpkit.Post(r, "/identify/photo", h.photo)
	httpkit.Post(r, "/identify/sound", h.sound)
	httpkit.PostForm[ValidateForm](r, "/validate/sound", h.validate)
}

type handlers struct{ svc domain.Port }

func upload(r *stdhttp.Request, field string, allowed []string) (bind.Upload, error) {
	u, err := bind.File(r, field, bind.DefaultMaxMemory)
	if err != nil {
		return u, err
	}
	return u, bind.RequireContentType(u, allowed...)
}

// swagger:route POST /api/identify/photo Identify identifyPhoto
// @Summary Identify the bird in a photo
// @Tags Identify
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Photo (image/*)"
// @Success 200 {object} domain.Identification "ok"
// @Failure 400 {object} httpkit.Envelope "missing or wrong upload"
// @Failure 422 {object} httpkit.Envelope "undecodable image"
// @Failure 429 {object} httpkit.Envelope "daily limit reached"
// @Router /api/identify/photo [post]
func (h *handlers) photo(r *stdhttp.Request) (any, error) {
	u, err := upload(r, "image", imageTypes)
	if err != nil {
		return nil, err
	}
	return h.svc.Photo(r.Context(), domain.PhotoInput{Caller: httpkit.Caller(r), Image: u.Data})
}

// swagger:route POST /api/identify/sound Identify identifySound
// @Summary Identify the bird in an audio clip
// @Tags Identify
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Clip (audio/*)"
// @Success 200 {object} domain.Identification "ok"
// @Failure 400 {object} httpkit.Envelope "missing or wrong upload"
// @Failure 422 {object} httpkit.Envelope "undecodable audio"
// @Failure 429 {object} httpkit.Envelope "daily limit reached"
// @Router /api/identify/sound [post]
func (h *handlers) sound(r *stdhttp.Request) (any, error) {
	u, err := upload(r, "audio", audioTypes)
	if err != nil {
		return nil, err
	}
	return h.svc.Sound(r.Context(), domain.SoundInput{Caller: httpkit.Caller(r), Audio: u.Data})
}

// swagger:route POST /api/validate/sound Identify validateSound
// @Summary Check a clip against a target species and candidates
// @Tags Identify
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Clip (audio/*)"
// @Param target_species_id formData string true "Target species id"
// @Param candidate_species_ids formData []string false "Candidate ids"
// @Param location formData string false "Location"
// @Param season formData string false "Month or season"
// @Param habitat formData string false "Habitat"
// @Success 200 {object} domain.Validation "ok"
// @Failure 400 {object} httpkit.Envelope "missing or wrong upload"
// @Failure 429 {object} httpkit.Envelope "daily limit reached"
// @Router /api/validate/sound [post]
func (h *handlers) validate(r *stdhttp.Request, in ValidateForm) (any, error) {
	u, err := upload(r, "audio", audioTypes)
	if err != nil {
		return nil, err
	}
	return h.svc.Validate(r.Context(), domain.ValidateInput{
		Caller:       httpkit.Caller(r),
		Audio:        u.Data,
		TargetID:     in.TargetSpeciesID,
		CandidateIDs: in.CandidateSpeciesIDs,
		Location:     in.Location,
		Season:       in.Season,
		Habitat:      in.Habitat,
	})
}
