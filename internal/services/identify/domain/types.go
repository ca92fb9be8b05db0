package domain

import (
	"birdspot/internal/core/normalize"
	pnet "birdspot/internal/platform/net"
)

// Response bodies
type (
	Identification = normalize.Identification
	Validation     = normalize.Validation
	Prediction     = normalize.Prediction
	SpeciesRef     = normalize.SpeciesRef
)

// Endpoint labels recorded in the usage log
const (
	EndpointPhoto    = "/api/identify/photo"
	EndpointSound    = "/api/identify/sound"
	EndpointValidate = "/api/validate/sound"
)

// Flow names used in metrics
const (
	FlowPhoto    = "photo"
	FlowSound    = "sound"
	FlowValidate = "validate"
)

// PhotoInput is an uploaded image
type PhotoInput struct {
	Caller pnet.Caller
	Image  []byte
}

// SoundInput is an uploaded clip
type SoundInput struct {
	Caller pnet.Caller
	Audio  []byte
}

// ValidateInput checks a clip against a target chosen from an earlier photo identification
type ValidateInput struct {
	Caller       pnet.Caller
	Audio        []byte
	TargetID     string
	CandidateIDs []string
	Location     string
	Season       string
	Habitat      string
}
