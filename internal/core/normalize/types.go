package normalize

// Prediction is one ranked candidate species
type Prediction struct {
	SpeciesID      *string `json:"species_id" example:"amerob"`
	SpeciesName    string  `json:"species_name" example:"American Robin"`
	ScientificName string  `json:"scientific_name" example:"Turdus migratorius"`
	Confidence     float64 `json:"confidence" example:"0.82"`
	Reason         string  `json:"reason" example:"orange breast, grey back"`
	MatchedToDB    bool    `json:"matched_to_db" example:"true"`
}

// Identification is the identify response body
type Identification struct {
	Predictions []Prediction `json:"predictions"`
	Notes       string       `json:"notes"`
	Cached      bool         `json:"cached"`
	InputBytes  int          `json:"input_bytes" example:"48211"`
	Transcript  string       `json:"transcript,omitempty"`
}

// WellFormed reports whether r holds the fixed number of predictions
func (r Identification) WellFormed() bool { return len(r.Predictions) == Size }

// SpeciesRef names a species in a validation answer; ID is null when the reply named none
type SpeciesRef struct {
	ID             *string `json:"id" example:"amerob"`
	SpeciesName    string  `json:"species_name" example:"American Robin"`
	ScientificName string  `json:"scientific_name" example:"Turdus migratorius"`
}

// Validation is the validate response body
type Validation struct {
	TargetSpecies             SpeciesRef `json:"target_species"`
	BestMatch                 SpeciesRef `json:"best_match"`
	BestAlternative           SpeciesRef `json:"best_alternative"`
	Match                     string     `json:"match" example:"confirmed"`
	MatchConfidence           float64    `json:"match_confidence" example:"0.71"`
	BestAlternativeConfidence float64    `json:"best_alternative_confidence" example:"0.12"`
	Explanation               string     `json:"explanation"`
	Cached                    bool       `json:"cached"`
	InputBytes                int        `json:"input_bytes" example:"264644"`
}

// WellFormed reports whether v carries a verdict; normalized answers always do
func (v Validation) WellFormed() bool { return v.Match != "" }

// Match verdicts the provider is asked for
const (
	MatchConfirmed = "confirmed"
	MatchUncertain = "uncertain"
	MatchMismatch  = "mismatch"
)

// Size is the fixed number of predictions in every identification
const Size = 3

// placeholder pads short prediction lists
func placeholder() Prediction {
	return Prediction{SpeciesName: "unknown", Confidence: 0.1}
}
