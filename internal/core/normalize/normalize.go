// Package normalize turns loosely typed provider replies into bounded responses
//
// Every function here is total: malformed input falls back to defaults and never errors.
// Output always carries exactly Size predictions with confidences in [0,1].
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"birdspot/internal/core/catalog"
)

// Identify normalizes an identify reply and cross references it against cat
// Cached and InputBytes are left for the caller
func Identify(raw map[string]any, cat *catalog.Catalog) Identification {
	list, _ := raw["predictions"].([]any)
	if len(list) > Size {
		list = list[:Size]
	}

	out := make([]Prediction, 0, Size)
	for _, item := range list {
		entry, _ := item.(map[string]any)
		out = append(out, prediction(entry, cat))
	}
	for len(out) < Size {
		out = append(out, placeholder())
	}

	notes, _ := raw["notes"].(string)
	return Identification{Predictions: out, Notes: notes}
}

func prediction(entry map[string]any, cat *catalog.Catalog) Prediction {
	p := Prediction{
		SpeciesName:    Text(entry["species_name"]),
		ScientificName: Text(entry["scientific_name"]),
		Confidence:     Clamp(Float(entry["confidence"])),
		Reason:         Text(entry["reason"]),
	}
	if e, ok := cat.Match(p.SpeciesName, p.ScientificName); ok {
		id := e.ID
		p.SpeciesID = &id
		p.SpeciesName = e.SpeciesName
		p.ScientificName = e.ScientificName
		p.MatchedToDB = true
	}
	return p
}

// Text returns v trimmed when it is a string and "" otherwise
func Text(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// Float coerces numbers and numeric strings, everything else is 0
// NaN collapses to 0 so it never reaches Clamp
func Float(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = n
	default:
		return 0
	}
	if math.IsNaN(f) {
		return 0
	}
	return f
}

// Clamp bounds f to [0,1]
func Clamp(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
