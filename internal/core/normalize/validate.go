package normalize

import (
	"strconv"
	"strings"

	"birdspot/internal/core/catalog"
)

// Target resolves the species a validation is checked against
// unknown ids keep the id with an "unknown" name
func Target(id string, cat *catalog.Catalog) SpeciesRef {
	if e, ok := cat.ByID(id); ok {
		return ref(e)
	}
	return SpeciesRef{ID: &id, SpeciesName: "unknown"}
}

// CandidateBlock renders the candidate listing for the validate prompt, one line per id
func CandidateBlock(ids []string, cat *catalog.Catalog) string {
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		if e, ok := cat.ByID(id); ok {
			lines = append(lines, "- "+e.ID+" | "+e.SpeciesName+" | "+e.ScientificName)
			continue
		}
		lines = append(lines, "- "+id+" | unknown |")
	}
	return strings.Join(lines, "\n")
}

// Validate normalizes a validation reply
// target is what the request asked about; a reply target_species_id replaces it
func Validate(raw map[string]any, target SpeciesRef, cat *catalog.Catalog) Validation {
	out := Validation{
		TargetSpecies:             target,
		BestMatch:                 resolve(raw["best_match_species_id"], cat),
		BestAlternative:           resolve(raw["best_alternative_species_id"], cat),
		Match:                     MatchUncertain,
		MatchConfidence:           Clamp(Float(raw["match_confidence"])),
		BestAlternativeConfidence: Clamp(Float(raw["best_alternative_confidence"])),
	}
	if id, ok := idOf(raw["target_species_id"]); ok {
		out.TargetSpecies = Target(id, cat)
	}
	if m, ok := raw["match"].(string); ok {
		out.Match = m
	}
	out.Explanation, _ = raw["explanation"].(string)
	return out
}

func resolve(v any, cat *catalog.Catalog) SpeciesRef {
	id, ok := idOf(v)
	if !ok {
		return SpeciesRef{SpeciesName: "unknown"}
	}
	return Target(id, cat)
}

// idOf accepts string ids and integral numbers; blank means absent
func idOf(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		x = strings.TrimSpace(x)
		return x, x != ""
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10), true
		}
	}
	return "", false
}

func ref(e catalog.Entry) SpeciesRef {
	id := e.ID
	return SpeciesRef{ID: &id, SpeciesName: e.SpeciesName, ScientificName: e.ScientificName}
}
