// Package prompt holds the fixed instructions sent with every inference request
package prompt

import (
	"strings"

	pstrings "birdspot/internal/platform/strings"
)

// System frames the identify flows for photos and spectrograms alike
const System = `You are a field ornithologist identifying birds from a photo or from a spectrogram of a recording.

Rules:
- Reply with a single JSON object and nothing else.
- Give exactly three predictions, most likely first.
- Confidence is a number between 0 and 1; lower it whenever you are unsure.
- Base reasons on visible or audible evidence such as plumage, bill shape, habitat or call structure.
- If the input shows no bird or too little detail, answer "unknown" with low confidence.`

// Photo is the user turn sent with a photo
const Photo = `Identify the bird in this image.

Reply using this JSON shape:
{
  "predictions": [
    {"species_name": "...", "scientific_name": "...", "confidence": 0.0, "reason": "..."}
  ],
  "notes": "optional short note"
}

Keep each reason to one short sentence.`

// Sound is the user turn sent with a spectrogram
const Sound = `This image is a log frequency spectrogram of a bird recording, band limited to 800Hz-11kHz.

Read it the way you would read a sonogram:
- smooth lines are whistles
- fast repeated strokes are trills
- short vertical bursts are chirps
- stacked parallel lines are harmonics

Identify the most likely species from the pattern and reply using this JSON shape:
{
  "predictions": [
    {"species_name": "...", "scientific_name": "...", "confidence": 0.0, "reason": "..."}
  ],
  "notes": "optional short note"
}

Return exactly three predictions with confidence between 0 and 1.`

// SoundWith appends a speech to text transcript of the clip to Sound
func SoundWith(transcript string) string {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return Sound
	}
	return Sound + "\n\nA speech to text pass over the same clip heard: \"" + transcript + "\". It may be noise; use it only as a hint."
}

// ValidateSystem frames the validate flow
const ValidateSystem = `You are an ornithologist who specialises in bird vocalisations.
You receive a spectrogram rendered from a recording.

You are not identifying from every bird in the world. You are checking whether the recording
matches a TARGET species and which species from a short candidate list fits it best.

Rules:
- Reply with a single JSON object and nothing else.
- Only choose from the candidate list.
- If the recording is too noisy or too short, answer "uncertain".
- If the target is not the best fit, answer "mismatch" and name the better candidate.
- Keep the explanation short and practical.`

// ValidateInput fills the validate user turn
type ValidateInput struct {
	TargetID             string
	TargetName           string
	TargetScientificName string
	Candidates           string
	Location             string
	Season               string
	Habitat              string
}

const validateTemplate = `TARGET species, chosen from an earlier photo identification:
- species_id: {target_id}
- species_name: {target_name}
- scientific_name: {target_sci}

CANDIDATES, also from that photo identification; pick the best fit among them:
{candidates}

Context:
- location: {location}
- month/season: {season}
- habitat: {habitat}

Reply using this JSON shape:
{
  "target_species_id": "{target_id}",
  "best_match_species_id": "...",
  "match": "confirmed" | "uncertain" | "mismatch",
  "match_confidence": 0.0,
  "explanation": "short explanation",
  "best_alternative_species_id": "...",
  "best_alternative_confidence": 0.0
}

Decide like this:
- Poor audio: match "uncertain" with match_confidence at most 0.55.
- Best match is the target with confidence 0.65 or more: "confirmed".
- Best match is another candidate with confidence 0.65 or more: "mismatch".
- Anything else: "uncertain".`

// Validate renders the validate user turn; blank context fields read as unknown
func Validate(in ValidateInput) string {
	r := strings.NewReplacer(
		"{target_id}", in.TargetID,
		"{target_name}", in.TargetName,
		"{target_sci}", in.TargetScientificName,
		"{candidates}", in.Candidates,
		"{location}", orUnknown(in.Location),
		"{season}", orUnknown(in.Season),
		"{habitat}", orUnknown(in.Habitat),
	)
	return r.Replace(validateTemplate)
}

func orUnknown(s string) string { return pstrings.OrDefault(strings.TrimSpace(s), "unknown") }
