// Package fingerprint derives content addressed cache keys from normalized media
//
// Digests are lowercase hex sha256. Callers must normalize media before hashing;
// nothing here resizes or transcodes, so a key never shifts when media handling changes.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
)

// Key prefixes, one per flow
const (
	PhotoPrefix    = "photo_"
	AudioPrefix    = "audio_"
	ValidatePrefix = "validate_"
)

// Sum returns the hex sha256 of b
func Sum(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// Validate hashes media, then targetID, then the comma joined candidate ids
// candidate order is significant unless canonical is set, which sorts a copy first
func Validate(media []byte, targetID string, candidateIDs []string, canonical bool) string {
	ids := candidateIDs
	if canonical {
		ids = slices.Clone(candidateIDs)
		slices.Sort(ids)
	}
	h := sha256.New()
	h.Write(media)
	h.Write([]byte(targetID))
	h.Write([]byte(strings.Join(ids, ",")))
	return hex.EncodeToString(h.Sum(nil))
}

// PhotoKey is the cache key of a normalized photo
func PhotoKey(png []byte) string { return PhotoPrefix + Sum(png) }

// AudioKey is the cache key of a trimmed clip
func AudioKey(wav []byte) string { return AudioPrefix + Sum(wav) }

// ValidateKey is the cache key of a validation request
func ValidateKey(wav []byte, targetID string, candidateIDs []string, canonical bool) string {
	return ValidatePrefix + Validate(wav, targetID, candidateIDs, canonical)
}

// Valid reports whether key is one of ours: a known prefix plus 64 lowercase hex chars
func Valid(key string) bool {
	for _, p := range []string{PhotoPrefix, AudioPrefix, ValidatePrefix} {
		if rest, ok := strings.CutPrefix(key, p); ok {
			return isDigest(rest)
		}
	}
	return false
}

func isDigest(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
