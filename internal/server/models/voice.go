package models

import "strings"

// VoicePart is the vocal category of a member or the part a score is written for.
// The zero value means "not set".
type VoicePart string

const (
	VoiceNone    VoicePart = ""
	VoiceSoprano VoicePart = "soprano"
	VoiceAlto    VoicePart = "alto"
	VoiceTenor   VoicePart = "tenor"
	VoiceBass    VoicePart = "bass"
)

// VoiceParts lists every valid non-empty voice part.
var VoiceParts = []VoicePart{VoiceSoprano, VoiceAlto, VoiceTenor, VoiceBass}

// ParseVoicePart accepts a voice part name in any case. An empty string
// parses to VoiceNone.
func ParseVoicePart(s string) (VoicePart, bool) {
	v := VoicePart(strings.ToLower(strings.TrimSpace(s)))
	if v == VoiceNone {
		return VoiceNone, true
	}
	for _, known := range VoiceParts {
		if v == known {
			return v, true
		}
	}
	return VoiceNone, false
}
