// Package personalize rewrites draft text in a user's voice, recording
// every transform it applies.
package personalize

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRequest is returned for requests with an empty body or an
// unknown purpose, tone or length.
var ErrInvalidRequest = errors.New("personalize: invalid request")

// Purpose is what the rewritten text is for.
type Purpose string

const (
	PurposeResponse   Purpose = "response"
	PurposeSuggestion Purpose = "suggestion"
	PurposeDraft      Purpose = "draft"
	PurposeExample    Purpose = "example"
)

// Tone pins the rewrite to a preset instead of the user's measured tone.
type Tone string

const (
	ToneAuto         Tone = ""
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneFriendly     Tone = "friendly"
	ToneFormal       Tone = "formal"
)

// Length overrides the length shaping derived from the profile.
type Length string

const (
	LengthAuto   Length = ""
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// Request is one rewrite call. An empty Purpose means PurposeDraft. Emoji,
// when set, forces emoji on or off regardless of the profile; off also
// removes the emoji already in Content.
type Request struct {
	Content              string  `json:"content"`
	Purpose              Purpose `json:"purpose"`
	Tone                 Tone    `json:"tone,omitempty"`
	Length               Length  `json:"length,omitempty"`
	Emoji                *bool   `json:"emoji,omitempty"`
	Context              string  `json:"context,omitempty"`
	GenerateAlternatives bool    `json:"generate_alternatives,omitempty"`
}

func (r Request) validate() (Request, error) {
	if strings.TrimSpace(r.Content) == "" {
		return r, fmt.Errorf("%w: empty content", ErrInvalidRequest)
	}
	switch r.Purpose {
	case "":
		r.Purpose = PurposeDraft
	case PurposeResponse, PurposeSuggestion, PurposeDraft, PurposeExample:
	default:
		return r, fmt.Errorf("%w: purpose %q", ErrInvalidRequest, r.Purpose)
	}
	switch r.Tone {
	case ToneAuto, ToneProfessional, ToneCasual, ToneFriendly, ToneFormal:
	default:
		return r, fmt.Errorf("%w: tone %q", ErrInvalidRequest, r.Tone)
	}
	switch r.Length {
	case LengthAuto, LengthShort, LengthMedium, LengthLong:
	default:
		return r, fmt.Errorf("%w: length %q", ErrInvalidRequest, r.Length)
	}
	return r, nil
}

// Application is one transform that fired.
type Application struct {
	Stage     string `json:"stage"`
	Transform string `json:"transform"`
	Detail    string `json:"detail,omitempty"`
}

func (a Application) String() string {
	if a.Detail == "" {
		return a.Stage + "/" + a.Transform
	}
	return a.Stage + "/" + a.Transform + " (" + a.Detail + ")"
}

// Alternative is an extra variant rendered with a pinned tone.
type Alternative struct {
	Tone             Tone          `json:"tone"`
	Content          string        `json:"content"`
	StyleApplication []Application `json:"style_application"`
	ConfidenceScore  float64       `json:"confidence_score"`
}

// Result is the outcome of a rewrite.
type Result struct {
	OriginalContent     string        `json:"original_content"`
	PersonalizedContent string        `json:"personalized_content"`
	StyleApplication    []Application `json:"style_application"`
	ConfidenceScore     float64       `json:"confidence_score"`
	Alternatives        []Alternative `json:"alternatives"`
}
