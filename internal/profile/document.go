package profile

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/voiceprint/voiceprint/internal/style"
)

// legacyDocument is the flat schema-1 profile layout. It carried the style
// profile and business info but no memory, insights or evolution.
type legacyDocument struct {
	UserID        string        `json:"user_id"`
	Version       int           `json:"version"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Business      BusinessInfo  `json:"business"`
	Style         style.Profile `json:"style"`
	TotalMessages int           `json:"total_messages"`
	Projects      []string      `json:"projects"`
	Motivations   []string      `json:"motivations"`
}

// Encode serialises p as a stored profile document.
func Encode(p *MasterProfile) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("profile: encode: %w", err)
	}
	return data, nil
}

// Decode parses a stored profile document, upgrading schema-1 documents to
// the current layout. The result is normalized.
func Decode(data []byte) (*MasterProfile, error) {
	var head struct {
		SchemaVersion int `json:"schema_version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("profile: decode: %w", err)
	}

	switch {
	case head.SchemaVersion <= 1:
		var legacy legacyDocument
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, fmt.Errorf("profile: decode legacy: %w", err)
		}
		return migrateLegacy(legacy), nil
	case head.SchemaVersion > SchemaVersion:
		return nil, fmt.Errorf("profile: decode: unsupported schema version %d", head.SchemaVersion)
	}

	var p MasterProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("profile: decode: %w", err)
	}
	p.Normalize()
	return &p, nil
}

func migrateLegacy(d legacyDocument) *MasterProfile {
	p := &MasterProfile{
		UserID:      d.UserID,
		Version:     d.Version,
		CreatedAt:   d.CreatedAt,
		LastUpdated: d.UpdatedAt,
		Business:    d.Business,
		Style:       d.Style,
	}
	if p.LastUpdated.IsZero() {
		p.LastUpdated = p.CreatedAt
	}
	p.Normalize()
	p.SchemaVersion = SchemaVersion

	p.Conversation.TotalMessages = d.TotalMessages
	p.Quality.MessagesAnalyzed = d.TotalMessages
	p.Insights.FormalityPreference = p.Style.Tone.Formality
	p.Insights.EnthusiasmPreference = p.Style.Tone.Enthusiasm
	for _, name := range d.Projects {
		if name == "" {
			continue
		}
		rememberProject(&p.Context.OngoingProjects, name, p.LastUpdated)
	}
	for _, m := range d.Motivations {
		if m == "" {
			continue
		}
		rememberKeyword(&p.Insights.Motivations, m)
	}
	p.Patterns = classify(p.Style, p.Conversation)
	recomputeQuality(p)
	return p
}
