package export

import (
	"encoding/json"
	"fmt"

	"github.com/voiceprint/voiceprint/internal/profile"
	"github.com/voiceprint/voiceprint/internal/store"
)

// JSONExporter renders the full profile document with its quality
// breakdown and recent sessions.
type JSONExporter struct{}

type jsonOutput struct {
	Profile  *profile.MasterProfile   `json:"profile"`
	Quality  profile.QualityBreakdown `json:"quality_breakdown"`
	Sessions []store.SessionRecord    `json:"sessions"`
}

func (e *JSONExporter) Filename() string { return "voice-profile.json" }

func (e *JSONExporter) Export(data ExportData) (string, error) {
	if data.Profile == nil {
		return "", fmt.Errorf("no profile")
	}
	sessions := data.Sessions
	if sessions == nil {
		sessions = []store.SessionRecord{}
	}
	out := jsonOutput{
		Profile:  data.Profile,
		Quality:  profile.Breakdown(data.Profile),
		Sessions: sessions,
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
