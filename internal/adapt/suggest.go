package adapt

import (
	"fmt"

	"github.com/claude/neonfit/internal/models"
)

// TempoSuggestion is the outcome of a tempo adjustment check.
type TempoSuggestion struct {
	Adjusted bool   `json:"adjusted"`
	NewTempo string `json:"new_tempo"`
	Reason   string `json:"reason,omitempty"`
}

// SuggestTempo slows the eccentric phase to 4s when recovery is low enough
// that technique degrades under speed. Malformed tempo strings pass through
// unchanged.
func SuggestTempo(tempo string, score int) TempoSuggestion {
	if score >= 80 {
		return TempoSuggestion{NewTempo: tempo}
	}

	phases, ok := models.ParseTempo(tempo)
	if !ok {
		return TempoSuggestion{NewTempo: tempo}
	}

	if phases[0] < 4 {
		return TempoSuggestion{
			Adjusted: true,
			NewTempo: fmt.Sprintf("4-%d-%d-%d", phases[1], phases[2], phases[3]),
			Reason:   "Eccentric slowed under fatigue",
		}
	}
	return TempoSuggestion{NewTempo: tempo}
}

// RestSuggestion is the outcome of a rest adjustment check.
type RestSuggestion struct {
	Adjusted bool   `json:"adjusted"`
	NewRest  int    `json:"new_rest"`
	Reason   string `json:"reason,omitempty"`
}

// SuggestRest adds 30 seconds of rest between sets when recovery is low.
func SuggestRest(currentRest, score int) RestSuggestion {
	if score >= 85 {
		return RestSuggestion{NewRest: currentRest}
	}
	if score < 75 {
		return RestSuggestion{
			Adjusted: true,
			NewRest:  currentRest + 30,
			Reason:   "Rest extended (+30s)",
		}
	}
	return RestSuggestion{NewRest: currentRest}
}
