package model

import "time"

// DefaultAgency is reported when an opportunity has no agency
const DefaultAgency = "Unknown Agency"

// MatchResult represents one qualifying opportunity with its fitting score
type MatchResult struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Agency               string    `json:"agency"`
	EstimatedValue       float64   `json:"estimated_value"`
	Deadline             time.Time `json:"deadline"`
	FittingScore         int       `json:"fitting_score"`
	MatchReasons         []string  `json:"match_reasons"`
	RequiredCapabilities []string  `json:"required_capabilities"`
	NAICS                string    `json:"naics"`
	City                 string    `json:"city"`
	State                string    `json:"state"`
}

// NewMatchResult copies the display fields of an opportunity, substituting
// defaults for anything missing.
func NewMatchResult(opp *Opportunity, score int, reasons []string) MatchResult {
	result := MatchResult{
		ID:                   opp.ID,
		Title:                stringOr(opp.Title, ""),
		Agency:               stringOr(opp.Agency, DefaultAgency),
		Deadline:             opp.Deadline,
		FittingScore:         score,
		MatchReasons:         reasons,
		RequiredCapabilities: []string{},
		NAICS:                opp.NAICS.String(),
		City:                 stringOr(opp.City, ""),
		State:                stringOr(opp.State, ""),
	}
	if opp.EstimatedValue != nil {
		result.EstimatedValue = *opp.EstimatedValue
	}
	if len(opp.RequiredCapabilities) > 0 {
		result.RequiredCapabilities = append(result.RequiredCapabilities, opp.RequiredCapabilities...)
	}
	if result.MatchReasons == nil {
		result.MatchReasons = []string{}
	}
	return result
}

// MatchResponse represents the ranked matches for one contractor
type MatchResponse struct {
	Matches     []MatchResult `json:"matches"`
	TotalScored int           `json:"total_scored"`
	Took        int64         `json:"took_ms"` // Response time in milliseconds
}

func stringOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
