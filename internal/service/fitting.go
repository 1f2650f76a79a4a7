package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"b2gmatch/internal/model"
	"b2gmatch/internal/utils"
)

// Match reason constants
const (
	ReasonNAICSMatch      = "NAICS Code Match"
	ReasonSimilarIndustry = "Similar Industry"
	ReasonSameState       = "Same State"
	ReasonLocal           = "Local Opportunity"
	ReasonSAMRegistered   = "SAM Registered"
	ReasonLowComplexity   = "Low Complexity"
	ReasonContractSize    = "Appropriate Contract Size"
)

// Ranking defaults
const (
	DefaultMinScore   = 50
	DefaultMaxResults = 20
)

const (
	maxScore = 100

	pointsNAICSExact     = 40.0
	pointsNAICSPrefix    = 20.0
	naicsPrefixLength    = 4
	pointsSameState      = 20.0
	pointsSameCity       = 5.0
	pointsOtherState     = 5.0
	maxCapabilityPoints  = 30.0
	pointsPerCert        = 5.0
	maxCertPoints        = 10.0
	pointsSAMRegistered  = 5.0
	pointsLowComplexity  = 5.0
	lowComplexityCeiling = 2
	pointsContractSize   = 5.0
	contractSizeMin      = 10000.0
	contractSizeMax      = 5000000.0
)

// certSetAsideKeywords maps a certification to the set-aside text it requires
var certSetAsideKeywords = map[string]string{
	model.Cert8a:      "8a",
	model.CertSDVOSB:  "sdvosb",
	model.CertWOSB:    "wosb",
	model.CertHUBZone: "hubzone",
	model.CertSB:      "small business",
}

// Contribution is the outcome of a single scoring rule.
// The zero value means the rule did not fire.
type Contribution struct {
	Points  float64
	Reasons []string
}

// rule scores one aspect of an opportunity against a contractor
type rule struct {
	name string
	eval func(opp *model.Opportunity, c *contractor) Contribution
}

// contractor is a contractor profile normalised once per scoring pass
type contractor struct {
	primaryNAICS   string
	naicsPrefix    string
	city           string
	state          string
	capabilities   string
	certifications []string
	samRegistered  bool
}

func newContractor(profile *model.ContractorProfile) *contractor {
	c := &contractor{
		primaryNAICS:  strings.TrimSpace(profile.PrimaryNAICS),
		city:          profile.City,
		state:         profile.State,
		capabilities:  strings.ToLower(profile.Capabilities),
		samRegistered: profile.SAMRegistered,
	}
	c.naicsPrefix = utils.Prefix(c.primaryNAICS, naicsPrefixLength)

	seen := make(map[string]bool, len(profile.Certifications))
	for _, cert := range profile.Certifications {
		tag := utils.NormalizeTag(cert)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		c.certifications = append(c.certifications, tag)
	}
	return c
}

// defaultRules returns the scoring rules in evaluation order
func defaultRules() []rule {
	return []rule{
		{name: "naics", eval: scoreNAICS},
		{name: "location", eval: scoreLocation},
		{name: "capabilities", eval: scoreCapabilities},
		{name: "certifications", eval: scoreCertifications},
		{name: "sam_registration", eval: scoreSAMRegistration},
		{name: "complexity", eval: scoreComplexity},
		{name: "contract_size", eval: scoreContractSize},
	}
}

// Engine scores and ranks opportunities for a contractor.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	minScore   int
	maxResults int
	rules      []rule
}

// NewEngine creates a fitting engine. A negative minScore or a
// non-positive maxResults uses the default. A minScore of 0 keeps everything.
func NewEngine(minScore, maxResults int) *Engine {
	if minScore < 0 {
		minScore = DefaultMinScore
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Engine{
		minScore:   minScore,
		maxResults: maxResults,
		rules:      defaultRules(),
	}
}

// MinScore returns the qualifying threshold
func (e *Engine) MinScore() int { return e.minScore }

// MaxResults returns the result cap
func (e *Engine) MaxResults() int { return e.maxResults }

// ScoreOne computes the fitting score and reasons for a single opportunity
func (e *Engine) ScoreOne(opp *model.Opportunity, profile *model.ContractorProfile) (int, []string) {
	if opp == nil || profile == nil {
		return 0, []string{}
	}
	return e.score(opp, newContractor(profile))
}

// ScoreAndRank scores every opportunity, keeps those at or above the
// threshold, orders them by score descending and caps the list.
// Equal scores keep their input order.
func (e *Engine) ScoreAndRank(profile *model.ContractorProfile, opportunities []model.Opportunity) ([]model.MatchResult, error) {
	if err := ValidateProfile(profile); err != nil {
		return nil, err
	}

	c := newContractor(profile)
	results := make([]model.MatchResult, 0, len(opportunities))

	for i := range opportunities {
		opp := &opportunities[i]
		score, reasons := e.score(opp, c)
		if score < e.minScore {
			continue
		}
		results = append(results, model.NewMatchResult(opp, score, reasons))
	}

	// Sort by score descending
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FittingScore > results[j].FittingScore
	})

	if len(results) > e.maxResults {
		results = results[:e.maxResults]
	}

	return results, nil
}

// score sums rule contributions and rounds once at the end
func (e *Engine) score(opp *model.Opportunity, c *contractor) (int, []string) {
	total := 0.0
	reasons := []string{}

	for _, r := range e.rules {
		contribution := r.eval(opp, c)
		total += contribution.Points
		reasons = append(reasons, contribution.Reasons...)
	}

	score := int(math.Round(total))
	if score > maxScore {
		score = maxScore
	}
	if score < 0 {
		score = 0
	}
	return score, reasons
}

// scoreNAICS rewards an exact classification match, or a shared industry prefix
func scoreNAICS(opp *model.Opportunity, c *contractor) Contribution {
	if len(opp.NAICS.Codes) == 0 {
		return Contribution{}
	}

	for _, code := range opp.NAICS.Codes {
		if code == c.primaryNAICS {
			return Contribution{Points: pointsNAICSExact, Reasons: []string{ReasonNAICSMatch}}
		}
	}

	for _, code := range opp.NAICS.Codes {
		if utils.Prefix(code, naicsPrefixLength) == c.naicsPrefix {
			return Contribution{Points: pointsNAICSPrefix, Reasons: []string{ReasonSimilarIndustry}}
		}
	}

	return Contribution{}
}

// scoreLocation rewards a shared state, with a bonus for a shared city.
// Differing states earn partial credit without a reason.
func scoreLocation(opp *model.Opportunity, c *contractor) Contribution {
	oppState := deref(opp.State)
	if oppState == "" || c.state == "" {
		return Contribution{}
	}

	if !strings.EqualFold(oppState, c.state) {
		return Contribution{Points: pointsOtherState}
	}

	result := Contribution{Points: pointsSameState, Reasons: []string{ReasonSameState}}
	if utils.EqualFold(deref(opp.City), c.city) {
		result.Points += pointsSameCity
		result.Reasons = append(result.Reasons, ReasonLocal)
	}
	return result
}

// scoreCapabilities awards points in proportion to the required
// capabilities found in the contractor's description
func scoreCapabilities(opp *model.Opportunity, c *contractor) Contribution {
	if len(opp.RequiredCapabilities) == 0 || c.capabilities == "" {
		return Contribution{}
	}

	required := utils.LowerAll(opp.RequiredCapabilities)
	matches := utils.CountContained(c.capabilities, required)
	if matches == 0 {
		return Contribution{}
	}

	points := math.Min(maxCapabilityPoints, float64(matches)/float64(len(required))*maxCapabilityPoints)

	reason := fmt.Sprintf("%d Capability Match", matches)
	if matches > 1 {
		reason += "es"
	}
	return Contribution{Points: points, Reasons: []string{reason}}
}

// scoreCertifications rewards certifications that fit the set-aside program
func scoreCertifications(opp *model.Opportunity, c *contractor) Contribution {
	if len(c.certifications) == 0 {
		return Contribution{}
	}

	setAside := strings.ToLower(deref(opp.SetAsideInfo))
	if setAside == "" {
		return Contribution{}
	}

	bonus := 0.0
	var matched []string
	for _, cert := range c.certifications {
		keyword, ok := certSetAsideKeywords[cert]
		if !ok || !strings.Contains(setAside, keyword) {
			continue
		}
		bonus += pointsPerCert
		matched = append(matched, strings.ToUpper(cert))
	}

	if bonus == 0 {
		return Contribution{}
	}

	return Contribution{
		Points:  math.Min(maxCertPoints, bonus),
		Reasons: []string{strings.Join(matched, ", ") + " Certified"},
	}
}

func scoreSAMRegistration(_ *model.Opportunity, c *contractor) Contribution {
	if !c.samRegistered {
		return Contribution{}
	}
	return Contribution{Points: pointsSAMRegistered, Reasons: []string{ReasonSAMRegistered}}
}

// scoreComplexity rewards simple contracts. A zero score counts as unrated.
func scoreComplexity(opp *model.Opportunity, _ *contractor) Contribution {
	if opp.ComplexityScore == nil || *opp.ComplexityScore == 0 || *opp.ComplexityScore > lowComplexityCeiling {
		return Contribution{}
	}
	return Contribution{Points: pointsLowComplexity, Reasons: []string{ReasonLowComplexity}}
}

// scoreContractSize rewards contracts sized for small businesses
func scoreContractSize(opp *model.Opportunity, _ *contractor) Contribution {
	if opp.EstimatedValue == nil {
		return Contribution{}
	}
	value := *opp.EstimatedValue
	if value < contractSizeMin || value > contractSizeMax {
		return Contribution{}
	}
	return Contribution{Points: pointsContractSize, Reasons: []string{ReasonContractSize}}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
