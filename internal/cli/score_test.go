package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"b2gmatch/internal/model"
	"b2gmatch/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileYAML = `
company_name: Acme Federal
primary_naics: "541512"
city: Washington
state: DC
certifications: [sb, sdvosb]
capabilities: Cloud migration, DevOps and cybersecurity
sam_registered: true
`

const opportunitiesJSON = `[
	{
		"id": "exact",
		"title": "Cloud Modernization",
		"agency": "GSA",
		"naics": "541512",
		"state": "DC",
		"city": "Washington",
		"required_capabilities": ["cloud migration", "devops"],
		"set_aside_info": "Total Small Business",
		"estimated_value": 750000,
		"deadline": "2026-11-15T00:00:00Z"
	},
	{
		"id": "similar",
		"naics": ["541519"],
		"state": "DC",
		"deadline": "2026-11-01T00:00:00Z"
	},
	{
		"id": "expired",
		"naics": "541512",
		"state": "DC",
		"deadline": "2026-10-01T00:00:00Z"
	}
]`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(BuildInfo{Version: "test", BuildTime: "now", GitCommit: "abc"})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestScoreCommand(t *testing.T) {
	dir := t.TempDir()
	profile := writeFile(t, dir, "profile.yaml", profileYAML)
	opportunities := writeFile(t, dir, "opportunities.json", opportunitiesJSON)

	out, err := runCommand(t, "score",
		"--profile", profile,
		"--opportunities", opportunities,
		"--now", "2026-10-19T00:00:00Z",
	)
	require.NoError(t, err)

	var resp model.MatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	assert.Equal(t, 2, resp.TotalScored)
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "exact", resp.Matches[0].ID)
	assert.Equal(t, 100, resp.Matches[0].FittingScore)
	assert.Equal(t, []string{
		service.ReasonNAICSMatch,
		service.ReasonSameState,
		service.ReasonLocal,
		"2 Capability Matches",
		"SB Certified",
		service.ReasonSAMRegistered,
		service.ReasonContractSize,
	}, resp.Matches[0].MatchReasons)
}

func TestScoreCommand_LowerThreshold(t *testing.T) {
	dir := t.TempDir()
	profile := writeFile(t, dir, "profile.yaml", profileYAML)
	opportunities := writeFile(t, dir, "opportunities.json", opportunitiesJSON)

	out, err := runCommand(t, "score",
		"--profile", profile,
		"--opportunities", opportunities,
		"--now", "2026-10-19T00:00:00Z",
		"--min-score", "40",
	)
	require.NoError(t, err)

	var resp model.MatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	require.Len(t, resp.Matches, 2)
	assert.Equal(t, "exact", resp.Matches[0].ID)
	assert.Equal(t, "similar", resp.Matches[1].ID)
	// similar industry, same state, SAM registered
	assert.Equal(t, 45, resp.Matches[1].FittingScore)
}

func TestScoreCommand_ZeroMinScore(t *testing.T) {
	dir := t.TempDir()
	profile := writeFile(t, dir, "profile.yaml", profileYAML)
	opportunities := writeFile(t, dir, "opportunities.json", opportunitiesJSON)

	out, err := runCommand(t, "score",
		"--profile", profile,
		"--opportunities", opportunities,
		"--now", "2026-10-19T00:00:00Z",
		"--min-score", "0",
	)
	require.NoError(t, err)

	var resp model.MatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Matches, 2)

	_, err = runCommand(t, "score",
		"--profile", profile,
		"--opportunities", opportunities,
		"--min-score", "101",
	)
	assert.ErrorContains(t, err, "--min-score")
}

func TestScoreCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	profile := writeFile(t, dir, "profile.yaml", profileYAML)
	opportunities := writeFile(t, dir, "opportunities.json", opportunitiesJSON)
	cfg := writeFile(t, dir, "matchctl.yaml", "profile: "+profile+"\nopportunities: "+opportunities+"\nnow: \"2026-10-19T00:00:00Z\"\nmax-results: 1\n")

	out, err := runCommand(t, "score", "--config", cfg)
	require.NoError(t, err)

	var resp model.MatchResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Matches, 1)
}

func TestScoreCommand_InvalidProfile(t *testing.T) {
	dir := t.TempDir()
	profile := writeFile(t, dir, "profile.yaml", "state: DC\n")
	opportunities := writeFile(t, dir, "opportunities.json", opportunitiesJSON)

	_, err := runCommand(t, "score", "--profile", profile, "--opportunities", opportunities)

	assert.ErrorIs(t, err, service.ErrInvalidProfile)
}

func TestScoreCommand_MissingInputs(t *testing.T) {
	_, err := runCommand(t, "score")
	assert.ErrorContains(t, err, "--profile")

	dir := t.TempDir()
	profile := writeFile(t, dir, "profile.yaml", profileYAML)
	_, err = runCommand(t, "score", "--profile", profile)
	assert.ErrorContains(t, err, "--opportunities")

	_, err = runCommand(t, "score", "--profile", profile, "--opportunities", filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	opportunities := writeFile(t, dir, "opportunities.json", opportunitiesJSON)
	_, err = runCommand(t, "score", "--profile", profile, "--opportunities", opportunities, "--now", "yesterday")
	assert.ErrorContains(t, err, "--now")
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "matchctl test (commit abc, built now)\n", out)
}
