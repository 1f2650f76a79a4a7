package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCodes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "Empty", input: "", want: nil},
		{name: "Single", input: "541512", want: []string{"541512"}},
		{name: "Comma separated with spaces", input: "541512, 541511 ,236220", want: []string{"541512", "541511", "236220"}},
		{name: "Trailing comma", input: "541512,", want: []string{"541512", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitCodes(tt.input))
		})
	}
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "5415", Prefix("541512", 4))
	assert.Equal(t, "54", Prefix("54", 4))
	assert.Equal(t, "", Prefix("", 4))
}

func TestEqualFold(t *testing.T) {
	assert.True(t, EqualFold("dc", "DC"))
	assert.False(t, EqualFold("", ""))
	assert.False(t, EqualFold("VA", "MD"))
}

func TestCountContained(t *testing.T) {
	text := "we do cloud migration and devops"
	assert.Equal(t, 2, CountContained(text, []string{"cloud migration", "devops", "cybersecurity"}))
	assert.Equal(t, 0, CountContained(text, nil))
}

func TestLowerAllAndNormalizeTag(t *testing.T) {
	assert.Equal(t, []string{"a", "cloud"}, LowerAll([]string{"A", "Cloud"}))
	assert.Equal(t, "sdvosb", NormalizeTag(" SDVOSB "))
}
