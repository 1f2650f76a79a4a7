package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"b2gmatch/internal/utils"

	"github.com/lib/pq"
)

// Opportunity represents a government contract opportunity
type Opportunity struct {
	ID                   string     `json:"id" db:"id"`
	Title                *string    `json:"title,omitempty" db:"title"`
	Agency               *string    `json:"agency,omitempty" db:"agency"`
	NAICS                NAICSCodes `json:"naics" db:"naics"`
	City                 *string    `json:"city,omitempty" db:"city"`
	State                *string    `json:"state,omitempty" db:"state"`
	RequiredCapabilities StringList `json:"required_capabilities,omitempty" db:"required_capabilities"`
	SetAsideInfo         *string    `json:"set_aside_info,omitempty" db:"set_aside_info"`
	ComplexityScore      *int       `json:"complexity_score,omitempty" db:"complexity_score"`
	EstimatedValue       *float64   `json:"estimated_value,omitempty" db:"estimated_value"`
	Deadline             time.Time  `json:"deadline" db:"deadline"`
}

// NAICSCodes holds the classification codes of an opportunity.
// The source may be a single comma-delimited string or an ordered list;
// a string source is split and trimmed, a list source is kept as-is.
// Text keeps a string source verbatim for display.
type NAICSCodes struct {
	Codes []string
	Text  string
}

// NAICSList builds codes from an ordered list
func NAICSList(codes ...string) NAICSCodes {
	return NAICSCodes{Codes: codes}
}

// ParseNAICS builds codes from comma-delimited text
func ParseNAICS(text string) NAICSCodes {
	return NAICSCodes{Codes: utils.SplitCodes(text), Text: text}
}

// String returns the source text, or the list joined with commas
func (n NAICSCodes) String() string {
	if n.Text != "" {
		return n.Text
	}
	return strings.Join(n.Codes, ",")
}

// MarshalJSON writes the codes back in their source shape
func (n NAICSCodes) MarshalJSON() ([]byte, error) {
	if n.Text != "" {
		return json.Marshal(n.Text)
	}
	if n.Codes == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.Codes)
}

// UnmarshalJSON accepts a JSON string, a number or an array of either
func (n *NAICSCodes) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*n = NAICSCodes{}
		return nil
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("invalid naics list: %w", err)
		}
		codes := make([]string, 0, len(items))
		for _, item := range items {
			code, err := decodeCode(item)
			if err != nil {
				return fmt.Errorf("invalid naics list: %w", err)
			}
			codes = append(codes, code)
		}
		*n = NAICSList(codes...)
		return nil
	}

	text, err := decodeCode(trimmed)
	if err != nil {
		return fmt.Errorf("invalid naics value: %w", err)
	}
	*n = ParseNAICS(text)
	return nil
}

// decodeCode reads a JSON string or number as text
func decodeCode(data []byte) (string, error) {
	if len(data) > 0 && data[0] == '"' {
		var text string
		err := json.Unmarshal(data, &text)
		return text, err
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return "", err
	}
	return number.String(), nil
}

// Scan implements sql.Scanner interface.
// Accepts comma-delimited text, a Postgres text[] literal or a JSON array.
// A malformed list literal is read as plain text.
func (n *NAICSCodes) Scan(value interface{}) error {
	if value == nil {
		*n = NAICSCodes{}
		return nil
	}

	raw, err := scanText(value)
	if err != nil {
		return err
	}

	if list, ok := scanList(raw); ok {
		*n = NAICSList(list...)
		return nil
	}

	*n = ParseNAICS(raw)
	return nil
}

// StringList represents a text list column stored as a JSON array or text[].
// Plain text is read as a single-element list.
type StringList []string

// UnmarshalJSON accepts a JSON array of strings or a single string
func (s *StringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}

	if trimmed[0] == '[' {
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("invalid string list: %w", err)
		}
		*s = list
		return nil
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return fmt.Errorf("invalid string list: %w", err)
	}
	*s = singleton(text)
	return nil
}

// Scan implements sql.Scanner interface
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	raw, err := scanText(value)
	if err != nil {
		return err
	}

	if list, ok := scanList(raw); ok {
		*s = list
		return nil
	}
	*s = singleton(raw)
	return nil
}

func singleton(text string) StringList {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return StringList{text}
}

func scanText(value interface{}) (string, error) {
	switch v := value.(type) {
	case []byte:
		return string(v), nil
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		return "", fmt.Errorf("unsupported column type %T", value)
	}
}

// scanList decodes JSON arrays and Postgres array literals.
// ok is false when raw is neither or does not parse.
func scanList(raw string) ([]string, bool) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(trimmed, "["):
		var list []string
		if err := json.Unmarshal([]byte(trimmed), &list); err != nil {
			return nil, false
		}
		return list, true
	case strings.HasPrefix(trimmed, "{"):
		var arr pq.StringArray
		if err := arr.Scan(trimmed); err != nil {
			return nil, false
		}
		return []string(arr), true
	default:
		return nil, false
	}
}
