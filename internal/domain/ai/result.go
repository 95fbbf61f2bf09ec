package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result is the structured outcome of one model call.
type Result struct {
	Explanation string   `json:"explanation"`
	Suggestions []string `json:"suggestions"`
	Bugs        []string `json:"bugs"`

	// Raw keeps the provider payload verbatim for archiving.
	Raw string `json:"-"`
}

// ParseResult validates the model output against the expected
// {explanation, suggestions, bugs} shape. Anything that does not fit
// yields ErrMalformedResponse; we never fabricate a default explanation.
func ParseResult(body string) (*Result, error) {
	var out struct {
		Explanation *string  `json:"explanation"`
		Suggestions []string `json:"suggestions"`
		Bugs        []string `json:"bugs"`
	}
	if err := json.Unmarshal([]byte(stripFences(body)), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if out.Explanation == nil || strings.TrimSpace(*out.Explanation) == "" {
		return nil, fmt.Errorf("%w: missing explanation", ErrMalformedResponse)
	}

	r := &Result{
		Explanation: *out.Explanation,
		Suggestions: out.Suggestions,
		Bugs:        out.Bugs,
		Raw:         body,
	}
	// Absent or null lists mean "nothing found", not an error.
	if r.Suggestions == nil {
		r.Suggestions = []string{}
	}
	if r.Bugs == nil {
		r.Bugs = []string{}
	}
	return r, nil
}

// stripFences drops a surrounding markdown code fence, which some models
// emit even when asked for bare JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
