package models

import "encoding/json"

const (
	// ErrGameNotFound is reported when the storefront search has no result.
	ErrGameNotFound = "Game not found on Steam"
	// ErrResultWithoutLink is reported when the first search result carries
	// no product link, which points at a storefront layout change.
	ErrResultWithoutLink = "search result has no link"
	// FieldNotFound replaces a requirements block missing from the page.
	FieldNotFound = "Not found"
)

// Requirements is the scraped requirement text for one game. CPU/GPU/RAM
// details stay inside the raw strings.
type Requirements struct {
	Game        string `json:"game"`
	SourceURL   string `json:"source_url"`
	Minimum     string `json:"minimum"`
	Recommended string `json:"recommended"`
}

// RequirementResult is either a Requirements record or an error message,
// never both.
type RequirementResult struct {
	Requirements *Requirements `json:"requirements,omitempty"`
	Error        string        `json:"error,omitempty"`
}

func RequirementsFound(r Requirements) RequirementResult {
	return RequirementResult{Requirements: &r}
}

func RequirementsFailed(msg string) RequirementResult {
	return RequirementResult{Error: msg}
}

func (r RequirementResult) Failed() bool {
	return r.Requirements == nil
}

// Map returns the flat form handed to the model as the tool output.
func (r RequirementResult) Map() map[string]string {
	if r.Failed() {
		return map[string]string{"error": r.Error}
	}
	return map[string]string{
		"game":        r.Requirements.Game,
		"source_url":  r.Requirements.SourceURL,
		"minimum":     r.Requirements.Minimum,
		"recommended": r.Requirements.Recommended,
	}
}

// OutputJSON renders a tool output map as the text content of a tool turn.
func OutputJSON(out map[string]string) string {
	b, err := json.Marshal(out)
	if err != nil {
		return `{"error":"unencodable tool output"}`
	}
	return string(b)
}

// RequirementResultFromMap rebuilds a result from its flat tool-output form.
func RequirementResultFromMap(m map[string]string) RequirementResult {
	if msg, ok := m["error"]; ok {
		return RequirementsFailed(msg)
	}
	return RequirementsFound(Requirements{
		Game:        m["game"],
		SourceURL:   m["source_url"],
		Minimum:     m["minimum"],
		Recommended: m["recommended"],
	})
}
