package ingest

import (
	"encoding/json"
	"time"
)

// Summary is the result of one pipeline run.
type Summary struct {
	Success  bool     `json:"success"`
	Synced   int      `json:"synced"`
	Enriched int      `json:"enriched"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
	Error    string   `json:"error,omitempty"`

	StartedAt  time.Time `json:"-"`
	FinishedAt time.Time `json:"-"`
}

// Failure builds the summary of a run that could not proceed at all.
func Failure(err error) Summary {
	return Summary{Success: false, Error: err.Error()}
}

func (s Summary) Duration() time.Duration {
	if s.StartedAt.IsZero() || s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// MarshalJSON renders a failed run as {success, error} only.
func (s Summary) MarshalJSON() ([]byte, error) {
	if !s.Success {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{Success: false, Error: s.Error})
	}

	type summary Summary
	return json.Marshal(summary(s))
}
