package domain

import "time"

type RunID string

// SourceKind says where a graded document came from: a fetched URL or HTML
// posted in the request.
type SourceKind string

const (
	SourceURL    SourceKind = "url"
	SourceInline SourceKind = "inline"
)

// Run is one grading of one document against a checks list.
type Run struct {
	ID         RunID           `json:"id"`
	Kind       SourceKind      `json:"kind"`
	Source     string          `json:"source,omitempty"` // URL; empty for inline HTML
	Checks     []string        `json:"checks"`
	Report     map[string]bool `json:"report"`
	Missing    []string        `json:"missing"`
	StatusCode int             `json:"status_code,omitempty"` // url runs only
	LatencyMS  float64         `json:"latency_ms,omitempty"`
	CheckedAt  time.Time       `json:"checked_at"`
}

// Passed reports whether every selector matched.
func (r Run) Passed() bool { return len(r.Missing) == 0 }
