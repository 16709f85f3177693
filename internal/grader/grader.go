// Package grader evaluates selectors against a document and renders the
// result as the JSON report.
package grader

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Report maps each selector to whether it matched at least one element.
type Report map[string]bool

// Evaluate checks every selector against doc. An invalid selector stops
// evaluation and no report is returned.
func Evaluate(doc *goquery.Document, selectors []string) (Report, error) {
	out := make(Report, len(selectors))
	for _, s := range selectors {
		m, err := cascadia.Compile(s)
		if err != nil {
			return nil, fmt.Errorf("selector %q: %w", s, err)
		}
		out[s] = doc.FindMatcher(m).Length() > 0
	}
	return out, nil
}

// Len is the number of selectors graded.
func (r Report) Len() int { return len(r) }

// Missing returns the selectors that matched nothing, sorted.
func (r Report) Missing() []string {
	var out []string
	for s, ok := range r {
		if !ok {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return out
}

// WriteJSON writes r with 4-space indentation and a trailing newline.
// Keys are sorted and HTML characters are left unescaped.
func (r Report) WriteJSON(w io.Writer) error {
	if r == nil {
		r = Report{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(map[string]bool(r))
}
