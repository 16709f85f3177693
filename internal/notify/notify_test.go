package notify

import (
	"strings"
	"testing"

	"github.com/hamed0406/pagegrader/internal/domain"
)

func TestRunSummary(t *testing.T) {
	title, text := RunSummary(domain.Run{
		ID:      "R1",
		Kind:    domain.SourceURL,
		Source:  "http://example.com",
		Report:  map[string]bool{"h1": true, "h2": false, "nav": false},
		Missing: []string{"h2", "nav"},
	})
	if title != "2 of 3 checks missing on http://example.com" {
		t.Fatalf("unexpected title %q", title)
	}
	if !strings.Contains(text, "`h2`") || !strings.Contains(text, "`nav`") || !strings.HasSuffix(text, "run R1") {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestRunSummary_Inline(t *testing.T) {
	title, _ := RunSummary(domain.Run{Kind: domain.SourceInline, Report: map[string]bool{"p": false}, Missing: []string{"p"}})
	if !strings.HasSuffix(title, "on inline") {
		t.Fatalf("unexpected title %q", title)
	}
}
