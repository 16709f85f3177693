package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/hamed0406/pagegrader/internal/domain"
)

type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// RunSummary renders the title and body sent when a run has misses.
func RunSummary(r domain.Run) (string, string) {
	src := r.Source
	if src == "" {
		src = string(r.Kind)
	}
	title := fmt.Sprintf("%d of %d checks missing on %s", len(r.Missing), len(r.Report), src)

	var b strings.Builder
	for _, s := range r.Missing {
		fmt.Fprintf(&b, "• `%s`\n", s)
	}
	fmt.Fprintf(&b, "run %s", r.ID)
	return title, b.String()
}
