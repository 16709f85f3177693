// Package document turns HTML from a file, a reader or a URL into a
// queryable goquery document.
package document

import (
	"fmt"
	"io"
	"os"

	"github.com/PuerkitoBio/goquery"
)

// DefaultFile is the HTML file used when --file is given without a value.
const DefaultFile = "index.html"

// FromFile parses the HTML file at path.
func FromFile(path string) (*goquery.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open html: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads r to EOF and parses it as UTF-8 HTML.
func Parse(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}
