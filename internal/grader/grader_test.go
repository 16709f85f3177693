package grader

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
)

const sample = `<!doctype html>
<html>
<head><title>Sample</title></head>
<body>
  <header id="top"><h1 class="title main">Hello</h1></header>
  <nav><ul><li><a href="/a">A</a></li><li><a>B</a></li></ul></nav>
  <div class="content"><p>one</p><p data-x="1">two</p></div>
  <form><input type="text" name="q" required></form>
</body>
</html>`

func mustDoc(t *testing.T, src string) *goquery.Document {
	t.Helper()
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return goquery.NewDocumentFromNode(root)
}

func TestEvaluate_SimplePresence(t *testing.T) {
	doc := mustDoc(t, `<html><body><h1>Hi</h1></body></html>`)

	got, err := Evaluate(doc, []string{"h1"})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if diff := cmp.Diff(Report{"h1": true}, got); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}

	got, err = Evaluate(doc, []string{"h2"})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if diff := cmp.Diff(Report{"h2": false}, got); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluate_CSSSemantics(t *testing.T) {
	doc := mustDoc(t, sample)
	cases := []struct {
		sel  string
		want bool
	}{
		{"h1", true},
		{"h1.title", true},
		{"h1.main.title", true},
		{"h1.subtitle", false},
		{"#top", true},
		{"#bottom", false},
		{"header > h1", true},
		{"body > h1", false},
		{"nav a[href]", true},
		{"a[href='/a']", true},
		{"a[href='/b']", false},
		{"a[href^='/']", true},
		{"p[data-x]", true},
		{"div.content p:nth-child(2)", true},
		{"div.content p:nth-child(3)", false},
		{"li:first-child a[href]", true},
		{"input[required]", true},
		{"input:not([type=text])", false},
		{"h2, h1", true},
		{"table", false},
	}
	for _, c := range cases {
		t.Run(c.sel, func(t *testing.T) {
			got, err := Evaluate(doc, []string{c.sel})
			if err != nil {
				t.Fatalf("Evaluate(%q): %v", c.sel, err)
			}
			if got[c.sel] != c.want {
				t.Fatalf("%q: got %v want %v", c.sel, got[c.sel], c.want)
			}
		})
	}
}

func TestEvaluate_KeysMatchSelectors(t *testing.T) {
	doc := mustDoc(t, sample)
	sels := []string{"a", "h1", "h1.title", "section", "ul li"}

	got, err := Evaluate(doc, sels)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got.Len() != len(sels) {
		t.Fatalf("want %d entries, got %d", len(sels), got.Len())
	}
	for _, s := range sels {
		if _, ok := got[s]; !ok {
			t.Fatalf("missing key %q", s)
		}
	}
	if diff := cmp.Diff([]string{"section"}, got.Missing()); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluate_InvalidSelector(t *testing.T) {
	doc := mustDoc(t, sample)
	_, err := Evaluate(doc, []string{"h1", "a[href"})
	if err == nil {
		t.Fatalf("want error for invalid selector")
	}
	if !strings.Contains(err.Error(), `"a[href"`) {
		t.Fatalf("error should name the selector: %v", err)
	}
}

func TestWriteJSON_Format(t *testing.T) {
	r := Report{"h1.title": false, "a[href]": true, "h1": true}
	var buf bytes.Buffer
	if err := r.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	want := "{\n" +
		"    \"a[href]\": true,\n" +
		"    \"h1\": true,\n" +
		"    \"h1.title\": false\n" +
		"}\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJSON_NoHTMLEscaping(t *testing.T) {
	var buf bytes.Buffer
	if err := (Report{"ul > li": true}).WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"ul > li": true`) {
		t.Fatalf("selector escaped: %q", buf.String())
	}
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Report(nil).WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if buf.String() != "{}\n" {
		t.Fatalf("want {}, got %q", buf.String())
	}
}
