package htmldoc

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/docmerge/format"
)

const page = `<!DOCTYPE html>
<html><head><title>Carta [[Nombre]]</title><style>p { color: red } /* [[x]] */</style></head>
<body><p>Estimado/a <b>[[Nombre]]</b>,</p><script>var s = "[[Nombre]]";</script>
<table><tr><td>[[RUN]]</td></tr></table></body></html>`

func TestTemplate_Spans(t *testing.T) {
	tmpl, err := FromBytes([]byte(page))
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}
	if tmpl.Format() != format.HTML {
		t.Errorf("Format() = %v", tmpl.Format())
	}

	doc, err := tmpl.NewDocument()
	if err != nil {
		t.Fatal(err)
	}

	var placeholders []string
	for _, s := range doc.Spans() {
		if strings.Contains(s, "[[") {
			placeholders = append(placeholders, strings.TrimSpace(s))
		}
	}
	want := []string{"Carta [[Nombre]]", "[[Nombre]]", "[[RUN]]"}
	if strings.Join(placeholders, "|") != strings.Join(want, "|") {
		t.Errorf("placeholder spans = %q, want %q", placeholders, want)
	}
}

func TestDocument_WriteTo(t *testing.T) {
	tmpl, err := FromBytes([]byte(page))
	if err != nil {
		t.Fatal(err)
	}
	doc, _ := tmpl.NewDocument()

	for i, s := range doc.Spans() {
		if strings.TrimSpace(s) == "[[Nombre]]" {
			if err := doc.SetSpan(i, "Ana <Diaz>"); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := doc.SetSpan(-1, "x"); err == nil {
		t.Error("expected out of range error")
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "<b>Ana &lt;Diaz&gt;</b>") {
		t.Errorf("replacement not rendered escaped:\n%s", out)
	}
	if !strings.Contains(out, `var s = "[[Nombre]]";`) {
		t.Errorf("script content changed:\n%s", out)
	}

	// A second instance starts from the template again.
	fresh, _ := tmpl.NewDocument()
	found := false
	for _, s := range fresh.Spans() {
		if s == "[[Nombre]]" {
			found = true
		}
	}
	if !found {
		t.Error("template modified by a previous instance")
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.html")
	os.WriteFile(path, []byte("<p>[[a]]</p>"), 0o644)

	tmpl, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	doc, _ := tmpl.NewDocument()
	if spans := doc.Spans(); len(spans) != 1 || spans[0] != "[[a]]" {
		t.Errorf("Spans() = %q", spans)
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Error("expected error for missing file")
	}

	tmpl, err = OpenReader(strings.NewReader("<p>x</p>"))
	if err != nil || tmpl == nil {
		t.Errorf("OpenReader() = %v, %v", tmpl, err)
	}
}
