package xmltext

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/tsawler/docmerge/internal/container"
)

func buildPackage(t *testing.T, entries ...[2]string) *container.Archive {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e[0])
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(e[1]))
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	a, err := container.FromBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}
	return a
}

func entryContents(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		b, _ := io.ReadAll(rc)
		rc.Close()
		out[f.Name] = string(b)
	}
	return out
}

func TestLoad_SpansAcrossParts(t *testing.T) {
	doc := string(wordDoc(`<w:p><w:r><w:t>uno</w:t></w:r></w:p><w:p><w:r><w:t>dos</w:t></w:r></w:p>`))
	footer := string(wordDoc(`<w:p><w:r><w:t>pie</w:t></w:r></w:p>`))
	a := buildPackage(t,
		[2]string{"word/document.xml", doc},
		[2]string{"word/footer1.xml", footer},
		[2]string{"word/media/image1.png", "PNG"},
	)

	pkg, err := Load(a, []string{"word/document.xml", "word/footer1.xml"}, wordRules)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := pkg.Spans()
	want := []string{"uno", "dos", "pie"}
	if len(got) != len(want) {
		t.Fatalf("Spans() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Spans()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if err := pkg.SetSpan(2, "nuevo pie"); err != nil {
		t.Fatalf("SetSpan(2) error = %v", err)
	}
	var out bytes.Buffer
	if _, err := pkg.WriteTo(&out); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}

	entries := entryContents(t, out.Bytes())
	if entries["word/document.xml"] != doc {
		t.Error("unmodified part changed")
	}
	if entries["word/media/image1.png"] != "PNG" {
		t.Error("unrelated entry changed")
	}
	if !bytes.Contains([]byte(entries["word/footer1.xml"]), []byte("nuevo pie")) {
		t.Errorf("footer = %s", entries["word/footer1.xml"])
	}
}

func TestPackage_SetSpanRange(t *testing.T) {
	a := buildPackage(t, [2]string{"a.xml", string(wordDoc(`<w:p><w:r><w:t>x</w:t></w:r></w:p>`))})
	pkg, err := Load(a, []string{"a.xml"}, wordRules)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for _, i := range []int{-1, 1, 5} {
		if err := pkg.SetSpan(i, "y"); err == nil {
			t.Errorf("SetSpan(%d) expected error", i)
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	a := buildPackage(t, [2]string{"bad.xml", "<w:p"})
	if _, err := Load(a, []string{"missing.xml"}, wordRules); err == nil {
		t.Error("expected error for missing part")
	}
	if _, err := Load(a, []string{"bad.xml"}, wordRules); err == nil {
		t.Error("expected error for malformed part")
	}
}

func TestLoad_Independent(t *testing.T) {
	a := buildPackage(t, [2]string{"a.xml", string(wordDoc(`<w:p><w:r><w:t>x</w:t></w:r></w:p>`))})
	first, _ := Load(a, []string{"a.xml"}, wordRules)
	second, _ := Load(a, []string{"a.xml"}, wordRules)
	if err := first.SetSpan(0, "changed"); err != nil {
		t.Fatal(err)
	}
	if got := second.Spans()[0]; got != "x" {
		t.Errorf("second instance span = %q, want x", got)
	}
}
