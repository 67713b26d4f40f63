package epubdoc

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/tsawler/docmerge/format"
)

const testContainer = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const testOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Diploma de [[Nombre]]</dc:title>
    <dc:language>es</dc:language>
  </metadata>
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="ch1" href="text/chapter%201.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="text/ch2.xhtml" media-type="application/xhtml+xml"/>
    <item id="css" href="style.css" media-type="text/css"/>
  </manifest>
  <spine>
    <itemref idref="ch2"/>
    <itemref idref="ch1"/>
    <itemref idref="missing"/>
  </spine>
</package>`

func xhtml(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml"><head><title>Capitulo</title></head><body>` +
		body + `</body></html>`
}

// createTestEPUB builds an EPUB from the given entries after the mimetype.
func createTestEPUB(t *testing.T, entries map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	// mimetype must be first and uncompressed
	mw, err := w.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		t.Fatal(err)
	}
	mw.Write([]byte(entries["mimetype"]))

	for _, name := range []string{
		"META-INF/container.xml",
		"META-INF/encryption.xml",
		"META-INF/rights.xml",
		"OEBPS/content.opf",
		"OEBPS/nav.xhtml",
		"OEBPS/text/chapter 1.xhtml",
		"OEBPS/text/ch2.xhtml",
	} {
		content, ok := entries[name]
		if !ok {
			continue
		}
		fw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(content))
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func validEntries() map[string]string {
	return map[string]string{
		"mimetype":                   "application/epub+zip",
		"META-INF/container.xml":     testContainer,
		"OEBPS/content.opf":          testOPF,
		"OEBPS/nav.xhtml":            xhtml(`<nav><ol><li><a href="text/ch2.xhtml">Para [[Nombre]]</a></li></ol></nav>`),
		"OEBPS/text/chapter 1.xhtml": xhtml(`<h1>Uno</h1><p>Hola&nbsp;<em>[[Nom</em>bre]]</p>`),
		"OEBPS/text/ch2.xhtml":       xhtml(`<p>Dos</p>`),
	}
}

func TestFromBytes_Parts(t *testing.T) {
	tmpl, err := FromBytes(createTestEPUB(t, validEntries()))
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}
	if tmpl.Format() != format.EPUB {
		t.Errorf("Format() = %v", tmpl.Format())
	}
	if tmpl.Version() != "3.0" {
		t.Errorf("Version() = %q", tmpl.Version())
	}

	want := []string{
		"OEBPS/content.opf",
		"OEBPS/text/ch2.xhtml",
		"OEBPS/text/chapter 1.xhtml",
		"OEBPS/nav.xhtml",
	}
	if got := tmpl.Parts(); !reflect.DeepEqual(got, want) {
		t.Errorf("Parts() = %q, want %q", got, want)
	}
}

func TestNewDocument_Spans(t *testing.T) {
	tmpl, err := FromBytes(createTestEPUB(t, validEntries()))
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}
	doc, err := tmpl.NewDocument()
	if err != nil {
		t.Fatalf("NewDocument() error = %v", err)
	}

	want := []string{
		"Diploma de [[Nombre]]",
		"Capitulo", "Dos",
		"Capitulo", "Uno", "Hola\u00a0[[Nombre]]",
		"Capitulo", "Para [[Nombre]]",
	}
	if got := doc.Spans(); !reflect.DeepEqual(got, want) {
		t.Errorf("Spans() = %q, want %q", got, want)
	}
}

func TestNewDocument_WriteTo(t *testing.T) {
	tmpl, err := FromBytes(createTestEPUB(t, validEntries()))
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}
	doc, _ := tmpl.NewDocument()
	if err := doc.SetSpan(0, "Diploma de Ana & Co"); err != nil {
		t.Fatalf("SetSpan() error = %v", err)
	}
	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(out.Bytes()), int64(out.Len()))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if zr.File[0].Name != "mimetype" || zr.File[0].Method != zip.Store {
		t.Errorf("first entry = %s (method %d), want stored mimetype", zr.File[0].Name, zr.File[0].Method)
	}

	filled, err := FromBytes(out.Bytes())
	if err != nil {
		t.Fatalf("FromBytes(output) error = %v", err)
	}
	got, _ := filled.NewDocument()
	if got.Spans()[0] != "Diploma de Ana & Co" {
		t.Errorf("title = %q", got.Spans()[0])
	}
	if got.Spans()[2] != "Dos" {
		t.Errorf("unrelated span changed: %q", got.Spans()[2])
	}
}

func TestFromBytes_Errors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(map[string]string)
		wantErr error
	}{
		{"wrong mimetype", func(e map[string]string) { e["mimetype"] = "application/zip" }, ErrInvalidMimetype},
		{"no container", func(e map[string]string) { delete(e, "META-INF/container.xml") }, ErrNoContainer},
		{"bad container", func(e map[string]string) { e["META-INF/container.xml"] = "<container" }, ErrInvalidContainer},
		{"no rootfile", func(e map[string]string) { e["META-INF/container.xml"] = "<container><rootfiles/></container>" }, ErrNoRootfile},
		{"no opf", func(e map[string]string) { delete(e, "OEBPS/content.opf") }, ErrNoOPF},
		{"bad opf", func(e map[string]string) { e["OEBPS/content.opf"] = "<package" }, ErrInvalidOPF},
		{"empty spine", func(e map[string]string) {
			e["OEBPS/content.opf"] = strings.Replace(testOPF, `<itemref idref="ch2"/>
    <itemref idref="ch1"/>
    <itemref idref="missing"/>`, "", 1)
		}, ErrEmptySpine},
		{"spine files missing", func(e map[string]string) {
			delete(e, "OEBPS/text/chapter 1.xhtml")
			delete(e, "OEBPS/text/ch2.xhtml")
		}, ErrEmptySpine},
		{"rights file", func(e map[string]string) { e["META-INF/rights.xml"] = "<rights/>" }, ErrDRMProtected},
		{"encrypted content", func(e map[string]string) {
			e["META-INF/encryption.xml"] = `<encryption><EncryptedData><EncryptionMethod Algorithm="http://www.w3.org/2001/04/xmlenc#aes128-cbc"/><CipherData><CipherReference URI="OEBPS/text/ch2.xhtml"/></CipherData></EncryptedData></encryption>`
		}, ErrDRMProtected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := validEntries()
			tt.modify(entries)
			_, err := FromBytes(createTestEPUB(t, entries))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("FromBytes() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFromBytes_FontObfuscationAllowed(t *testing.T) {
	entries := validEntries()
	entries["META-INF/encryption.xml"] = `<encryption><EncryptedData><EncryptionMethod Algorithm="http://www.idpf.org/2008/embedding/obfuscation"/><CipherData><CipherReference URI="OEBPS/fonts/font.otf"/></CipherData></EncryptedData></encryption>`
	if _, err := FromBytes(createTestEPUB(t, entries)); err != nil {
		t.Errorf("FromBytes() error = %v", err)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diploma.epub")
	if err := os.WriteFile(path, createTestEPUB(t, validEntries()), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := Open(filepath.Join(t.TempDir(), "missing.epub")); err == nil {
		t.Error("Open() on missing file expected error")
	}
}

func TestResolveHref(t *testing.T) {
	tests := []struct {
		base, href, want string
	}{
		{"OEBPS", "text/ch1.xhtml", "OEBPS/text/ch1.xhtml"},
		{"OEBPS", "text/chapter%201.xhtml", "OEBPS/text/chapter 1.xhtml"},
		{"OEBPS", "ch1.xhtml#sec2", "OEBPS/ch1.xhtml"},
		{"", "ch1.xhtml", "ch1.xhtml"},
		{"OEBPS/text", "../nav.xhtml", "OEBPS/nav.xhtml"},
	}
	for _, tt := range tests {
		if got := resolveHref(tt.base, tt.href); got != tt.want {
			t.Errorf("resolveHref(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}
