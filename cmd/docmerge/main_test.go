package main

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/docmerge/manifest"
)

func writeTemplate(t *testing.T, path string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"[Content_Types].xml": `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":   `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>[[Nombre]]</w:t></w:r></w:p></w:body></w:document>`,
	} {
		w, _ := zw.Create(name)
		w.Write([]byte(content))
	}
	zw.Close()
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "carta.docx")
	writeTemplate(t, tmpl)
	data := filepath.Join(dir, "alumnos.csv")
	os.WriteFile(data, []byte("Nombre;Apellido\nJos\xe9;D\xedaz\n"), 0o644)
	out := filepath.Join(dir, "salida")
	db := filepath.Join(dir, "runs.db")

	var stderr bytes.Buffer
	code := run([]string{data, tmpl, "-o", out, "-n", "$Nombre $Apellido", "-e", "latin1", "--delimiter", ";", "--manifest", db}, &stderr)
	if code != 0 {
		t.Fatalf("run() = %d, stderr:\n%s", code, stderr.String())
	}

	if _, err := os.Stat(filepath.Join(out, "Jose_Diaz.docx")); err != nil {
		t.Errorf("expected output file: %v", err)
	}

	store, err := manifest.Open(db)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	runs, err := store.Runs(context.Background())
	if err != nil || len(runs) != 1 {
		t.Fatalf("Runs() = %v, %v", runs, err)
	}
	if runs[0].Status != manifest.StatusDone || runs[0].Generated != 1 {
		t.Errorf("run = %+v", runs[0])
	}
}

func TestRun_ExitCodes(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "t.docx")
	writeTemplate(t, tmpl)
	data := filepath.Join(dir, "d.csv")
	os.WriteFile(data, []byte("Nombre\nAna\n"), 0o644)
	bad := filepath.Join(dir, "bad.csv")
	os.WriteFile(bad, []byte("Nombre\nJos\xe9\n"), 0o644)
	empty := filepath.Join(dir, "empty.csv")
	os.WriteFile(empty, []byte("Nombre\n"), 0o644)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"help", []string{"-h"}, 0},
		{"version", []string{"--version"}, 0},
		{"usage error", []string{data}, 2},
		{"missing template", []string{data, filepath.Join(dir, "nope.docx")}, 1},
		{"missing column", []string{"--require", "Apellido", data, tmpl}, 1},
		{"invalid utf-8", []string{bad, tmpl, "-o", filepath.Join(dir, "o1")}, 1},
		{"no rows", []string{empty, tmpl, "-o", filepath.Join(dir, "o2")}, 0},
		{"dry run", []string{"--dry-run", data, tmpl, "-o", filepath.Join(dir, "o3")}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			if got := run(tt.args, &stderr); got != tt.want {
				t.Errorf("run() = %d, want %d; stderr:\n%s", got, tt.want, stderr.String())
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "o1")); !os.IsNotExist(err) {
		t.Error("output directory created despite encoding error")
	}
	if _, err := os.Stat(filepath.Join(dir, "o3")); !os.IsNotExist(err) {
		t.Error("dry run wrote output")
	}
}

func TestRun_LogFormat(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "t.docx")
	writeTemplate(t, tmpl)
	data := filepath.Join(dir, "d.csv")
	os.WriteFile(data, []byte("Nombre\nAna\n"), 0o644)

	var stderr bytes.Buffer
	if code := run([]string{"--log-format", "json", "--dry-run", data, tmpl}, &stderr); code != 0 {
		t.Fatalf("run() = %d", code)
	}
	if !strings.Contains(stderr.String(), `"msg":"generated"`) {
		t.Errorf("expected JSON log lines, got:\n%s", stderr.String())
	}
}
