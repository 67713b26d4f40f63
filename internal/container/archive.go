// Package container reads ZIP based document packages (DOCX, ODT, PPTX,
// XLSX, EPUB) and writes copies of them with selected entries replaced.
package container

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
)

// Archive is an in-memory ZIP package. It is read-only and may be shared by
// any number of documents.
type Archive struct {
	data []byte
	zr   *zip.Reader
}

// Open reads a package from disk.
func Open(filename string) (*Archive, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return FromBytes(data)
}

// FromBytes wraps package bytes.
func FromBytes(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}
	return &Archive{data: data, zr: zr}, nil
}

// Require checks that every named entry exists.
func (a *Archive) Require(names ...string) error {
	for _, name := range names {
		if a.file(name) == nil {
			return fmt.Errorf("missing required file: %s", name)
		}
	}
	return nil
}

// Names returns the entry names in archive order.
func (a *Archive) Names() []string {
	names := make([]string, len(a.zr.File))
	for i, f := range a.zr.File {
		names[i] = f.Name
	}
	return names
}

// FileContent reads the content of an entry.
func (a *Archive) FileContent(name string) ([]byte, error) {
	f := a.file(name)
	if f == nil {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (a *Archive) file(name string) *zip.File {
	for _, f := range a.zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// WriteTo writes the package to w, substituting the entries in replace.
// Untouched entries are copied without recompression, so their bytes and
// order (an ODF mimetype must stay first and stored) are kept.
func (a *Archive) WriteTo(w io.Writer, replace map[string][]byte) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	for _, f := range a.zr.File {
		content, ok := replace[f.Name]
		if !ok {
			if err := copyRaw(zw, f); err != nil {
				return cw.n, fmt.Errorf("copying %s: %w", f.Name, err)
			}
			continue
		}

		hdr := &zip.FileHeader{
			Name:     f.Name,
			Method:   f.Method,
			Modified: f.Modified,
		}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return cw.n, fmt.Errorf("writing %s: %w", f.Name, err)
		}
		if _, err := fw.Write(content); err != nil {
			return cw.n, fmt.Errorf("writing %s: %w", f.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

func copyRaw(zw *zip.Writer, f *zip.File) error {
	hdr := f.FileHeader
	fw, err := zw.CreateRaw(&hdr)
	if err != nil {
		return err
	}
	rc, err := f.OpenRaw()
	if err != nil {
		return err
	}
	_, err = io.Copy(fw, rc)
	return err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
