// Package format detects the container format of templates and data files.
package format

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format represents a supported file format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// ODT indicates an OpenDocument Text (.odt) document.
	ODT
	// HTML indicates an HTML document.
	HTML
	// CSV indicates comma separated values.
	CSV
	// XLSX indicates a Microsoft Excel (.xlsx) workbook.
	XLSX
	// PPTX indicates a Microsoft PowerPoint (.pptx) presentation.
	PPTX
	// EPUB indicates an EPUB (.epub) publication.
	EPUB
)

// ErrUnsupported is returned for files whose format cannot be used in the
// requested role.
var ErrUnsupported = errors.New("unsupported format")

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case DOCX:
		return "DOCX"
	case ODT:
		return "ODT"
	case HTML:
		return "HTML"
	case CSV:
		return "CSV"
	case XLSX:
		return "XLSX"
	case PPTX:
		return "PPTX"
	case EPUB:
		return "EPUB"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case DOCX:
		return ".docx"
	case ODT:
		return ".odt"
	case HTML:
		return ".html"
	case CSV:
		return ".csv"
	case XLSX:
		return ".xlsx"
	case PPTX:
		return ".pptx"
	case EPUB:
		return ".epub"
	default:
		return ""
	}
}

// IsTemplate reports whether documents of this format can be filled.
func (f Format) IsTemplate() bool {
	return f == DOCX || f == ODT || f == HTML || f == PPTX || f == EPUB
}

// IsData reports whether rows can be read from this format.
func (f Format) IsData() bool {
	return f == CSV || f == XLSX
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx":
		return DOCX
	case ".odt":
		return ODT
	case ".html", ".htm":
		return HTML
	case ".csv", ".tsv", ".txt":
		return CSV
	case ".xlsx":
		return XLSX
	case ".pptx":
		return PPTX
	case ".epub":
		return EPUB
	default:
		return Unknown
	}
}

// DetectFile detects the format of a file on disk. The extension is trusted
// when it is recognized; otherwise the content is inspected.
func DetectFile(filename string) (Format, error) {
	if f := Detect(filename); f != Unknown {
		return f, nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return Unknown, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Unknown, err
	}
	return DetectFromReader(file, info.Size())
}

// DetectFromMagic checks file magic bytes to determine format.
// Returns Unknown if the format cannot be determined from magic bytes alone.
func DetectFromMagic(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// ZIP magic: needs further inspection of the archive entries
	if isZIPMagic(data) {
		return Unknown
	}

	if detectHTMLMagic(data) {
		return HTML
	}

	return Unknown
}

func isZIPMagic(data []byte) bool {
	return len(data) >= 4 && data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	// UTF-8 byte order mark
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(data) == 0 {
		return false
	}

	upper := strings.ToUpper(string(data))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") {
		return true
	}
	if strings.HasPrefix(upper, "<HTML") {
		return true
	}
	// XML declaration followed by html-like content could be XHTML
	if strings.HasPrefix(upper, "<?XML") && strings.Contains(upper[:min(500, len(upper))], "<HTML") {
		return true
	}

	return false
}

// DetectFromReader inspects the content to determine format and can
// distinguish between the ZIP-based formats (DOCX, ODT, PPTX, XLSX, EPUB).
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if isZIPMagic(magic) {
		return detectZIPFormat(r, size)
	}

	if detectHTMLMagic(magic) {
		return HTML, nil
	}

	return Unknown, nil
}

// detectZIPFormat inspects a ZIP archive to determine if it's DOCX, ODT, PPTX, XLSX or EPUB.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	// OpenDocument and EPUB store their mimetype as the first entry
	for _, f := range zr.File {
		if f.Name != "mimetype" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			break
		}
		data := make([]byte, 256)
		n, _ := io.ReadFull(rc, data)
		rc.Close()
		mimetype := strings.TrimSpace(string(data[:n]))
		switch {
		case strings.Contains(mimetype, "application/vnd.oasis.opendocument.text"):
			return ODT, nil
		case mimetype == "application/epub+zip":
			return EPUB, nil
		}
	}

	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "word/"):
			return DOCX, nil
		case strings.HasPrefix(f.Name, "xl/"):
			return XLSX, nil
		case strings.HasPrefix(f.Name, "ppt/"):
			return PPTX, nil
		}
	}

	return Unknown, nil
}
