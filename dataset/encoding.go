package dataset

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used when Options.Encoding is empty.
const DefaultEncoding = "utf-8"

var (
	// ErrUnknownEncoding is returned for encoding names that are not recognized.
	ErrUnknownEncoding = errors.New("unknown encoding")

	// ErrNoHeader is returned when the input has no header record.
	ErrNoHeader = errors.New("no header row")
)

// EncodingError reports input that is not valid in the selected encoding.
type EncodingError struct {
	Encoding string
	Line     int // 1-based line of the first invalid byte
	Err      error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("invalid %s input on line %d: %v", e.Encoding, e.Line, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// decoder returns a transformer that converts input in the named encoding
// to UTF-8, and the canonical encoding name.
func decoder(name string) (transform.Transformer, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultEncoding
	}
	if strings.EqualFold(name, "utf-8-sig") || strings.EqualFold(name, "utf8-sig") {
		name = "utf-8"
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownEncoding, name)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = strings.ToLower(name)
	}

	if canonical == "utf-8" {
		return transform.Chain(encoding.UTF8Validator, unicode.UTF8BOM.NewDecoder()), canonical, nil
	}
	return enc.NewDecoder(), canonical, nil
}

// Decode converts data in the named encoding to UTF-8.
func Decode(data []byte, name string) ([]byte, error) {
	t, canonical, err := decoder(name)
	if err != nil {
		return nil, err
	}

	out, _, err := transform.Bytes(t, data)
	if err != nil {
		if errors.Is(err, encoding.ErrInvalidUTF8) {
			return nil, &EncodingError{Encoding: canonical, Line: invalidLine(data), Err: err}
		}
		return nil, fmt.Errorf("decoding %s input: %w", canonical, err)
	}
	return out, nil
}

// invalidLine returns the line holding the first invalid UTF-8 sequence.
func invalidLine(data []byte) int {
	line := 1
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		if r == '\n' {
			line++
		}
		i += size
	}
	return line
}
