package epubdoc

import (
	"encoding/xml"
	"errors"
	"path"
	"strings"

	"github.com/tsawler/docmerge/internal/container"
)

// DRM-related errors.
var (
	ErrDRMProtected = errors.New("epub: DRM-protected content cannot be filled")
)

// encryptionXML represents the structure of META-INF/encryption.xml.
type encryptionXML struct {
	XMLName       xml.Name        `xml:"encryption"`
	EncryptedData []encryptedData `xml:"EncryptedData"`
}

type encryptedData struct {
	EncryptionMethod encryptionMethod `xml:"EncryptionMethod"`
	CipherData       cipherData       `xml:"CipherData"`
}

type encryptionMethod struct {
	Algorithm string `xml:"Algorithm,attr"`
}

type cipherData struct {
	CipherReference cipherReference `xml:"CipherReference"`
}

type cipherReference struct {
	URI string `xml:"URI,attr"`
}

// checkForDRM checks if the EPUB has DRM protection.
// Returns ErrDRMProtected if DRM is detected.
func checkForDRM(a *container.Archive) error {
	for _, name := range a.Names() {
		switch name {
		case "META-INF/rights.xml":
			// Adobe ADEPT DRM indicator
			return ErrDRMProtected

		case "META-INF/encryption.xml":
			// Font obfuscation is fine, encrypted content is not.
			data, err := a.FileContent(name)
			if err != nil {
				return ErrDRMProtected
			}
			encrypted, err := hasEncryptedContent(data)
			if err != nil || encrypted {
				return ErrDRMProtected
			}
		}
	}
	return nil
}

// hasEncryptedContent parses encryption.xml and checks if any content files
// (XHTML, HTML) are encrypted.
func hasEncryptedContent(data []byte) (bool, error) {
	var enc encryptionXML
	if err := xml.Unmarshal(data, &enc); err != nil {
		return false, err
	}

	for _, ed := range enc.EncryptedData {
		if isFontObfuscation(ed.EncryptionMethod.Algorithm) {
			continue
		}
		if isContentFile(ed.CipherData.CipherReference.URI) {
			return true, nil
		}
	}

	return false, nil
}

// isFontObfuscation reports whether the algorithm is the Adobe or IDPF
// font obfuscation scheme, which only mangles embedded fonts.
func isFontObfuscation(algorithm string) bool {
	if !strings.Contains(algorithm, "obfuscation") {
		return false
	}
	return strings.Contains(algorithm, "adobe.com") || strings.Contains(algorithm, "idpf.org")
}

// isContentFile reports whether an encrypted URI would leave text or styling
// unreadable.
func isContentFile(uri string) bool {
	switch strings.ToLower(path.Ext(uri)) {
	case ".xhtml", ".html", ".htm", ".xml", ".css":
		return true
	}
	return false
}
