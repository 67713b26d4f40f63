package epubdoc

import (
	"encoding/xml"
	"errors"
	"net/url"
	"path"
	"strings"

	"github.com/tsawler/docmerge/internal/container"
)

// OPF-related errors.
var (
	ErrNoOPF      = errors.New("epub: missing package document (OPF)")
	ErrInvalidOPF = errors.New("epub: invalid package document")
	ErrEmptySpine = errors.New("epub: no content in spine")
)

// opfPackage represents the OPF package document.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

type opfManifest struct {
	Items []opfItem `xml:"item"`
}

type opfItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

type opfSpine struct {
	Toc      string       `xml:"toc,attr"` // NCX ID for EPUB 2
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef  string `xml:"idref,attr"`
	Linear string `xml:"linear,attr"`
}

// parseOPF parses the OPF file and returns the package and the directory
// its hrefs are relative to.
func parseOPF(a *container.Archive, opfPath string) (*Package, string, error) {
	if a.Require(opfPath) != nil {
		return nil, "", ErrNoOPF
	}
	data, err := a.FileContent(opfPath)
	if err != nil {
		return nil, "", err
	}

	// Get base directory for resolving relative paths
	baseDir := path.Dir(opfPath)
	if baseDir == "." {
		baseDir = ""
	}

	var opf opfPackage
	if err := xml.Unmarshal(data, &opf); err != nil {
		return nil, "", ErrInvalidOPF
	}

	pkg := &Package{
		Version:  opf.Version,
		Manifest: convertManifest(&opf.Manifest),
		Spine:    convertSpine(&opf.Spine),
	}

	if len(pkg.Spine) == 0 {
		return nil, "", ErrEmptySpine
	}

	return pkg, baseDir, nil
}

func convertManifest(m *opfManifest) map[string]ManifestItem {
	manifest := make(map[string]ManifestItem, len(m.Items))

	for _, item := range m.Items {
		mi := ManifestItem{
			ID:        item.ID,
			Href:      item.Href,
			MediaType: item.MediaType,
		}
		if item.Properties != "" {
			mi.Properties = strings.Fields(item.Properties)
		}
		manifest[item.ID] = mi
	}

	return manifest
}

func convertSpine(s *opfSpine) []SpineItem {
	spine := make([]SpineItem, 0, len(s.ItemRefs))

	for _, ref := range s.ItemRefs {
		spine = append(spine, SpineItem{
			IDRef:  ref.IDRef,
			Linear: ref.Linear != "no", // Default is true
		})
	}

	return spine
}

// resolveHref resolves a manifest href against the OPF base directory.
func resolveHref(baseDir, href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	if decoded, err := url.PathUnescape(href); err == nil {
		href = decoded
	}
	if baseDir == "" {
		return path.Clean(href)
	}
	return path.Join(baseDir, href)
}
