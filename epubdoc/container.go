package epubdoc

import (
	"encoding/xml"
	"errors"

	"github.com/tsawler/docmerge/internal/container"
)

// Container-related errors.
var (
	ErrNoContainer      = errors.New("epub: missing META-INF/container.xml")
	ErrInvalidContainer = errors.New("epub: invalid container.xml")
	ErrNoRootfile       = errors.New("epub: no rootfile found in container.xml")
)

const containerPath = "META-INF/container.xml"

// containerXML represents the structure of META-INF/container.xml.
type containerXML struct {
	XMLName   xml.Name  `xml:"container"`
	Version   string    `xml:"version,attr"`
	Rootfiles rootfiles `xml:"rootfiles"`
}

type rootfiles struct {
	Rootfile []rootfile `xml:"rootfile"`
}

type rootfile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// parseContainer parses META-INF/container.xml and returns the path to the OPF file.
func parseContainer(a *container.Archive) (string, error) {
	if a.Require(containerPath) != nil {
		return "", ErrNoContainer
	}
	data, err := a.FileContent(containerPath)
	if err != nil {
		return "", err
	}

	var c containerXML
	if err := xml.Unmarshal(data, &c); err != nil {
		return "", ErrInvalidContainer
	}

	for _, rf := range c.Rootfiles.Rootfile {
		if rf.MediaType == "application/oebps-package+xml" || rf.MediaType == "" {
			if rf.FullPath != "" {
				return rf.FullPath, nil
			}
		}
	}

	// If no media-type match, just return the first one
	if len(c.Rootfiles.Rootfile) > 0 && c.Rootfiles.Rootfile[0].FullPath != "" {
		return c.Rootfiles.Rootfile[0].FullPath, nil
	}

	return "", ErrNoRootfile
}
