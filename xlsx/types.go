package xlsx

import "encoding/xml"

// workbookXML represents the xl/workbook.xml file structure.
type workbookXML struct {
	XMLName xml.Name `xml:"workbook"`
	Sheets  struct {
		Sheet []sheetRefXML `xml:"sheet"`
	} `xml:"sheets"`
}

type sheetRefXML struct {
	Name string `xml:"name,attr"`
	RID  string `xml:"id,attr"` // r:id attribute for relationship
}

// worksheetXML represents a xl/worksheets/sheet*.xml file structure.
type worksheetXML struct {
	XMLName   xml.Name `xml:"worksheet"`
	SheetData struct {
		Rows []rowXML `xml:"row"`
	} `xml:"sheetData"`
}

type rowXML struct {
	R     int       `xml:"r,attr"` // Row number (1-indexed, optional)
	Cells []cellXML `xml:"c"`
}

type cellXML struct {
	R  string   `xml:"r,attr"` // Cell reference (e.g., "A1", optional)
	T  string   `xml:"t,attr"` // Type: s, n, b, str, inlineStr, e
	V  string   `xml:"v"`
	Is *textXML `xml:"is"`
}

// textXML is a string item: plain text or rich text runs.
type textXML struct {
	T string `xml:"t"`
	R []struct {
		T string `xml:"t"`
	} `xml:"r"`
}

func (t *textXML) String() string {
	if len(t.R) == 0 {
		return t.T
	}
	s := t.T
	for _, run := range t.R {
		s += run.T
	}
	return s
}

// sharedStringsXML represents the xl/sharedStrings.xml file structure.
type sharedStringsXML struct {
	XMLName xml.Name  `xml:"sst"`
	SI      []textXML `xml:"si"`
}

// relationshipsXML represents .rels files.
type relationshipsXML struct {
	XMLName      xml.Name `xml:"Relationships"`
	Relationship []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}
