package ingestion

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// extractDOCX returns the paragraph text of a DOCX document, one paragraph per line.
func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return documentXMLText(doc.Editable().GetContent())
}

// documentXMLText walks WordprocessingML and keeps text runs, tabs and breaks.
func documentXMLText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var (
		sb     strings.Builder
		inText bool
		inRun  int
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to decode document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "r":
				inRun++
			case "tab":
				// Outside a run, w:tab is a tab stop definition in w:pPr.
				if inRun > 0 {
					sb.WriteByte('\t')
				}
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "r":
				inRun--
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
