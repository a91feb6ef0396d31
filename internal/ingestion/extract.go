// Package ingestion turns uploaded resume documents into plain text.
package ingestion

import (
	"fmt"
	"path/filepath"
	"strings"
)

// UnsupportedText is the text recorded for uploads whose format cannot be read.
const UnsupportedText = "Unsupported file format"

// Format identifies a document format by its file extension.
type Format string

const (
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatUnknown Format = ""
)

// ContentType returns the MIME type stored alongside the raw upload.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}

// Kind tags the outcome of an extraction.
type Kind int

const (
	// KindOK means Text holds the extracted document text.
	KindOK Kind = iota
	// KindUnsupported means the format is not PDF or DOCX; Text holds UnsupportedText.
	KindUnsupported
	// KindFailed means the format was recognised but the parser failed; Err is set.
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindUnsupported:
		return "unsupported"
	case KindFailed:
		return "failed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Result is the tagged outcome of Extract. Callers switch on Kind.
type Result struct {
	Kind   Kind
	Format Format
	Text   string
	Err    error
}

// DetectFormat maps a file name to a Format using its extension, case-insensitively.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	default:
		return FormatUnknown
	}
}

// Extract reads the text of a PDF or DOCX document.
func Extract(data []byte, filename string) Result {
	format := DetectFormat(filename)

	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	default:
		return Result{Kind: KindUnsupported, Format: format, Text: UnsupportedText}
	}

	if err != nil {
		return Result{
			Kind:   KindFailed,
			Format: format,
			Err:    fmt.Errorf("failed to extract %s text from %s: %w", format, filename, err),
		}
	}
	return Result{Kind: KindOK, Format: format, Text: CleanText(text)}
}
