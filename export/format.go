package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/kbukum/speechkit/alignment"
	apperrors "github.com/kbukum/speechkit/errors"
)

// Format is an export file format.
type Format string

// Supported formats.
const (
	FormatTXT  Format = "txt"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

var contentTypes = map[Format]string{
	FormatTXT:  "text/plain; charset=utf-8",
	FormatJSON: "application/json; charset=utf-8",
	FormatPDF:  "application/pdf",
}

// ParseFormat accepts "txt", "json" or "pdf" in any case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := contentTypes[f]; !ok {
		return "", apperrors.InvalidInput("format", fmt.Sprintf("unsupported export format %q (want txt, json or pdf)", s))
	}
	return f, nil
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string { return contentTypes[f] }

// encodeJSON writes the utterances indented by two spaces with non-ASCII
// text and HTML characters left as is.
func encodeJSON(utts []alignment.Utterance) ([]byte, error) {
	if utts == nil {
		utts = []alignment.Utterance{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(utts); err != nil {
		return nil, fmt.Errorf("export: encode json: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

const (
	pdfFontSize   = 12
	pdfLineHeight = 10
	pdfMargin     = 15
	pdfFontFamily = "transcript"
)

// encodePDF lays out the rendered transcript on A4 pages, one line per
// rendered line, wrapping long lines.
func encodePDF(rendered, fontFile string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle("Transcript", true)

	translate := func(s string) string { return s }
	if fontFile != "" {
		pdf.AddUTF8Font(pdfFontFamily, "", fontFile)
		pdf.SetFont(pdfFontFamily, "", pdfFontSize)
	} else {
		pdf.SetFont("Arial", "", pdfFontSize)
		translate = pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.AddPage()

	for _, line := range strings.Split(rendered, "\n") {
		pdf.MultiCell(0, pdfLineHeight, translate(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
