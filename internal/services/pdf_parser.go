package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFParserService extracts per-page plain text. Extraction is all-or-nothing.
type PDFParserService interface {
	ExtractPages(data []byte) ([]string, error)
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

// ExtractPages implements PDFParserService. Pages without content yield an
// empty string so the page count stays accurate.
func (p *pdfParserService) ExtractPages(data []byte) (pages []string, err error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	// the pdf package panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("failed to read PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	totalPage := r.NumPage()
	pages = make([]string, 0, totalPage)

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract page %d: %w", pageIndex, err)
		}

		pages = append(pages, text)
	}

	if strings.TrimSpace(strings.Join(pages, "")) == "" {
		return nil, fmt.Errorf("no text content found in PDF")
	}

	return pages, nil
}
