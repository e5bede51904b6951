package convert

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFConverter extracts the embedded text layer of a PDF, one string per page.
// Scanned PDFs come back near-empty; the scan detector decides whether the
// result is trustworthy.
type PDFConverter struct{}

func (PDFConverter) PagesText(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("pdf text extraction: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("pdf open: %w", err)
	}

	pages = make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// a single broken page does not fail the document
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
