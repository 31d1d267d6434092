package server

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageExtractor returns the plain text of every page, in page order.
type PageExtractor func(r io.ReaderAt, size int64) ([]string, error)

// ExtractPDFPages reads each page's text with ledongthuc/pdf. Pages without a
// content stream yield an empty string.
func ExtractPDFPages(r io.ReaderAt, size int64) (pages []string, err error) {
	// the pdf reader panics on some malformed documents
	defer func() {
		if rec := recover(); rec != nil {
			pages, err = nil, fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	total := reader.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	return pages, nil
}
