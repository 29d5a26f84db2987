// Package pdf extracts per-page text from PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/copilot-cli/internal/core/domain"
	"github.com/custodia-labs/copilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/copilot-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles PDF documents. Extraction is best-effort: a page whose
// extraction fails or yields no text is skipped, so a PDF contributes zero
// segments only when every page fails.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file extensions this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract returns one segment per page that yields text. Pages are 1-based
// in the provenance tag.
func (e *Extractor) Extract(ctx context.Context, content []byte, filename string) ([]driven.Segment, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailed, filename, err)
	}

	var segments []driven.Segment
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		text, err := extractPage(reader, pageNum)
		if err != nil {
			logger.Warn("PDF %s: page %d extraction failed: %v", filename, pageNum, err)
			continue
		}
		if text == "" {
			continue
		}

		segments = append(segments, driven.Segment{
			Text: text,
			Page: pageNum,
			Type: domain.ChunkTypeText,
		})
	}

	return segments, nil
}

// extractPage pulls the plain text of a single page. The underlying parser
// panics on some malformed content streams; that is converted into a
// per-page error so the rest of the document still extracts.
func extractPage(reader *pdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page parser panic: %v", r)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}

	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
