package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/haldkarsurbhi/risk-analyser-backend/internal/extract"
)

// Config holds limits for PDF text extraction.
type Config struct {
	MaxPages int // reject documents above this page count; default 200
}

// Extractor decodes the text layer of a PDF held in memory. Documents
// that cannot be decoded, or decode to no text at all, fail with
// extract.UnreadableDocumentError.
type Extractor struct {
	cfg    Config
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 200
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, logger: logger}
}

// Extract implements extract.TextExtractor. Pages are joined with \f so
// page boundaries survive into the extracted text.
func (e *Extractor) Extract(ctx context.Context, content []byte) (extract.TextExtractionResult, error) {
	start := time.Now()

	if len(content) == 0 {
		return extract.TextExtractionResult{}, &extract.UnreadableDocumentError{Reason: "empty document buffer"}
	}

	r, err := newReader(content)
	if err != nil {
		return extract.TextExtractionResult{}, &extract.UnreadableDocumentError{Reason: "not a parseable PDF", Err: err}
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return extract.TextExtractionResult{}, &extract.UnreadableDocumentError{Reason: "document has no pages"}
	}
	if numPages > e.cfg.MaxPages {
		return extract.TextExtractionResult{}, &extract.UnreadableDocumentError{
			Reason: fmt.Sprintf("document has %d pages, limit is %d", numPages, e.cfg.MaxPages),
		}
	}

	var pages []string
	var warnings []string
	for i := 1; i <= numPages; i++ {
		select {
		case <-ctx.Done():
			return extract.TextExtractionResult{}, ctx.Err()
		default:
		}

		page := r.Page(i)
		if page.V.IsNull() {
			warnings = append(warnings, fmt.Sprintf("page %d: missing page object", i))
			continue
		}

		text, err := pageText(page)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", i, err))
			continue
		}
		if text == "" {
			continue
		}
		pages = append(pages, text)
	}

	text := strings.TrimSpace(strings.Join(pages, "\f"))
	if text == "" {
		return extract.TextExtractionResult{}, &extract.UnreadableDocumentError{Reason: "no extractable text layer"}
	}

	res := extract.TextExtractionResult{
		Text:     text,
		Pages:    numPages,
		Method:   "pdf-text",
		Duration: time.Since(start),
		Warnings: warnings,
	}
	e.logger.Debug("pdftext.extract.ok",
		"pages", numPages, "chars", len(text),
		"warnings", len(warnings), "duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// newReader wraps pdf.NewReader; the parser panics on some malformed
// xref tables, so panics are converted into errors here.
func newReader(content []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r = nil
			err = fmt.Errorf("pdf parser panic: %v", rec)
		}
	}()
	return pdf.NewReader(bytes.NewReader(content), int64(len(content)))
}

// pageText extracts one page. Row assembly is preferred so label/value
// pairs stay on one visual line; the plain text stream is the fallback.
func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("pdf parser panic: %v", rec)
		}
	}()

	rows, rerr := page.GetTextByRow()
	if rerr == nil && len(rows) > 0 {
		var b strings.Builder
		for _, row := range rows {
			line := assembleRow(row.Content)
			if line == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(line)
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			return s, nil
		}
	}

	plain, perr := page.GetPlainText(nil)
	if perr != nil {
		return "", perr
	}
	return strings.TrimSpace(plain), nil
}

// assembleRow joins the positioned text runs of one visual line. A space
// is inserted where the horizontal gap between runs exceeds what glyph
// kerning would produce.
func assembleRow(words pdf.TextHorizontal) string {
	var b strings.Builder
	lastEnd := 0.0
	for _, w := range words {
		if w.S == "" {
			continue
		}
		if b.Len() > 0 {
			gap := w.X - lastEnd
			threshold := w.FontSize * 0.3
			if threshold <= 0 {
				threshold = 1.0
			}
			if gap > threshold {
				b.WriteByte(' ')
			}
		}
		b.WriteString(w.S)
		lastEnd = w.X + w.W
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
