package extract

import (
	"context"
	"time"
)

// TextExtractor is Stage 1: raw document bytes -> plain text.
type TextExtractor interface {
	Extract(ctx context.Context, content []byte) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text     string
	Pages    int
	Method   string // "pdf-text"
	Duration time.Duration
	Warnings []string
}
