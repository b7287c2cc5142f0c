package ingest

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Preflight validates a PDF with relaxed settings and reports its page
// count. Files that fail validation are rejected at ingest instead of
// failing later inside the pipeline.
func Preflight(path string) (int, error) {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, cfg); err != nil {
		return 0, fmt.Errorf("validate pdf: %w", err)
	}
	pages, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("page count: %w", err)
	}
	return pages, nil
}
