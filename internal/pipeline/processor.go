package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Processor coordinates text extraction then rule-based parse per file.
type Processor struct {
	Logger *slog.Logger
	Text   *TextStage
	Parse  *ParseStage
}

func NewProcessor(logger *slog.Logger, text *TextStage, parse *ParseStage) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Text: text, Parse: parse}
}

// ProcessFile runs text extraction for a fileID (creating/advancing
// parse_job), then runs the parse stage on the resulting job, and
// upserts the style record. Returns the final jobID (same one started
// by the text stage).
func (p *Processor) ProcessFile(ctx context.Context, fileID uuid.UUID) (uuid.UUID, error) {
	// 1) Text stage → creates job + stores extracted_text + page count
	jobID, textRes, err := p.Text.Run(ctx, fileID)
	if err != nil {
		p.Logger.Error("processor.text.failed", "file_id", fileID, "err", err)
		return jobID, err
	}
	p.Logger.Info("processor.text.ok",
		"file_id", fileID,
		"job_id", jobID,
		"method", textRes.Method,
		"pages", textRes.Pages,
	)

	// 2) Parse stage → reads job.extracted_text, runs the analyzer, and
	// upserts the style record.
	if _, err := p.Parse.Run(ctx, jobID); err != nil {
		p.Logger.Error("processor.parse.failed", "job_id", jobID, "err", err)
		return jobID, err
	}
	p.Logger.Info("processor.parse.ok", "job_id", jobID)
	return jobID, nil
}
