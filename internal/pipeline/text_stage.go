package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/haldkarsurbhi/risk-analyser-backend/constants"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/extract"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/repository"
)

type TextStage struct {
	FilesRepo     repository.TechpackFileRepository
	JobsRepo      repository.ParseJobRepository
	TextExtractor extract.TextExtractor
	Log           *slog.Logger
}

func NewTextStage(files repository.TechpackFileRepository, jobs repository.ParseJobRepository, tx extract.TextExtractor, log *slog.Logger) *TextStage {
	if log == nil {
		log = slog.Default()
	}
	return &TextStage{FilesRepo: files, JobsRepo: jobs, TextExtractor: tx, Log: log}
}

// Run starts a parse_job, extracts the document text, and persists it.
// Returns the job ID and the extraction summary. The parse stage is NOT
// called.
func (p *TextStage) Run(ctx context.Context, fileID uuid.UUID) (uuid.UUID, extract.TextExtractionResult, error) {
	// Lookup the file
	row, err := p.FilesRepo.GetByID(ctx, fileID)
	if err != nil {
		return uuid.Nil, extract.TextExtractionResult{}, fmt.Errorf("get file: %w", err)
	}

	format := constants.FormatForExt(row.FileExt)
	if format == "" {
		return uuid.Nil, extract.TextExtractionResult{}, fmt.Errorf("unsupported format: %s", row.FileExt)
	}

	// Start job in RUNNING
	job, err := p.JobsRepo.Start(ctx, row.ID, row.WorkspaceID, format, constants.JobStatusRunning)
	if err != nil {
		return uuid.Nil, extract.TextExtractionResult{}, err
	}

	content, err := os.ReadFile(row.SourcePath)
	if err != nil {
		_ = p.JobsRepo.FinishFailure(ctx, job.ID, err.Error())
		return job.ID, extract.TextExtractionResult{}, fmt.Errorf("read staged file: %w", err)
	}

	res, err := p.TextExtractor.Extract(ctx, content)
	if err != nil {
		_ = p.JobsRepo.FinishFailure(ctx, job.ID, err.Error())
		return job.ID, res, err
	}

	// Persist text result (mark TEXT_OK)
	if err := p.JobsRepo.FinishTextSuccess(ctx, job.ID, res.Text, res.Pages); err != nil {
		return job.ID, res, err
	}

	// Preflight may not have run on this file yet; backfill the page
	// count once the text layer reports it.
	if row.PageCount == nil && res.Pages > 0 {
		_ = p.FilesRepo.SetPageCount(ctx, row.ID, res.Pages)
	}

	return job.ID, res, nil
}
