package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/haldkarsurbhi/risk-analyser-backend/constants"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/analysis"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/construction"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/repository"
)

// ParserName is recorded on every job the rule-based parser completes.
const ParserName = "techpack-rules"

// Config holds behavior flags for the parse stage.
type Config struct {
	// ReviewOnMissingRef flags records that came out of parsing without
	// a style_ref, since those cannot be matched on re-upload.
	ReviewOnMissingRef bool
}

type ParseStage struct {
	Logger     *slog.Logger
	Cfg        Config
	JobsRepo   repository.ParseJobRepository
	StylesRepo repository.StyleRecordRepository
	Analyzer   *analysis.Analyzer
}

func NewParseStage(
	logger *slog.Logger,
	cfg Config,
	jobs repository.ParseJobRepository,
	styles repository.StyleRecordRepository,
	analyzer *analysis.Analyzer,
) *ParseStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParseStage{
		Logger:     logger,
		Cfg:        cfg,
		JobsRepo:   jobs,
		StylesRepo: styles,
		Analyzer:   analyzer,
	}
}

// Run executes the parse stage for an existing text job (jobID).
// Preconditions: job is TEXT_OK with non-empty extracted_text.
// Effects: writes trace_json, analysis_json, needs_review; upserts the
// style record and links job -> style.
func (p *ParseStage) Run(ctx context.Context, jobID uuid.UUID) (uuid.UUID, error) {
	job, err := p.JobsRepo.GetByID(ctx, jobID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("load job: %w", err)
	}
	if job.Status == nil || *job.Status != string(constants.JobStatusTextOK) || job.ExtractedText == nil {
		return job.ID, fmt.Errorf("job not ready for parse: status=%v text_empty=%t", job.Status, job.ExtractedText == nil)
	}

	p.Logger.Info("parse.start", "job_id", job.ID, "file_id", job.FileID, "text_bytes", len(*job.ExtractedText))

	res, err := p.Analyzer.AnalyzeText(ctx, *job.ExtractedText)
	if err != nil {
		_ = p.JobsRepo.FinishFailure(ctx, job.ID, err.Error())
		return job.ID, fmt.Errorf("analyze: %w", err)
	}

	traceJSON, err := json.Marshal(res.Trace)
	if err != nil {
		_ = p.JobsRepo.FinishFailure(ctx, job.ID, err.Error())
		return job.ID, fmt.Errorf("marshal trace: %w", err)
	}
	docJSON, err := json.Marshal(res.Construction)
	if err != nil {
		_ = p.JobsRepo.FinishFailure(ctx, job.ID, err.Error())
		return job.ID, fmt.Errorf("marshal analysis: %w", err)
	}
	// Contract-check the construction document before anything is
	// written, so a malformed analysis never reaches the DB.
	if err := construction.ValidateDocumentJSON(docJSON); err != nil {
		_ = p.JobsRepo.FinishFailure(ctx, job.ID, err.Error())
		return job.ID, fmt.Errorf("validate analysis: %w", err)
	}

	needsReview := res.NeedsReview
	if p.Cfg.ReviewOnMissingRef && res.Fields.StyleRef == nil {
		needsReview = true
	}

	style, err := p.StylesRepo.UpsertFromFields(ctx, job.WorkspaceID, &res.Fields)
	if err != nil {
		_ = p.JobsRepo.FinishFailure(ctx, job.ID, err.Error())
		return job.ID, fmt.Errorf("upsert style: %w", err)
	}

	params := map[string]any{
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	if res.Classifier != "" {
		params["classifier"] = res.Classifier
	}
	if err := p.JobsRepo.FinishParseSuccess(ctx, &repository.FinishParseRequest{
		JobID:        job.ID,
		StyleID:      style.ID,
		TraceJSON:    traceJSON,
		AnalysisJSON: docJSON,
		ParserName:   ParserName,
		ParserParams: params,
		NeedsReview:  needsReview,
	}); err != nil {
		return job.ID, err
	}

	p.Logger.Info("parse.ok",
		"job_id", job.ID, "style_id", style.ID,
		"style_ref", deref(res.Fields.StyleRef),
		"garment_type", deref(res.Fields.GarmentType),
		"needs_review", needsReview,
		"trace_entries", len(res.Trace),
	)
	return job.ID, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
