package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/haldkarsurbhi/risk-analyser-backend/constants"
	"github.com/haldkarsurbhi/risk-analyser-backend/gen/ent"
)

// FinishParseRequest wraps the parse-stage outcome persisted on a job.
type FinishParseRequest struct {
	JobID        uuid.UUID
	StyleID      uuid.UUID
	TraceJSON    json.RawMessage
	AnalysisJSON json.RawMessage
	ParserName   string
	ParserParams map[string]any
	NeedsReview  bool
}

type ParseJobRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ent.ParseJob, error)
	Start(ctx context.Context, fileID, workspaceID uuid.UUID, format string, status constants.JobStatus) (*ent.ParseJob, error)
	MarkRunning(ctx context.Context, jobID uuid.UUID) error
	FinishTextSuccess(ctx context.Context, jobID uuid.UUID, text string, pageCount int) error
	FinishParseSuccess(ctx context.Context, req *FinishParseRequest) error
	FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error
}

type parseJobRepo struct {
	ent *ent.Client
	log *slog.Logger
}

func NewParseJobRepository(entc *ent.Client, log *slog.Logger) ParseJobRepository {
	return &parseJobRepo{ent: entc, log: log}
}

func (r *parseJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*ent.ParseJob, error) {
	return r.ent.ParseJob.Get(ctx, id)
}

func (r *parseJobRepo) Start(ctx context.Context, fileID, workspaceID uuid.UUID, format string, status constants.JobStatus) (*ent.ParseJob, error) {
	job, err := r.ent.ParseJob.
		Create().
		SetFileID(fileID).
		SetWorkspaceID(workspaceID).
		SetFormat(format).
		SetStatus(string(status)).
		Save(ctx)
	if err != nil {
		r.log.Error("parse_job start failed", "file_id", fileID, "err", err)
		return nil, err
	}
	r.log.Info("parse_job started", "job_id", job.ID, "file_id", fileID, "format", format)
	return job, nil
}

func (r *parseJobRepo) MarkRunning(ctx context.Context, jobID uuid.UUID) error {
	_, err := r.ent.ParseJob.
		UpdateOneID(jobID).
		SetStatus(string(constants.JobStatusRunning)).
		Save(ctx)
	if err != nil {
		r.log.Error("parse_job mark running failed", "job_id", jobID, "err", err)
	}
	return err
}

func (r *parseJobRepo) FinishTextSuccess(ctx context.Context, jobID uuid.UUID, text string, pageCount int) error {
	_, err := r.ent.ParseJob.
		UpdateOneID(jobID).
		SetExtractedText(text).
		SetPageCount(pageCount).
		SetStatus(string(constants.JobStatusTextOK)).
		Save(ctx)
	if err != nil {
		r.log.Error("parse_job finish(TEXT_OK) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Info("parse_job text extracted (TEXT_OK)", "job_id", jobID, "pages", pageCount)
	return nil
}

func (r *parseJobRepo) FinishParseSuccess(ctx context.Context, req *FinishParseRequest) error {
	var params []byte
	if req.ParserParams != nil {
		if b, err := json.Marshal(req.ParserParams); err == nil {
			params = b
		}
	}
	upd := r.ent.ParseJob.
		UpdateOneID(req.JobID).
		SetStyleID(req.StyleID).
		SetTraceJSON(req.TraceJSON).
		SetAnalysisJSON(req.AnalysisJSON).
		SetNeedsReview(req.NeedsReview).
		SetFinishedAt(time.Now()).
		SetStatus(string(constants.JobStatusParseOK))
	if req.ParserName != "" {
		upd = upd.SetParserName(req.ParserName)
	}
	if params != nil {
		upd = upd.SetParserParams(params)
	}
	_, err := upd.Save(ctx)
	if err != nil {
		r.log.Error("parse_job finish(PARSE_OK) failed", "job_id", req.JobID, "err", err)
		return err
	}
	r.log.Info("parse_job finished (PARSE_OK)", "job_id", req.JobID, "style_id", req.StyleID, "needs_review", req.NeedsReview)
	return nil
}

func (r *parseJobRepo) FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error {
	_, err := r.ent.ParseJob.
		UpdateOneID(jobID).
		SetFinishedAt(time.Now()).
		SetStatus(string(constants.JobStatusFailed)).
		SetErrorMessage(message).
		Save(ctx)
	if err != nil {
		r.log.Error("parse_job finish(FAILED) failed", "job_id", jobID, "err", err)
		return err
	}
	r.log.Warn("parse_job finished (FAILED)", "job_id", jobID, "error", message)
	return nil
}
