package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldkarsurbhi/risk-analyser-backend/constants"
	"github.com/haldkarsurbhi/risk-analyser-backend/gen/ent"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/analysis"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/construction"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/entity"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/extract"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/fields"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/pipeline"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/repository"
)

// fakeJobs is an in-memory ParseJobRepository. Stage transitions mutate
// the stored job the same way the ent-backed repository does.
type fakeJobs struct {
	jobs     map[uuid.UUID]*ent.ParseJob
	finished map[uuid.UUID]*repository.FinishParseRequest
	failures map[uuid.UUID]string
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{
		jobs:     make(map[uuid.UUID]*ent.ParseJob),
		finished: make(map[uuid.UUID]*repository.FinishParseRequest),
		failures: make(map[uuid.UUID]string),
	}
}

func (f *fakeJobs) seed(job *ent.ParseJob) *ent.ParseJob {
	f.jobs[job.ID] = job
	return job
}

func (f *fakeJobs) GetByID(_ context.Context, id uuid.UUID) (*ent.ParseJob, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, fmt.Errorf("parse job %s: not found", id)
	}
	return job, nil
}

func (f *fakeJobs) Start(_ context.Context, fileID, workspaceID uuid.UUID, format string, status constants.JobStatus) (*ent.ParseJob, error) {
	st := string(status)
	job := &ent.ParseJob{
		ID:          uuid.New(),
		FileID:      fileID,
		WorkspaceID: workspaceID,
		Format:      format,
		StartedAt:   time.Now(),
		Status:      &st,
	}
	f.jobs[job.ID] = job
	return job, nil
}

func (f *fakeJobs) MarkRunning(_ context.Context, jobID uuid.UUID) error {
	st := string(constants.JobStatusRunning)
	f.jobs[jobID].Status = &st
	return nil
}

func (f *fakeJobs) FinishTextSuccess(_ context.Context, jobID uuid.UUID, text string, pageCount int) error {
	job := f.jobs[jobID]
	st := string(constants.JobStatusTextOK)
	job.Status = &st
	job.ExtractedText = &text
	job.PageCount = &pageCount
	return nil
}

func (f *fakeJobs) FinishParseSuccess(_ context.Context, req *repository.FinishParseRequest) error {
	f.finished[req.JobID] = req
	st := string(constants.JobStatusParseOK)
	f.jobs[req.JobID].Status = &st
	return nil
}

func (f *fakeJobs) FinishFailure(_ context.Context, jobID uuid.UUID, message string) error {
	f.failures[jobID] = message
	st := string(constants.JobStatusFailed)
	f.jobs[jobID].Status = &st
	return nil
}

type fakeStyles struct {
	rec       *entity.StyleRecord
	err       error
	gotWS     uuid.UUID
	gotFields *fields.StyleFields
}

func (f *fakeStyles) GetByID(_ context.Context, _ uuid.UUID) (*entity.StyleRecord, error) {
	return f.rec, nil
}

func (f *fakeStyles) ListStyles(_ context.Context, _ uuid.UUID, _, _ *time.Time) ([]*entity.StyleRecord, error) {
	return nil, nil
}

func (f *fakeStyles) UpsertFromFields(_ context.Context, workspaceID uuid.UUID, flds *fields.StyleFields) (*entity.StyleRecord, error) {
	f.gotWS = workspaceID
	f.gotFields = flds
	if f.err != nil {
		return nil, f.err
	}
	return f.rec, nil
}

type panicStrategy struct{}

func (panicStrategy) Classify(context.Context, string) (string, bool, error) {
	panic("classifier crashed")
}

func (panicStrategy) Name() string { return "panicky" }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func textOKJob(text string) *ent.ParseJob {
	st := string(constants.JobStatusTextOK)
	return &ent.ParseJob{
		ID:            uuid.New(),
		FileID:        uuid.New(),
		WorkspaceID:   uuid.New(),
		Format:        "PDF",
		StartedAt:     time.Now(),
		Status:        &st,
		ExtractedText: &text,
	}
}

func TestParseStageRun(t *testing.T) {
	jobs := newFakeJobs()
	job := jobs.seed(textOKJob("Style Ref: TEST-001\nBuyer: TEST BUYER\nGarment Type: Shirt\nCollar stand height 3.5cm"))
	styles := &fakeStyles{rec: &entity.StyleRecord{ID: uuid.New(), WorkspaceID: job.WorkspaceID}}

	stage := pipeline.NewParseStage(quietLogger(), pipeline.Config{}, jobs, styles, analysis.New(analysis.Options{}))

	gotID, err := stage.Run(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, gotID)

	assert.Equal(t, job.WorkspaceID, styles.gotWS)
	require.NotNil(t, styles.gotFields)
	require.NotNil(t, styles.gotFields.StyleRef)
	assert.Equal(t, "TEST-001", *styles.gotFields.StyleRef)

	req := jobs.finished[job.ID]
	require.NotNil(t, req, "job must finish PARSE_OK")
	assert.Equal(t, styles.rec.ID, req.StyleID)
	assert.Equal(t, pipeline.ParserName, req.ParserName)
	assert.False(t, req.NeedsReview)
	assert.True(t, json.Valid(req.TraceJSON))
	assert.NoError(t, construction.ValidateDocumentJSON(req.AnalysisJSON))
	assert.Contains(t, req.ParserParams, "updated_at")

	require.NotNil(t, jobs.jobs[job.ID].Status)
	assert.Equal(t, string(constants.JobStatusParseOK), *jobs.jobs[job.ID].Status)
}

func TestParseStageRequiresTextOK(t *testing.T) {
	jobs := newFakeJobs()
	st := string(constants.JobStatusRunning)
	job := jobs.seed(&ent.ParseJob{ID: uuid.New(), FileID: uuid.New(), WorkspaceID: uuid.New(), Status: &st})
	styles := &fakeStyles{rec: &entity.StyleRecord{ID: uuid.New()}}

	stage := pipeline.NewParseStage(quietLogger(), pipeline.Config{}, jobs, styles, analysis.New(analysis.Options{}))

	_, err := stage.Run(context.Background(), job.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not ready for parse")

	// precondition failures leave the job untouched
	assert.Empty(t, jobs.finished)
	assert.Empty(t, jobs.failures)
	assert.Nil(t, styles.gotFields)
}

func TestParseStageReviewOnMissingRef(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "absent ref flags review", text: "Buyer: TEST BUYER\nGarment Type: Shirt", want: true},
		{name: "present ref passes", text: "Style Ref: TEST-001\nGarment Type: Shirt", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := newFakeJobs()
			job := jobs.seed(textOKJob(tt.text))
			styles := &fakeStyles{rec: &entity.StyleRecord{ID: uuid.New()}}

			stage := pipeline.NewParseStage(quietLogger(), pipeline.Config{ReviewOnMissingRef: true}, jobs, styles, analysis.New(analysis.Options{}))

			_, err := stage.Run(context.Background(), job.ID)
			require.NoError(t, err)

			req := jobs.finished[job.ID]
			require.NotNil(t, req)
			assert.Equal(t, tt.want, req.NeedsReview)
		})
	}
}

func TestParseStageAnalyzerFailureMarksJob(t *testing.T) {
	jobs := newFakeJobs()
	job := jobs.seed(textOKJob("plain text without any garment words"))
	styles := &fakeStyles{rec: &entity.StyleRecord{ID: uuid.New()}}

	stage := pipeline.NewParseStage(quietLogger(), pipeline.Config{}, jobs, styles,
		analysis.New(analysis.Options{Classifier: panicStrategy{}}))

	_, err := stage.Run(context.Background(), job.ID)
	require.Error(t, err)
	assert.True(t, extract.IsExtractionFailed(err))

	assert.NotEmpty(t, jobs.failures[job.ID])
	assert.Empty(t, jobs.finished)
	require.NotNil(t, jobs.jobs[job.ID].Status)
	assert.Equal(t, string(constants.JobStatusFailed), *jobs.jobs[job.ID].Status)
}

func TestParseStageUpsertFailureMarksJob(t *testing.T) {
	jobs := newFakeJobs()
	job := jobs.seed(textOKJob("Style Ref: TEST-001"))
	styles := &fakeStyles{err: errors.New("workspace gone")}

	stage := pipeline.NewParseStage(quietLogger(), pipeline.Config{}, jobs, styles, analysis.New(analysis.Options{}))

	_, err := stage.Run(context.Background(), job.ID)
	require.Error(t, err)
	assert.Contains(t, jobs.failures[job.ID], "workspace gone")
	assert.Empty(t, jobs.finished)
}
