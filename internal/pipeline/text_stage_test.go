package pipeline_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldkarsurbhi/risk-analyser-backend/constants"
	"github.com/haldkarsurbhi/risk-analyser-backend/gen/ent"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/extract"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/pipeline"
)

type fakeFiles struct {
	rows       map[uuid.UUID]*ent.TechpackFile
	pageCounts map[uuid.UUID]int
}

func newFakeFiles(rows ...*ent.TechpackFile) *fakeFiles {
	f := &fakeFiles{
		rows:       make(map[uuid.UUID]*ent.TechpackFile),
		pageCounts: make(map[uuid.UUID]int),
	}
	for _, r := range rows {
		f.rows[r.ID] = r
	}
	return f
}

func (f *fakeFiles) GetByID(_ context.Context, id uuid.UUID) (*ent.TechpackFile, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, fmt.Errorf("techpack file %s: not found", id)
	}
	return row, nil
}

func (f *fakeFiles) GetByWorkspaceAndHash(context.Context, uuid.UUID, []byte) (*ent.TechpackFile, error) {
	return nil, nil
}

func (f *fakeFiles) Create(context.Context, uuid.UUID, string, string, string, int, []byte, time.Time) (*ent.TechpackFile, error) {
	return nil, nil
}

func (f *fakeFiles) UpsertByHash(context.Context, uuid.UUID, string, string, string, int, []byte, time.Time) (*ent.TechpackFile, bool, error) {
	return nil, false, nil
}

func (f *fakeFiles) SetPageCount(_ context.Context, id uuid.UUID, pages int) error {
	f.pageCounts[id] = pages
	return nil
}

type stubTextExtractor struct {
	res extract.TextExtractionResult
	err error
}

func (s stubTextExtractor) Extract(context.Context, []byte) (extract.TextExtractionResult, error) {
	return s.res, s.err
}

func stageFile(t *testing.T, ext string) *ent.TechpackFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ss26-shirt."+ext)
	require.NoError(t, os.WriteFile(path, []byte("staged document bytes"), 0644))
	return &ent.TechpackFile{
		ID:          uuid.New(),
		WorkspaceID: uuid.New(),
		SourcePath:  path,
		FileExt:     ext,
	}
}

func TestTextStageRun(t *testing.T) {
	row := stageFile(t, "pdf")
	files := newFakeFiles(row)
	jobs := newFakeJobs()
	tx := stubTextExtractor{res: extract.TextExtractionResult{
		Text:   "Style Ref: TEST-001\nBuyer: TEST BUYER",
		Pages:  4,
		Method: "pdf-text",
	}}

	stage := pipeline.NewTextStage(files, jobs, tx, quietLogger())

	jobID, res, err := stage.Run(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Pages)

	job := jobs.jobs[jobID]
	require.NotNil(t, job)
	assert.Equal(t, row.WorkspaceID, job.WorkspaceID)
	assert.Equal(t, "PDF", job.Format)
	require.NotNil(t, job.Status)
	assert.Equal(t, string(constants.JobStatusTextOK), *job.Status)
	require.NotNil(t, job.ExtractedText)
	assert.Equal(t, "Style Ref: TEST-001\nBuyer: TEST BUYER", *job.ExtractedText)

	assert.Equal(t, 4, files.pageCounts[row.ID], "page count backfilled from extraction")
}

func TestTextStageSkipsBackfillWhenPageCountKnown(t *testing.T) {
	row := stageFile(t, "pdf")
	known := 2
	row.PageCount = &known
	files := newFakeFiles(row)
	jobs := newFakeJobs()

	stage := pipeline.NewTextStage(files, jobs, stubTextExtractor{
		res: extract.TextExtractionResult{Text: "text", Pages: 2},
	}, quietLogger())

	_, _, err := stage.Run(context.Background(), row.ID)
	require.NoError(t, err)
	assert.NotContains(t, files.pageCounts, row.ID)
}

func TestTextStageRejectsUnsupportedFormat(t *testing.T) {
	row := stageFile(t, "docx")
	files := newFakeFiles(row)
	jobs := newFakeJobs()

	stage := pipeline.NewTextStage(files, jobs, stubTextExtractor{}, quietLogger())

	_, _, err := stage.Run(context.Background(), row.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
	assert.Empty(t, jobs.jobs, "no job is started for a format the pipeline cannot parse")
}

func TestTextStageMissingStagedFileFailsJob(t *testing.T) {
	row := stageFile(t, "pdf")
	require.NoError(t, os.Remove(row.SourcePath))
	files := newFakeFiles(row)
	jobs := newFakeJobs()

	stage := pipeline.NewTextStage(files, jobs, stubTextExtractor{}, quietLogger())

	jobID, _, err := stage.Run(context.Background(), row.ID)
	require.Error(t, err)
	require.NotEqual(t, uuid.Nil, jobID)
	assert.NotEmpty(t, jobs.failures[jobID])
	assert.Equal(t, string(constants.JobStatusFailed), *jobs.jobs[jobID].Status)
}

func TestTextStageUnreadableDocumentFailsJob(t *testing.T) {
	row := stageFile(t, "pdf")
	files := newFakeFiles(row)
	jobs := newFakeJobs()

	stage := pipeline.NewTextStage(files, jobs, stubTextExtractor{
		err: &extract.UnreadableDocumentError{Reason: "encrypted document"},
	}, quietLogger())

	jobID, _, err := stage.Run(context.Background(), row.ID)
	require.Error(t, err)
	assert.True(t, extract.IsUnreadable(err))
	assert.Contains(t, jobs.failures[jobID], "encrypted document")
}
