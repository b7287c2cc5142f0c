package pipeline_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldkarsurbhi/risk-analyser-backend/constants"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/analysis"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/entity"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/extract"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/pipeline"
)

func TestProcessorProcessFile(t *testing.T) {
	row := stageFile(t, "pdf")
	files := newFakeFiles(row)
	jobs := newFakeJobs()
	styles := &fakeStyles{rec: &entity.StyleRecord{ID: uuid.New(), WorkspaceID: row.WorkspaceID}}

	tx := stubTextExtractor{res: extract.TextExtractionResult{
		Text:   "Style Ref: TEST-001\nGarment Type: Shirt\nCollar stand height 3.5cm",
		Pages:  1,
		Method: "pdf-text",
	}}

	proc := pipeline.NewProcessor(quietLogger(),
		pipeline.NewTextStage(files, jobs, tx, quietLogger()),
		pipeline.NewParseStage(quietLogger(), pipeline.Config{}, jobs, styles, analysis.New(analysis.Options{})),
	)

	jobID, err := proc.ProcessFile(context.Background(), row.ID)
	require.NoError(t, err)

	job := jobs.jobs[jobID]
	require.NotNil(t, job)
	require.NotNil(t, job.Status)
	assert.Equal(t, string(constants.JobStatusParseOK), *job.Status)

	require.NotNil(t, styles.gotFields)
	require.NotNil(t, styles.gotFields.StyleRef)
	assert.Equal(t, "TEST-001", *styles.gotFields.StyleRef)

	req := jobs.finished[jobID]
	require.NotNil(t, req)
	assert.Equal(t, styles.rec.ID, req.StyleID)
	assert.Equal(t, pipeline.ParserName, req.ParserName)
}

func TestProcessorTextFailureStopsPipeline(t *testing.T) {
	row := stageFile(t, "pdf")
	files := newFakeFiles(row)
	jobs := newFakeJobs()
	styles := &fakeStyles{rec: &entity.StyleRecord{ID: uuid.New()}}

	proc := pipeline.NewProcessor(quietLogger(),
		pipeline.NewTextStage(files, jobs, stubTextExtractor{
			err: &extract.UnreadableDocumentError{Reason: "no extractable text"},
		}, quietLogger()),
		pipeline.NewParseStage(quietLogger(), pipeline.Config{}, jobs, styles, analysis.New(analysis.Options{})),
	)

	jobID, err := proc.ProcessFile(context.Background(), row.ID)
	require.Error(t, err)

	assert.Nil(t, styles.gotFields, "parse stage must not run after a text failure")
	require.NotNil(t, jobs.jobs[jobID])
	assert.Equal(t, string(constants.JobStatusFailed), *jobs.jobs[jobID].Status)
}
