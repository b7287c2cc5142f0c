package analysis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldkarsurbhi/risk-analyser-backend/internal/analysis"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/extract"
)

type stubExtractor struct {
	res extract.TextExtractionResult
	err error
}

func (s stubExtractor) Extract(_ context.Context, _ []byte) (extract.TextExtractionResult, error) {
	return s.res, s.err
}

type stubStrategy struct {
	label    string
	ok       bool
	err      error
	panicked bool
}

func (s stubStrategy) Classify(_ context.Context, _ string) (string, bool, error) {
	if s.panicked {
		panic("classifier blew up")
	}
	return s.label, s.ok, s.err
}

func (s stubStrategy) Name() string { return "stub" }

func traceEntry(t *testing.T, tr extract.Trace, rule string) extract.TraceEntry {
	t.Helper()
	for _, e := range tr {
		if e.Rule == rule {
			return e
		}
	}
	t.Fatalf("no trace entry for rule %q", rule)
	return extract.TraceEntry{}
}

func TestRunEmptyBufferIsUnreadable(t *testing.T) {
	a := analysis.New(analysis.Options{})

	_, err := a.Run(context.Background(), nil)

	var unreadable *extract.UnreadableDocumentError
	require.ErrorAs(t, err, &unreadable)
}

func TestRunGarbageBytesIsUnreadable(t *testing.T) {
	a := analysis.New(analysis.Options{})

	_, err := a.Run(context.Background(), []byte("definitely not a pdf"))

	var unreadable *extract.UnreadableDocumentError
	require.ErrorAs(t, err, &unreadable)
}

func TestRunCarriesExtractionMetadata(t *testing.T) {
	a := analysis.New(analysis.Options{Extractor: stubExtractor{
		res: extract.TextExtractionResult{
			Text:     "Style Ref: TEST-001\nBuyer: TEST BUYER",
			Pages:    3,
			Warnings: []string{"page 2: no text"},
		},
	}})

	res, err := a.Run(context.Background(), []byte("stub"))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, []string{"page 2: no text"}, res.Warnings)
	require.NotNil(t, res.Fields.StyleRef)
	assert.Equal(t, "TEST-001", *res.Fields.StyleRef)
	require.NotNil(t, res.Fields.Buyer)
	assert.Equal(t, "TEST BUYER", *res.Fields.Buyer)
}

func TestRunIdempotent(t *testing.T) {
	a := analysis.New(analysis.Options{Extractor: stubExtractor{
		res: extract.TextExtractionResult{Text: "Style Ref: TEST-001\nComplexity: 5.5", Pages: 1},
	}})

	first, err := a.Run(context.Background(), []byte("stub"))
	require.NoError(t, err)
	second, err := a.Run(context.Background(), []byte("stub"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnalyzeTextClassifiesWhenFieldAbsent(t *testing.T) {
	a := analysis.New(analysis.Options{})

	res, err := a.AnalyzeText(context.Background(), "MEN'S PIQUE POLO SS26")
	require.NoError(t, err)

	require.NotNil(t, res.Fields.GarmentType)
	assert.Equal(t, "Polo", *res.Fields.GarmentType)
	assert.Equal(t, "keyword", res.Classifier)
	assert.False(t, res.NeedsReview)

	e := traceEntry(t, res.Trace, "classifier.keyword")
	assert.Equal(t, extract.OutcomeClassified, e.Outcome)
	assert.Equal(t, "Polo", e.Value)
}

func TestAnalyzeTextSkipsClassifierWhenFieldBound(t *testing.T) {
	a := analysis.New(analysis.Options{})

	res, err := a.AnalyzeText(context.Background(), "Garment Type: Shirt\nsome polo text")
	require.NoError(t, err)

	require.NotNil(t, res.Fields.GarmentType)
	assert.Equal(t, "Shirt", *res.Fields.GarmentType)
	assert.Empty(t, res.Classifier)

	e := traceEntry(t, res.Trace, "classifier.keyword")
	assert.Equal(t, extract.OutcomeSkipped, e.Outcome)
}

func TestAnalyzeTextReviewFlagFollowsStrategy(t *testing.T) {
	a := analysis.New(analysis.Options{
		Classifier:       stubStrategy{label: "Polo", ok: true},
		ReviewOnClassify: true,
	})

	res, err := a.AnalyzeText(context.Background(), "plain text without labels")
	require.NoError(t, err)

	assert.True(t, res.NeedsReview)
	assert.Equal(t, "stub", res.Classifier)
}

func TestAnalyzeTextClassifierErrorIsTracedNotFatal(t *testing.T) {
	a := analysis.New(analysis.Options{
		Classifier: stubStrategy{err: errors.New("api quota exceeded")},
	})

	res, err := a.AnalyzeText(context.Background(), "plain text without labels")
	require.NoError(t, err)

	assert.Nil(t, res.Fields.GarmentType)
	e := traceEntry(t, res.Trace, "classifier.stub")
	assert.Equal(t, extract.OutcomeError, e.Outcome)
	assert.Contains(t, e.Detail, "api quota exceeded")
}

func TestAnalyzeTextPanicBecomesTypedFailure(t *testing.T) {
	a := analysis.New(analysis.Options{Classifier: stubStrategy{panicked: true}})

	_, err := a.AnalyzeText(context.Background(), "plain text without labels")

	var failed *extract.ExtractionFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "analysis", failed.Stage)
	assert.NotEmpty(t, failed.Trace, "partial trace must survive the panic")
}

func TestAnalyzeTextConstructionSummaryTraced(t *testing.T) {
	a := analysis.New(analysis.Options{})

	res, err := a.AnalyzeText(context.Background(), "Collar stand height 3.5cm")
	require.NoError(t, err)

	e := traceEntry(t, res.Trace, "construction")
	assert.Equal(t, extract.OutcomeMatched, e.Outcome)
	assert.NotEmpty(t, res.Construction.Sections.Collar)
}
