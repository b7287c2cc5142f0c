// Package analysis runs the full document pipeline: text extraction,
// field extraction, garment classification and construction analysis.
// One run handles one document and keeps no shared state, so analyzers
// are safe for concurrent use.
package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/haldkarsurbhi/risk-analyser-backend/internal/classify"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/construction"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/extract"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/fields"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/pdftext"
)

// Result is the full outcome of analyzing one document.
type Result struct {
	Fields       fields.StyleFields
	Trace        extract.Trace
	Construction construction.Document
	Text         string
	Pages        int
	Warnings     []string

	// Classifier names the strategy that supplied the garment type,
	// empty when the field engine found one or nothing labeled it.
	Classifier  string
	NeedsReview bool
}

// Options configure an Analyzer. Zero-value fields fall back to the
// stock extractor, rule table and keyword classifier.
type Options struct {
	Extractor  extract.TextExtractor
	Engine     *fields.Engine
	Classifier classify.Strategy

	// ReviewOnClassify marks results for review when the classifier,
	// rather than the field engine, supplied the garment type. Set for
	// advisory strategies such as Gemini.
	ReviewOnClassify bool

	Logger *slog.Logger
}

type Analyzer struct {
	extractor  extract.TextExtractor
	engine     *fields.Engine
	classifier classify.Strategy
	review     bool
	logger     *slog.Logger
}

func New(opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	extractor := opts.Extractor
	if extractor == nil {
		extractor = pdftext.NewExtractor(pdftext.Config{}, logger)
	}
	engine := opts.Engine
	if engine == nil {
		engine = fields.NewEngine()
	}
	classifier := opts.Classifier
	if classifier == nil {
		classifier = classify.NewKeywordStrategy()
	}
	return &Analyzer{
		extractor:  extractor,
		engine:     engine,
		classifier: classifier,
		review:     opts.ReviewOnClassify,
		logger:     logger,
	}
}

// Run decodes content and analyzes its text. UnreadableDocumentError
// from decoding passes through unchanged with no partial result.
func (a *Analyzer) Run(ctx context.Context, content []byte) (*Result, error) {
	extracted, err := a.extractor.Extract(ctx, content)
	if err != nil {
		return nil, err
	}
	res, err := a.AnalyzeText(ctx, extracted.Text)
	if err != nil {
		return nil, err
	}
	res.Pages = extracted.Pages
	res.Warnings = extracted.Warnings
	return res, nil
}

// AnalyzeText runs everything downstream of text extraction. Any panic
// is converted into an ExtractionFailedError carrying the trace
// collected so far, so callers always get a result or a typed failure.
func (a *Analyzer) AnalyzeText(ctx context.Context, text string) (result *Result, err error) {
	var trace extract.Trace
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("analysis.panic", "panic", r)
			result = nil
			err = &extract.ExtractionFailedError{
				Stage: "analysis",
				Trace: trace,
				Err:   fmt.Errorf("panic: %v", r),
			}
		}
	}()

	var f fields.StyleFields
	f, trace = a.engine.Extract(text)

	classifier, reviewed := a.classifyGarment(ctx, &f, text, &trace)

	doc := construction.BuildDocument(text)
	trace = append(trace, constructionSummary(doc))

	a.logger.Debug("analysis.ok",
		"trace_entries", len(trace),
		"classifier", classifier,
	)
	return &Result{
		Fields:       f,
		Trace:        trace,
		Construction: doc,
		Text:         text,
		Classifier:   classifier,
		NeedsReview:  reviewed,
	}, nil
}

// classifyGarment fills garment_type from the configured strategy when
// the field engine left it absent.
func (a *Analyzer) classifyGarment(ctx context.Context, f *fields.StyleFields, text string, trace *extract.Trace) (string, bool) {
	if a.classifier == nil {
		return "", false
	}
	name := a.classifier.Name()

	if f.GarmentType != nil {
		*trace = append(*trace, extract.TraceEntry{
			Rule:    "classifier." + name,
			Field:   fields.FieldGarmentType,
			Outcome: extract.OutcomeSkipped,
			Detail:  "garment_type already extracted",
		})
		return "", false
	}

	label, ok, err := a.classifier.Classify(ctx, text)
	switch {
	case err != nil:
		a.logger.Warn("analysis.classify.error", "classifier", name, "error", err)
		*trace = append(*trace, extract.TraceEntry{
			Rule:    "classifier." + name,
			Field:   fields.FieldGarmentType,
			Outcome: extract.OutcomeError,
			Detail:  err.Error(),
		})
		return "", false
	case !ok:
		*trace = append(*trace, extract.TraceEntry{
			Rule:    "classifier." + name,
			Field:   fields.FieldGarmentType,
			Outcome: extract.OutcomeNoMatch,
			Detail:  "no match",
		})
		return "", false
	}

	f.GarmentType = &label
	*trace = append(*trace, extract.TraceEntry{
		Rule:    "classifier." + name,
		Field:   fields.FieldGarmentType,
		Outcome: extract.OutcomeClassified,
		Value:   label,
	})
	return name, a.review
}

func constructionSummary(doc construction.Document) extract.TraceEntry {
	items := len(doc.Sections.Collar) + len(doc.Sections.Sleeve) + len(doc.Sections.Cuff) +
		len(doc.Sections.Pocket) + len(doc.Sections.Front) + len(doc.Sections.Back) +
		len(doc.Sections.Assembly)
	outcome := extract.OutcomeMatched
	if items == 0 {
		outcome = extract.OutcomeNoMatch
	}
	return extract.TraceEntry{
		Rule:    "construction",
		Outcome: outcome,
		Detail:  fmt.Sprintf("%d items, %d components", items, len(doc.Technical.Components)),
	}
}
