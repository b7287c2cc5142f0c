package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/haldkarsurbhi/risk-analyser-backend/internal/analysis"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/classify"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/common"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/construction"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/extract"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/fields"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/pdftext"
)

var analyzeTrace bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE",
	Short: "Analyze a single tech pack PDF and print the result as JSON",
	Long: `Analyze runs extraction on one PDF without touching the database.

The result is printed to stdout as JSON: the extracted style fields,
the construction sheet, page count and any warnings. Pass --trace to
include the per-rule extraction trace.

Example:
  techpackctl analyze WS-4411.pdf --trace`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeTrace, "trace", false, "include the per-rule extraction trace")
}

type analyzeOutput struct {
	File         string                `json:"file"`
	Fields       fields.StyleFields    `json:"fields"`
	Construction construction.Document `json:"construction"`
	Pages        int                   `json:"pages"`
	Warnings     []string              `json:"warnings,omitempty"`
	Classifier   string                `json:"classifier,omitempty"`
	NeedsReview  bool                  `json:"needs_review"`
	Trace        extract.Trace         `json:"trace,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	ctx := cmd.Context()
	cfg := common.LoadConfig()

	opts := analysis.Options{
		Extractor: pdftext.NewExtractor(pdftext.Config{MaxPages: cfg.Pipeline.MaxPages}, logger),
		Logger:    logger,
	}
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		strategy, err := classify.NewGeminiStrategy(ctx, cfg.AI.APIKey, cfg.AI.Model, logger)
		if err != nil {
			return fmt.Errorf("gemini classifier: %w", err)
		}
		defer func() { _ = strategy.Close() }()
		opts.Classifier = strategy
		opts.ReviewOnClassify = true
	}
	analyzer := analysis.New(opts)

	res, err := analyzer.Run(ctx, content)
	if err != nil {
		if extract.IsUnreadable(err) {
			return fmt.Errorf("%s is not a readable PDF: %w", path, err)
		}
		return fmt.Errorf("analyze %s: %w", path, err)
	}

	out := analyzeOutput{
		File:         filepath.Base(path),
		Fields:       res.Fields,
		Construction: res.Construction,
		Pages:        res.Pages,
		Warnings:     res.Warnings,
		Classifier:   res.Classifier,
		NeedsReview:  res.NeedsReview,
	}
	if analyzeTrace {
		out.Trace = res.Trace
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
