package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/haldkarsurbhi/risk-analyser-backend/internal/analysis"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/classify"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/common"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/entity"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/export"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/ingest"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/pdftext"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/pipeline"
	repo "github.com/haldkarsurbhi/risk-analyser-backend/internal/repository"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/utils"
)

var (
	batchDir       string
	batchOut       string
	batchWorkspace string
	batchFromStr   string
	batchToStr     string
	batchSQLite    string
	batchJobs      int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Ingest and process a directory of tech pack PDFs",
	Long: `Batch ingests every PDF under --dir into a workspace, runs the
extraction pipeline over the ingested files and writes the resulting
styles to an XLSX file.

Files are processed concurrently, --jobs at a time. Results land in
the DB_URL database unless --sqlite points at a local file, which is
created and migrated on first use.

Example:
  techpackctl batch --dir ./techpacks --sqlite techpacks.db`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchDir, "dir", "d", "", "directory to process (required)")
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "", "output XLSX path (defaults to the parent of --dir)")
	batchCmd.Flags().StringVar(&batchWorkspace, "workspace", "Local Batch", "workspace name to ingest into")
	batchCmd.Flags().StringVar(&batchFromStr, "from", "", "export window start YYYY-MM-DD")
	batchCmd.Flags().StringVar(&batchToStr, "to", "", "export window end YYYY-MM-DD")
	batchCmd.Flags().StringVar(&batchSQLite, "sqlite", "", "process against a local SQLite file instead of DB_URL")
	batchCmd.Flags().IntVar(&batchJobs, "jobs", 4, "number of files processed concurrently")
	_ = batchCmd.MarkFlagRequired("dir")
}

// fileOutcome is the per-file result of a batch run, printed at the end.
type fileOutcome struct {
	file *entity.TechpackFile
	job  *entity.ParseJob
	err  error
}

func runBatch(cmd *cobra.Command, args []string) error {
	if batchOut == "" {
		batchOut = filepath.Join(filepath.Dir(batchDir), "techpacks.xlsx")
	}

	var from, to *time.Time
	if batchFromStr != "" {
		parsed, err := utils.ParseYMD(batchFromStr)
		if err != nil {
			return fmt.Errorf("invalid --from date, use YYYY-MM-DD: %w", err)
		}
		from = &parsed
	}
	if batchToStr != "" {
		parsed, err := utils.ParseYMD(batchToStr)
		if err != nil {
			return fmt.Errorf("invalid --to date, use YYYY-MM-DD: %w", err)
		}
		to = &parsed
	}

	ctx := cmd.Context()
	cfg := common.LoadConfig()

	entc, pool, err := openDatabase(ctx, batchSQLite, cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close(entc, pool, logger)

	workspacesRepo := repo.NewWorkspaceRepository(entc, logger)
	filesRepo := repo.NewTechpackFileRepository(entc, logger)
	jobsRepo := repo.NewParseJobRepository(entc, logger)
	stylesRepo := repo.NewStyleRecordRepository(entc, logger)

	ws, err := workspacesRepo.GetOrCreateByName(ctx, batchWorkspace)
	if err != nil {
		return fmt.Errorf("get or create workspace: %w", err)
	}
	logger.Info("using workspace", "id", ws.ID, "name", ws.Name)

	extractor := pdftext.NewExtractor(pdftext.Config{MaxPages: cfg.Pipeline.MaxPages}, logger)

	opts := analysis.Options{Extractor: extractor, Logger: logger}
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		strategy, err := classify.NewGeminiStrategy(ctx, cfg.AI.APIKey, cfg.AI.Model, logger)
		if err != nil {
			return fmt.Errorf("gemini classifier: %w", err)
		}
		defer func() { _ = strategy.Close() }()
		opts.Classifier = strategy
		opts.ReviewOnClassify = true
		logger.Info("gemini classifier enabled", "model", cfg.AI.Model)
	}
	analyzer := analysis.New(opts)

	textStage := pipeline.NewTextStage(filesRepo, jobsRepo, extractor, logger)
	parseStage := pipeline.NewParseStage(logger, pipeline.Config{ReviewOnMissingRef: true}, jobsRepo, stylesRepo, analyzer)
	proc := pipeline.NewProcessor(logger, textStage, parseStage)

	ingestor := ingest.NewFSIngestor(workspacesRepo, filesRepo, cfg.Pipeline.ArtifactDir, logger)

	logger.Info("starting ingestion", "dir", batchDir, "workspace", ws.ID)
	results, stats, err := ingestor.IngestDirectory(ctx, ws.ID, batchDir, true)
	if err != nil {
		return fmt.Errorf("ingest directory: %w", err)
	}

	var ingested []uuid.UUID
	for _, result := range results {
		if result.Err != "" {
			continue
		}
		fileID, err := uuid.Parse(result.FileID)
		if err != nil {
			logger.Error("failed to parse file ID", "file_id", result.FileID, "error", err)
			continue
		}
		ingested = append(ingested, fileID)
	}
	logger.Info("ingestion complete",
		"files_ingested", len(ingested),
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"deduplicated", stats.Deduplicated)

	// Fan out over the ingested files. Failures are collected per file
	// rather than aborting the group, so one bad PDF never sinks the run.
	var (
		mu       sync.Mutex
		outcomes []fileOutcome
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchJobs)
	for _, fileID := range ingested {
		g.Go(func() error {
			jobID, perr := proc.ProcessFile(gctx, fileID)
			oc := fileOutcome{err: perr}
			if f, err := filesRepo.GetByID(gctx, fileID); err == nil {
				oc.file = utils.ToTechpackFile(f)
			}
			if perr == nil {
				if j, err := jobsRepo.GetByID(gctx, jobID); err == nil {
					oc.job = utils.ToParseJob(j)
				}
			}
			mu.Lock()
			outcomes = append(outcomes, oc)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(outcomes, func(i, j int) bool {
		return outcomeName(outcomes[i]) < outcomeName(outcomes[j])
	})

	processed := 0
	failures := 0
	needsReview := 0
	for _, oc := range outcomes {
		name := outcomeName(oc)
		switch {
		case oc.err != nil:
			failures++
			fmt.Printf("FAIL    %s: %v\n", name, oc.err)
		case oc.job != nil && oc.job.NeedsReview:
			processed++
			needsReview++
			fmt.Printf("REVIEW  %s (%s)\n", name, strOr(oc.job.Status, "processed"))
		default:
			processed++
			fmt.Printf("OK      %s\n", name)
		}
	}

	logger.Info("exporting to XLSX", "output", batchOut)
	exportService := export.NewService(stylesRepo, logger)
	xlsxBytes, err := exportService.ExportStylesXLSX(ctx, ws.ID, from, to)
	if err != nil {
		return fmt.Errorf("export styles: %w", err)
	}
	if err := os.WriteFile(batchOut, xlsxBytes, 0644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}

	logger.Info("batch processing complete",
		"files_ingested", len(ingested),
		"files_processed", processed,
		"failures", failures,
		"needs_review", needsReview,
		"output_file", batchOut)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files ingested: %d\n", len(ingested))
	fmt.Printf("- Files processed: %d\n", processed)
	fmt.Printf("- Failures: %d\n", failures)
	fmt.Printf("- Needs review: %d\n", needsReview)
	fmt.Printf("- Output: %s\n", batchOut)
	return nil
}

func outcomeName(oc fileOutcome) string {
	if oc.file != nil {
		return oc.file.Filename
	}
	return "(unknown file)"
}

func strOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
