package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/haldkarsurbhi/risk-analyser-backend/internal/analysis"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/async"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/classify"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/common"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/export"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/ingest"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/pdftext"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/pipeline"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/workspaces"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	v1 "github.com/haldkarsurbhi/risk-analyser-backend/gen/proto/techpack/v1"
	repo "github.com/haldkarsurbhi/risk-analyser-backend/internal/repository"
	svc "github.com/haldkarsurbhi/risk-analyser-backend/internal/server"
)

func main() {
	// Setup structured logger that outputs messages with variables but no time/level
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove time and level attributes, keep message and other variables
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	addr := cfg.Server.GRPCAddr
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbConfig := repo.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}
	entc, pool, err := repo.Open(ctx, dbConfig, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer repo.Close(entc, pool, logger)

	// Ping DB to ensure connectivity
	if err := repo.HealthCheck(ctx, pool, 5*time.Second, logger); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	// gRPC server
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", addr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(svc.UnaryRequestID(logger)))

	workspacesRepo := repo.NewWorkspaceRepository(entc, logger)
	filesRepo := repo.NewTechpackFileRepository(entc, logger)
	jobsRepo := repo.NewParseJobRepository(entc, logger)
	stylesRepo := repo.NewStyleRecordRepository(entc, logger)

	extractor := pdftext.NewExtractor(pdftext.Config{MaxPages: cfg.Pipeline.MaxPages}, logger)

	// Optional Gemini garment classifier; keyword matching is the stock path
	var strategy classify.Strategy
	reviewOnClassify := false
	if cfg.AI.Enabled {
		gem, err := classify.NewGeminiStrategy(ctx, cfg.AI.APIKey, cfg.AI.Model, logger)
		if err != nil {
			logger.Error("failed to initialize gemini classifier", "error", err)
			os.Exit(1)
		}
		defer func() { _ = gem.Close() }()
		strategy = gem
		reviewOnClassify = true
		logger.Info("gemini classifier enabled", "model", cfg.AI.Model)
	}

	analyzer := analysis.New(analysis.Options{
		Extractor:        extractor,
		Classifier:       strategy,
		ReviewOnClassify: reviewOnClassify,
		Logger:           logger,
	})

	textStage := pipeline.NewTextStage(filesRepo, jobsRepo, extractor, logger)
	parseStage := pipeline.NewParseStage(logger, pipeline.Config{ReviewOnMissingRef: true}, jobsRepo, stylesRepo, analyzer)

	// Orchestrator
	proc := pipeline.NewProcessor(logger, textStage, parseStage)

	queue := async.NewProcessorQueue(proc, logger,
		async.WithWorkers(cfg.Pipeline.Workers),
		async.WithQueueSize(cfg.Pipeline.QueueSize),
		async.WithProcessTimeout(cfg.Pipeline.ProcessTimeout),
	)

	ingestor := ingest.NewFSIngestor(workspacesRepo, filesRepo, cfg.Pipeline.ArtifactDir, logger)

	workspacesService := svc.NewWorkspaceServer(workspaces.NewService(workspacesRepo, logger), logger)
	v1.RegisterWorkspacesServiceServer(grpcServer, workspacesService)
	stylesService := svc.NewStyleService(stylesRepo, logger)
	v1.RegisterStylesServiceServer(grpcServer, stylesService)
	ingestionService := svc.NewIngestionService(ingestor, queue, workspacesRepo, logger)
	v1.RegisterIngestionServiceServer(grpcServer, ingestionService)
	analysisService := svc.NewAnalysisServer(analyzer, cfg.Pipeline.ProcessTimeout, logger)
	v1.RegisterAnalysisServiceServer(grpcServer, analysisService)
	exportService := svc.NewExportServer(export.NewService(stylesRepo, logger), logger)
	v1.RegisterExportServiceServer(grpcServer, exportService)

	// Register gRPC health service
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	// Set the service as serving (empty string means overall server health)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	logger.Info("techpackd listening", "addr", addr)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("gRPC serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	queue.Shutdown(context.Background())
	grpcServer.GracefulStop()
}
