package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	v1 "github.com/haldkarsurbhi/risk-analyser-backend/gen/proto/techpack/v1"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/analysis"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/common"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/construction"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/extract"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/utils"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type AnalysisServer struct {
	v1.UnimplementedAnalysisServiceServer
	analyzer *analysis.Analyzer
	timeout  time.Duration
	logger   *slog.Logger
}

func NewAnalysisServer(analyzer *analysis.Analyzer, timeout time.Duration, logger *slog.Logger) *AnalysisServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisServer{analyzer: analyzer, timeout: timeout, logger: logger}
}

// AnalyzeTechpack runs the full analysis on uploaded bytes. Nothing is
// persisted; the caller gets the record, trace and construction document.
func (s *AnalysisServer) AnalyzeTechpack(ctx context.Context, req *v1.AnalyzeTechpackRequest) (*v1.AnalyzeTechpackResponse, error) {
	if len(req.GetContent()) == 0 {
		return nil, status.Error(codes.InvalidArgument, "content is required")
	}
	filename := strings.TrimSpace(req.GetFilename())

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = common.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := s.analyzer.Run(ctx, req.GetContent())
	if err != nil {
		if extract.IsUnreadable(err) {
			s.logger.Warn("analyze rejected unreadable document", "filename", filename, "error", err)
			return nil, status.Errorf(codes.InvalidArgument, "analyze: %v", err)
		}
		s.logger.Error("analyze failed", "filename", filename, "error", err)
		return nil, status.Errorf(codes.Internal, "analyze: %v", err)
	}

	docJSON, err := json.Marshal(res.Construction)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode construction: %v", err)
	}
	if err := construction.ValidateDocumentJSON(docJSON); err != nil {
		s.logger.Error("analysis produced invalid construction document", "filename", filename, "error", err)
		return nil, status.Errorf(codes.Internal, "validate analysis: %v", err)
	}

	s.logger.Info("analyze.ok",
		"filename", filename,
		"pages", res.Pages,
		"trace_entries", len(res.Trace),
		"needs_review", res.NeedsReview,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return &v1.AnalyzeTechpackResponse{
		Record:           utils.ToPBStyleRecordFromFields(&res.Fields),
		Trace:            utils.ToPBTrace(res.Trace),
		ConstructionJson: docJSON,
		Pages:            int32(res.Pages),
		Warnings:         res.Warnings,
		Classifier:       res.Classifier,
		NeedsReview:      res.NeedsReview,
	}, nil
}
