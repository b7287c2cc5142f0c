package server

import (
	"context"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"
	v1 "github.com/haldkarsurbhi/risk-analyser-backend/gen/proto/techpack/v1"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/async"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/common"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/ingest"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/repository"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type IngestionService struct {
	v1.UnimplementedIngestionServiceServer
	ingestor      ingest.Ingestor
	queue         async.Queue
	workspaceRepo repository.WorkspaceRepository
	logger        *slog.Logger
}

func NewIngestionService(ing ingest.Ingestor, queue async.Queue, w repository.WorkspaceRepository, logger *slog.Logger) *IngestionService {
	return &IngestionService{
		ingestor:      ing,
		queue:         queue,
		workspaceRepo: w,
		logger:        logger,
	}
}

// IngestFile implements v1.IngestionServiceServer
func (s *IngestionService) IngestFile(ctx context.Context, req *v1.IngestFileRequest) (*v1.IngestResponse, error) {
	wid := strings.TrimSpace(req.GetWorkspaceId())
	if wid == "" {
		s.logger.Error("ingest request missing workspace_id")
		return nil, status.Error(codes.InvalidArgument, "workspace_id is required")
	}
	workspaceID, err := uuid.Parse(wid)
	if err != nil {
		s.logger.Error("invalid workspace_id format for ingest", "workspace_id", wid, "error", err)
		return nil, status.Error(codes.InvalidArgument, "workspace_id must be a UUID")
	}

	path := strings.TrimSpace(req.GetPath())
	if path == "" {
		s.logger.Error("ingest request missing path", "workspace_id", workspaceID)
		return nil, status.Error(codes.InvalidArgument, "path is required")
	}

	if exists, _ := s.workspaceRepo.Exists(ctx, workspaceID); !exists {
		s.logger.Error("workspace not found for ingest", "workspace_id", workspaceID)
		return nil, status.Error(codes.NotFound, "workspace not found")
	}

	s.logger.Info("starting file ingest", "workspace_id", workspaceID, "path", path)
	r, err := s.ingestor.IngestPath(ctx, workspaceID, path)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "ingest: %v", err)
	}
	s.logger.Info("file ingest succeeded", "workspace_id", workspaceID, "file_id", r.FileID, "deduplicated", r.Deduplicated)

	resp := toPBIngestResponse(r)
	resp.Queued = s.enqueue(ctx, r)
	return resp, nil
}

func (s *IngestionService) IngestDirectory(ctx context.Context, req *v1.IngestDirectoryRequest) (*v1.IngestDirectoryResponse, error) {
	wid := strings.TrimSpace(req.GetWorkspaceId())
	if wid == "" {
		s.logger.Error("ingest directory request missing workspace_id")
		return nil, status.Error(codes.InvalidArgument, "workspace_id is required")
	}
	workspaceID, err := uuid.Parse(wid)
	if err != nil {
		s.logger.Error("invalid workspace_id format for ingest directory", "workspace_id", wid, "error", err)
		return nil, status.Error(codes.InvalidArgument, "workspace_id must be a UUID")
	}
	root := strings.TrimSpace(req.GetRootPath())
	if root == "" {
		s.logger.Error("ingest directory request missing root_path", "workspace_id", workspaceID)
		return nil, status.Error(codes.InvalidArgument, "root_path is required")
	}
	skipHidden := !req.GetIncludeHidden()

	if exists, _ := s.workspaceRepo.Exists(ctx, workspaceID); !exists {
		s.logger.Error("workspace not found for ingest directory", "workspace_id", workspaceID)
		return nil, status.Error(codes.NotFound, "workspace not found")
	}

	s.logger.Info("starting directory ingest", "workspace_id", workspaceID, "root", root, "skip_hidden", skipHidden)
	results, stats, err := s.ingestor.IngestDirectory(ctx, workspaceID, root, skipHidden)
	if err != nil {
		// DB and file errors are already logged in repository/ingest layers
		return nil, status.Errorf(codes.InvalidArgument, "ingest directory: %v", err)
	}
	s.logger.Info("directory ingest completed", "workspace_id", workspaceID, "scanned", stats.Scanned, "matched", stats.Matched, "succeeded", stats.Succeeded, "deduplicated", stats.Deduplicated, "failed", stats.Failed)

	out := &v1.IngestDirectoryResponse{
		Scanned:      stats.Scanned,
		Matched:      stats.Matched,
		Succeeded:    stats.Succeeded,
		Deduplicated: stats.Deduplicated,
		Failed:       stats.Failed,
		Results:      make([]*v1.IngestResponse, 0, len(results)),
	}

	for _, r := range results {
		item := toPBIngestResponse(r)
		if r.Err == "" && r.FileID != "" {
			item.Queued = s.enqueue(ctx, r)
		}
		out.Results = append(out.Results, item)
	}
	return out, nil
}

func (s *IngestionService) UploadTechpack(ctx context.Context, req *v1.UploadTechpackRequest) (*v1.IngestResponse, error) {
	wid := strings.TrimSpace(req.GetWorkspaceId())
	if wid == "" {
		s.logger.Error("upload request missing workspace_id")
		return nil, status.Error(codes.InvalidArgument, "workspace_id is required")
	}
	workspaceID, err := uuid.Parse(wid)
	if err != nil {
		s.logger.Error("invalid workspace_id format for upload", "workspace_id", wid, "error", err)
		return nil, status.Error(codes.InvalidArgument, "workspace_id must be a UUID")
	}

	filename := strings.TrimSpace(req.GetFilename())
	if filename == "" {
		return nil, status.Error(codes.InvalidArgument, "filename is required")
	}
	if len(req.GetContent()) == 0 {
		return nil, status.Error(codes.InvalidArgument, "content is required")
	}

	if exists, _ := s.workspaceRepo.Exists(ctx, workspaceID); !exists {
		s.logger.Error("workspace not found for upload", "workspace_id", workspaceID)
		return nil, status.Error(codes.NotFound, "workspace not found")
	}

	s.logger.Info("starting upload ingest", "workspace_id", workspaceID, "filename", filename, "bytes", len(req.GetContent()))
	r, err := s.ingestor.IngestBytes(ctx, workspaceID, filename, req.GetContent())
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "upload: %v", err)
	}

	resp := toPBIngestResponse(r)
	resp.Queued = s.enqueue(ctx, r)
	return resp, nil
}

// enqueue hands an ingested file to the pipeline queue. Deduplicated
// files are queued as forced jobs so an earlier failed run can recover.
func (s *IngestionService) enqueue(ctx context.Context, r ingest.IngestionResult) bool {
	fileID, err := uuid.Parse(r.FileID)
	if err != nil {
		s.logger.Error("unparseable file id from ingest", "file_id", r.FileID, "error", err)
		return false
	}
	job := async.Job{
		FileID:      fileID,
		Force:       r.Deduplicated,
		SubmittedAt: time.Now(),
		TraceID:     common.RequestIDFromContext(ctx),
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.logger.Error("failed to enqueue file", "file_id", r.FileID, "error", err)
		return false
	}
	return true
}

func toPBIngestResponse(r ingest.IngestionResult) *v1.IngestResponse {
	return &v1.IngestResponse{
		FileId:         r.FileID,
		Deduplicated:   r.Deduplicated,
		ContentHashHex: r.HashHex,
		FileExt:        r.FileExt,
		UploadedAt:     r.UploadedAt.UTC().Format(time.RFC3339),
		SourcePath:     r.SourcePath,
		PageCount:      int32(r.PageCount),
		Error:          r.Err,
	}
}
