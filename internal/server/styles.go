package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/haldkarsurbhi/risk-analyser-backend/gen/ent"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/repository"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/utils"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	techpackpb "github.com/haldkarsurbhi/risk-analyser-backend/gen/proto/techpack/v1"
)

type StyleService struct {
	techpackpb.UnimplementedStylesServiceServer
	styleRepo repository.StyleRecordRepository
	logger    *slog.Logger
}

func NewStyleService(styleRepo repository.StyleRecordRepository, logger *slog.Logger) *StyleService {
	return &StyleService{
		styleRepo: styleRepo,
		logger:    logger,
	}
}

func (s *StyleService) ListStyles(ctx context.Context, req *techpackpb.ListStylesRequest) (*techpackpb.ListStylesResponse, error) {
	if strings.TrimSpace(req.GetWorkspaceId()) == "" {
		s.logger.Error("list styles request missing workspace_id")
		return nil, status.Error(codes.InvalidArgument, "workspace_id is required")
	}
	workspaceID, err := uuid.Parse(req.GetWorkspaceId())
	if err != nil {
		s.logger.Error("invalid workspace_id format for list styles", "workspace_id", req.GetWorkspaceId(), "error", err)
		return nil, status.Error(codes.InvalidArgument, "workspace_id must be a UUID")
	}

	var fromDate, toDate *time.Time
	if fd := strings.TrimSpace(req.GetFromDate()); fd != "" {
		from, err := utils.ParseYMD(fd)
		if err != nil {
			s.logger.Error("invalid from_date format", "from_date", fd, "error", err)
			return nil, status.Errorf(codes.InvalidArgument, "from_date invalid (YYYY-MM-DD): %v", err)
		}
		fromDate = &from
	}
	if td := strings.TrimSpace(req.GetToDate()); td != "" {
		to, err := utils.ParseYMD(td)
		if err != nil {
			s.logger.Error("invalid to_date format", "to_date", td, "error", err)
			return nil, status.Errorf(codes.InvalidArgument, "to_date invalid (YYYY-MM-DD): %v", err)
		}
		// updated_at is a timestamp; the bound covers the whole to day
		to = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, time.UTC)
		toDate = &to
	}

	s.logger.Info("listing styles", "workspace_id", workspaceID, "from_date", fromDate, "to_date", toDate)
	recs, err := s.styleRepo.ListStyles(ctx, workspaceID, fromDate, toDate)
	if err != nil {
		s.logger.Error("failed to list styles", "workspace_id", workspaceID, "error", err)
		return nil, status.Errorf(codes.Internal, "list styles: %v", err)
	}
	s.logger.Info("styles listed successfully", "workspace_id", workspaceID, "count", len(recs))

	out := make([]*techpackpb.StyleRecord, 0, len(recs))
	for _, r := range recs {
		out = append(out, utils.ToPBStyleRecordFromEntity(r))
	}
	return &techpackpb.ListStylesResponse{Styles: out}, nil
}

func (s *StyleService) GetStyle(ctx context.Context, req *techpackpb.GetStyleRequest) (*techpackpb.GetStyleResponse, error) {
	id := strings.TrimSpace(req.GetId())
	if id == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	styleID, err := uuid.Parse(id)
	if err != nil {
		s.logger.Error("invalid id format for get style", "id", id, "error", err)
		return nil, status.Error(codes.InvalidArgument, "id must be a UUID")
	}

	rec, err := s.styleRepo.GetByID(ctx, styleID)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, status.Error(codes.NotFound, "style not found")
		}
		s.logger.Error("failed to get style", "id", styleID, "error", err)
		return nil, status.Errorf(codes.Internal, "get style: %v", err)
	}
	return &techpackpb.GetStyleResponse{Style: utils.ToPBStyleRecordFromEntity(rec)}, nil
}
