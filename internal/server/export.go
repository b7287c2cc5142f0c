package server

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/export"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/utils"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	v1 "github.com/haldkarsurbhi/risk-analyser-backend/gen/proto/techpack/v1"
)

type ExportServer struct {
	v1.UnimplementedExportServiceServer
	svc    *export.Service
	logger *slog.Logger
}

func NewExportServer(svc *export.Service, logger *slog.Logger) *ExportServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportServer{svc: svc, logger: logger}
}

// ExportStyles renders the selected window of style records as a
// workbook or CSV stream. Window semantics live in the export service.
func (s *ExportServer) ExportStyles(ctx context.Context, req *v1.ExportStylesRequest) (*v1.ExportStylesResponse, error) {
	wid := strings.TrimSpace(req.GetWorkspaceId())
	workspaceID, err := uuid.Parse(wid)
	if err != nil || wid == "" {
		return nil, status.Error(codes.InvalidArgument, "workspace_id must be a UUID")
	}

	var fromPtr, toPtr *time.Time
	if fd := strings.TrimSpace(req.GetFromDate()); fd != "" {
		t, err := utils.ParseYMD(fd)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, "from_date must be YYYY-MM-DD")
		}
		fromPtr = &t
	}
	if td := strings.TrimSpace(req.GetToDate()); td != "" {
		t, err := utils.ParseYMD(td)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, "to_date must be YYYY-MM-DD")
		}
		toPtr = &t
	}

	stamp := time.Now().UTC().Format("20060102")
	switch req.GetFormat() {
	case v1.ExportFormat_EXPORT_FORMAT_CSV:
		data, err := s.svc.ExportStylesCSV(ctx, workspaceID, fromPtr, toPtr)
		if err != nil {
			s.logger.Error("export.csv.failed", "workspace_id", wid, "err", err)
			return nil, status.Errorf(codes.Internal, "export: %v", err)
		}
		return &v1.ExportStylesResponse{Data: data, Filename: "styles-" + stamp + ".csv"}, nil

	case v1.ExportFormat_EXPORT_FORMAT_XLSX, v1.ExportFormat_EXPORT_FORMAT_UNSPECIFIED:
		data, err := s.svc.ExportStylesXLSX(ctx, workspaceID, fromPtr, toPtr)
		if err != nil {
			s.logger.Error("export.xlsx.failed", "workspace_id", wid, "err", err)
			return nil, status.Errorf(codes.Internal, "export: %v", err)
		}
		return &v1.ExportStylesResponse{Data: data, Filename: "styles-" + stamp + ".xlsx"}, nil

	default:
		return nil, status.Error(codes.InvalidArgument, "unsupported export format")
	}
}
