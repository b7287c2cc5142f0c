package server

import (
	"context"
	"log/slog"

	techpackpb "github.com/haldkarsurbhi/risk-analyser-backend/gen/proto/techpack/v1"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/utils"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/workspaces"
)

type WorkspaceServer struct {
	techpackpb.UnimplementedWorkspacesServiceServer
	svc    *workspaces.Service
	logger *slog.Logger
}

func NewWorkspaceServer(svc *workspaces.Service, logger *slog.Logger) *WorkspaceServer {
	return &WorkspaceServer{
		svc:    svc,
		logger: logger,
	}
}

// CreateWorkspace creates a new workspace.
func (s *WorkspaceServer) CreateWorkspace(ctx context.Context, req *techpackpb.CreateWorkspaceRequest) (*techpackpb.CreateWorkspaceResponse, error) {
	serviceReq := workspaces.CreateWorkspaceRequest{
		Name:        req.GetName(),
		Description: req.GetDescription(),
	}

	w, err := s.svc.CreateWorkspace(ctx, serviceReq)
	if err != nil {
		return nil, err
	}

	return &techpackpb.CreateWorkspaceResponse{
		Workspace: utils.ToPBWorkspaceFromEntity(w),
	}, nil
}

// ListWorkspaces lists all the workspaces.
func (s *WorkspaceServer) ListWorkspaces(ctx context.Context, _ *techpackpb.ListWorkspacesRequest) (*techpackpb.ListWorkspacesResponse, error) {
	wlist, err := s.svc.ListWorkspaces(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*techpackpb.Workspace, 0, len(wlist))
	for _, w := range wlist {
		out = append(out, utils.ToPBWorkspaceFromEntity(w))
	}
	return &techpackpb.ListWorkspacesResponse{Workspaces: out}, nil
}
