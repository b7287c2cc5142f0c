package workspaces

import (
	"context"
	"log/slog"
	"strings"

	"github.com/haldkarsurbhi/risk-analyser-backend/internal/common"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/entity"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/repository"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/utils"
)

// Service handles workspace business logic.
type Service struct {
	workspaceRepo repository.WorkspaceRepository
	logger        *slog.Logger
}

// NewService creates a new workspace service.
func NewService(workspaceRepo repository.WorkspaceRepository, logger *slog.Logger) *Service {
	return &Service{
		workspaceRepo: workspaceRepo,
		logger:        logger,
	}
}

// CreateWorkspaceRequest represents workspace creation parameters.
type CreateWorkspaceRequest struct {
	Name        string
	Description string
}

// CreateWorkspace creates a new workspace.
func (s *Service) CreateWorkspace(ctx context.Context, req CreateWorkspaceRequest) (*entity.Workspace, error) {
	validator := common.NewValidator()
	validator.Field("name", req.Name, common.Required, common.MaxLength(255))
	validator.Field("description", req.Description, common.MaxLength(2000))

	if err := common.ValidateAndReturnError(validator); err != nil {
		return nil, err
	}

	w, err := s.workspaceRepo.CreateWorkspace(ctx, &repository.Workspace{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		return nil, common.InternalErrorf("create workspace: %v", err)
	}

	s.logger.Info("workspace created successfully", "workspace_id", w.ID, "name", w.Name)
	return utils.ToWorkspace(w), nil
}

// ListWorkspaces returns all workspaces, oldest first.
func (s *Service) ListWorkspaces(ctx context.Context) ([]*entity.Workspace, error) {
	wlist, err := s.workspaceRepo.ListWorkspaces(ctx)
	if err != nil {
		// DB error already logged in repository layer
		return nil, common.InternalErrorf("list workspaces: %v", err)
	}

	out := make([]*entity.Workspace, 0, len(wlist))
	for _, w := range wlist {
		out = append(out, utils.ToWorkspace(w))
	}
	s.logger.Info("workspaces listed successfully", "count", len(out))
	return out, nil
}
