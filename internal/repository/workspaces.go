package repository

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/haldkarsurbhi/risk-analyser-backend/gen/ent"
	"github.com/haldkarsurbhi/risk-analyser-backend/gen/ent/workspace"
)

type Workspace struct {
	Name        string
	Description string
}

type WorkspaceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ent.Workspace, error)
	GetOrCreateByName(ctx context.Context, name string) (*ent.Workspace, error)
	CreateWorkspace(ctx context.Context, ws *Workspace) (*ent.Workspace, error)
	ListWorkspaces(ctx context.Context) ([]*ent.Workspace, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type workspaceRepository struct {
	client *ent.Client
	logger *slog.Logger
}

func NewWorkspaceRepository(client *ent.Client, logger *slog.Logger) WorkspaceRepository {
	return &workspaceRepository{
		client: client,
		logger: logger,
	}
}

func (r *workspaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*ent.Workspace, error) {
	return r.client.Workspace.
		Query().
		Where(workspace.ID(id)).
		Only(ctx)
}

// GetOrCreateByName returns the oldest workspace with the given name,
// creating one when none exists. Names are not unique, so callers that
// need a specific workspace should address it by ID.
func (r *workspaceRepository) GetOrCreateByName(ctx context.Context, name string) (*ent.Workspace, error) {
	w, err := r.client.Workspace.
		Query().
		Where(workspace.Name(name)).
		Order(workspace.ByCreatedAt()).
		First(ctx)
	if err == nil {
		return w, nil
	}
	if !ent.IsNotFound(err) {
		r.logger.Error("failed to look up workspace by name", "name", name, "error", err)
		return nil, err
	}
	return r.CreateWorkspace(ctx, &Workspace{Name: name})
}

func (r *workspaceRepository) CreateWorkspace(ctx context.Context, ws *Workspace) (*ent.Workspace, error) {
	builder := r.client.Workspace.Create().SetName(ws.Name)
	if ws.Description != "" {
		builder = builder.SetDescription(ws.Description)
	}
	w, err := builder.Save(ctx)
	if err != nil {
		r.logger.Error("failed to create workspace", "name", ws.Name, "error", err)
		return nil, err
	}
	return w, nil
}

func (r *workspaceRepository) ListWorkspaces(ctx context.Context) ([]*ent.Workspace, error) {
	wlist, err := r.client.Workspace.Query().Order(workspace.ByCreatedAt()).All(ctx)
	if err != nil {
		r.logger.Error("failed to list workspaces", "error", err)
		return nil, err
	}
	return wlist, nil
}

func (r *workspaceRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	exists, err := r.client.Workspace.Query().Where(workspace.ID(id)).Exist(ctx)
	if err != nil {
		r.logger.Error("failed to check workspace existence", "workspace_id", id, "error", err)
		return false, err
	}
	return exists, nil
}
