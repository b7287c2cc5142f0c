package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/haldkarsurbhi/risk-analyser-backend/gen/ent"
	entfile "github.com/haldkarsurbhi/risk-analyser-backend/gen/ent/techpackfile"
)

type TechpackFileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ent.TechpackFile, error)
	GetByWorkspaceAndHash(ctx context.Context, workspaceID uuid.UUID, hash []byte) (*ent.TechpackFile, error)
	Create(ctx context.Context, workspaceID uuid.UUID, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*ent.TechpackFile, error)
	UpsertByHash(ctx context.Context, workspaceID uuid.UUID, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*ent.TechpackFile, bool, error)
	SetPageCount(ctx context.Context, id uuid.UUID, pages int) error
}

type techpackFileRepo struct {
	ent    *ent.Client
	logger *slog.Logger
}

func NewTechpackFileRepository(entc *ent.Client, logger *slog.Logger) TechpackFileRepository {
	return &techpackFileRepo{
		ent:    entc,
		logger: logger,
	}
}

func (r *techpackFileRepo) GetByID(ctx context.Context, id uuid.UUID) (*ent.TechpackFile, error) {
	return r.ent.TechpackFile.Get(ctx, id)
}

func (r *techpackFileRepo) GetByWorkspaceAndHash(ctx context.Context, workspaceID uuid.UUID, hash []byte) (*ent.TechpackFile, error) {
	row, err := r.ent.TechpackFile.Query().
		Where(
			entfile.WorkspaceID(workspaceID),
			entfile.ContentHash(hash),
		).Only(ctx)
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *techpackFileRepo) Create(ctx context.Context, workspaceID uuid.UUID, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*ent.TechpackFile, error) {
	row, err := r.ent.TechpackFile.Create().
		SetWorkspaceID(workspaceID).
		SetSourcePath(sourcePath).
		SetFilename(filename).
		SetFileExt(ext).
		SetFileSize(size).
		SetContentHash(hash).
		SetUploadedAt(uploadedAt).
		Save(ctx)
	if err != nil {
		r.logger.Error("failed to create techpack file", "workspace_id", workspaceID, "source_path", sourcePath, "filename", filename, "error", err)
		return nil, err
	}
	return row, nil
}

// UpsertByHash returns the existing row when the workspace already holds
// a file with the same content hash. The bool reports whether the row
// was a duplicate.
func (r *techpackFileRepo) UpsertByHash(ctx context.Context, workspaceID uuid.UUID, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*ent.TechpackFile, bool, error) {
	if existing, err := r.GetByWorkspaceAndHash(ctx, workspaceID, hash); err == nil {
		return existing, true, nil
	}
	row, err := r.Create(ctx, workspaceID, sourcePath, filename, ext, size, hash, uploadedAt)
	if err != nil {
		r.logger.Error("failed to upsert techpack file by hash", "workspace_id", workspaceID, "source_path", sourcePath, "filename", filename, "error", err)
		return nil, false, err
	}
	return row, false, nil
}

func (r *techpackFileRepo) SetPageCount(ctx context.Context, id uuid.UUID, pages int) error {
	err := r.ent.TechpackFile.UpdateOneID(id).SetPageCount(pages).Exec(ctx)
	if err != nil {
		r.logger.Error("failed to set page count", "file_id", id, "pages", pages, "error", err)
	}
	return err
}
