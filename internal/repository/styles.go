package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/haldkarsurbhi/risk-analyser-backend/gen/ent"
	"github.com/haldkarsurbhi/risk-analyser-backend/gen/ent/stylerecord"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/entity"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/fields"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/utils"
)

type StyleRecordRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.StyleRecord, error)
	ListStyles(ctx context.Context, workspaceID uuid.UUID, fromDate, toDate *time.Time) ([]*entity.StyleRecord, error)
	UpsertFromFields(ctx context.Context, workspaceID uuid.UUID, f *fields.StyleFields) (*entity.StyleRecord, error)
}

type styleRecordRepository struct {
	client *ent.Client
	logger *slog.Logger
}

func NewStyleRecordRepository(client *ent.Client, logger *slog.Logger) StyleRecordRepository {
	return &styleRecordRepository{
		client: client,
		logger: logger,
	}
}

func (r *styleRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.StyleRecord, error) {
	rec, err := r.client.StyleRecord.Query().
		Where(stylerecord.ID(id)).
		Only(ctx)
	if err != nil {
		return nil, err
	}
	return utils.ToStyleRecord(rec), nil
}

func (r *styleRecordRepository) ListStyles(ctx context.Context, workspaceID uuid.UUID, fromDate, toDate *time.Time) ([]*entity.StyleRecord, error) {
	q := r.client.StyleRecord.Query().Where(stylerecord.WorkspaceID(workspaceID))
	if fromDate != nil {
		q = q.Where(stylerecord.UpdatedAtGTE(*fromDate))
	}
	if toDate != nil {
		q = q.Where(stylerecord.UpdatedAtLTE(*toDate))
	}
	recs, err := q.Order(stylerecord.ByUpdatedAt()).All(ctx)
	if err != nil {
		r.logger.Error("failed to list styles", "workspace_id", workspaceID, "error", err)
		return nil, err
	}

	result := make([]*entity.StyleRecord, len(recs))
	for i, rec := range recs {
		result[i] = utils.ToStyleRecord(rec)
	}
	return result, nil
}

// UpsertFromFields matches on (workspace_id, style_ref) and updates only
// the fields present in f. A record without a style_ref is always
// created fresh: there is no key to match it against.
func (r *styleRecordRepository) UpsertFromFields(ctx context.Context, workspaceID uuid.UUID, f *fields.StyleFields) (*entity.StyleRecord, error) {
	if f.StyleRef != nil {
		existing, err := r.client.StyleRecord.Query().
			Where(
				stylerecord.WorkspaceID(workspaceID),
				stylerecord.StyleRef(*f.StyleRef),
			).
			First(ctx)
		if err == nil {
			rec, uerr := r.client.StyleRecord.UpdateOneID(existing.ID).
				SetNillableBuyer(f.Buyer).
				SetNillableOrderNo(f.OrderNo).
				SetNillableSeason(f.Season).
				SetNillableFit(f.Fit).
				SetNillableModified(f.Modified).
				SetNillableGarmentType(f.GarmentType).
				SetNillableFabricType(f.FabricType).
				SetNillableWashType(f.WashType).
				SetNillableComplexity(f.Complexity).
				Save(ctx)
			if uerr != nil {
				r.logger.Error("failed to update style record", "workspace_id", workspaceID, "style_ref", *f.StyleRef, "error", uerr)
				return nil, uerr
			}
			return utils.ToStyleRecord(rec), nil
		}
		if !ent.IsNotFound(err) {
			r.logger.Error("failed to look up style record", "workspace_id", workspaceID, "style_ref", *f.StyleRef, "error", err)
			return nil, err
		}
	}

	rec, err := r.client.StyleRecord.Create().
		SetWorkspaceID(workspaceID).
		SetNillableStyleRef(f.StyleRef).
		SetNillableBuyer(f.Buyer).
		SetNillableOrderNo(f.OrderNo).
		SetNillableSeason(f.Season).
		SetNillableFit(f.Fit).
		SetNillableModified(f.Modified).
		SetNillableGarmentType(f.GarmentType).
		SetNillableFabricType(f.FabricType).
		SetNillableWashType(f.WashType).
		SetNillableComplexity(f.Complexity).
		Save(ctx)
	if err != nil {
		r.logger.Error("failed to create style record", "workspace_id", workspaceID, "error", err)
		return nil, err
	}
	return utils.ToStyleRecord(rec), nil
}
