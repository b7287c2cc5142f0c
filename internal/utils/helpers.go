package utils

import (
	"fmt"
	"time"

	"github.com/haldkarsurbhi/risk-analyser-backend/gen/ent"
	techpackpb "github.com/haldkarsurbhi/risk-analyser-backend/gen/proto/techpack/v1"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/entity"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/extract"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/fields"
)

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func floatOrEmpty(p *float64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%v", *p)
}

func ToPBWorkspaceFromEntity(w *entity.Workspace) *techpackpb.Workspace {
	return &techpackpb.Workspace{
		Id:          w.ID.String(),
		Name:        w.Name,
		Description: strOrEmpty(w.Description),
		CreatedAt:   w.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   w.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func ToPBStyleRecordFromEntity(r *entity.StyleRecord) *techpackpb.StyleRecord {
	return &techpackpb.StyleRecord{
		Id:          r.ID.String(),
		WorkspaceId: r.WorkspaceID.String(),
		StyleRef:    strOrEmpty(r.StyleRef),
		Buyer:       strOrEmpty(r.Buyer),
		OrderNo:     strOrEmpty(r.OrderNo),
		Season:      strOrEmpty(r.Season),
		Fit:         strOrEmpty(r.Fit),
		Modified:    strOrEmpty(r.Modified),
		GarmentType: strOrEmpty(r.GarmentType),
		FabricType:  strOrEmpty(r.FabricType),
		WashType:    strOrEmpty(r.WashType),
		Complexity:  floatOrEmpty(r.Complexity),
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// ToPBStyleRecordFromFields builds the unsaved record of a synchronous
// analysis: no id, workspace or timestamps.
func ToPBStyleRecordFromFields(f *fields.StyleFields) *techpackpb.StyleRecord {
	return &techpackpb.StyleRecord{
		StyleRef:    strOrEmpty(f.StyleRef),
		Buyer:       strOrEmpty(f.Buyer),
		OrderNo:     strOrEmpty(f.OrderNo),
		Season:      strOrEmpty(f.Season),
		Fit:         strOrEmpty(f.Fit),
		Modified:    strOrEmpty(f.Modified),
		GarmentType: strOrEmpty(f.GarmentType),
		FabricType:  strOrEmpty(f.FabricType),
		WashType:    strOrEmpty(f.WashType),
		Complexity:  floatOrEmpty(f.Complexity),
	}
}

func ToPBTrace(t extract.Trace) []*techpackpb.TraceEntry {
	out := make([]*techpackpb.TraceEntry, 0, len(t))
	for _, e := range t {
		out = append(out, &techpackpb.TraceEntry{
			Rule:    e.Rule,
			Field:   e.Field,
			Outcome: string(e.Outcome),
			Line:    int32(e.Line),
			Span:    e.Span,
			Value:   e.Value,
			Detail:  e.Detail,
		})
	}
	return out
}

func ParseYMD(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	// strip time to midnight UTC to match DATE semantics
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func ToWorkspace(e *ent.Workspace) *entity.Workspace {
	return &entity.Workspace{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToTechpackFile(e *ent.TechpackFile) *entity.TechpackFile {
	return &entity.TechpackFile{
		ID:          e.ID,
		WorkspaceID: e.WorkspaceID,
		SourcePath:  e.SourcePath,
		ContentHash: e.ContentHash,
		Filename:    e.Filename,
		FileExt:     e.FileExt,
		FileSize:    e.FileSize,
		PageCount:   e.PageCount,
		UploadedAt:  e.UploadedAt,
	}
}

func ToParseJob(e *ent.ParseJob) *entity.ParseJob {
	return &entity.ParseJob{
		ID:            e.ID,
		FileID:        e.FileID,
		WorkspaceID:   e.WorkspaceID,
		StyleID:       e.StyleID,
		Format:        e.Format,
		StartedAt:     e.StartedAt,
		FinishedAt:    e.FinishedAt,
		Status:        e.Status,
		ErrorMessage:  e.ErrorMessage,
		NeedsReview:   e.NeedsReview,
		ExtractedText: e.ExtractedText,
		PageCount:     e.PageCount,
		TraceJSON:     e.TraceJSON,
		AnalysisJSON:  e.AnalysisJSON,
		ParserName:    e.ParserName,
		ParserParams:  e.ParserParams,
	}
}

func ToStyleRecord(e *ent.StyleRecord) *entity.StyleRecord {
	return &entity.StyleRecord{
		ID:          e.ID,
		WorkspaceID: e.WorkspaceID,
		StyleRef:    e.StyleRef,
		Buyer:       e.Buyer,
		OrderNo:     e.OrderNo,
		Season:      e.Season,
		Fit:         e.Fit,
		Modified:    e.Modified,
		GarmentType: e.GarmentType,
		FabricType:  e.FabricType,
		WashType:    e.WashType,
		Complexity:  e.Complexity,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
