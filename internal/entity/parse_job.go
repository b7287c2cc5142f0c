package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ParseJob represents one analysis run over a tech pack file for data
// transfer between layers.
type ParseJob struct {
	ID            uuid.UUID       `json:"id"`
	FileID        uuid.UUID       `json:"file_id"`
	WorkspaceID   uuid.UUID       `json:"workspace_id"`
	StyleID       *uuid.UUID      `json:"style_id,omitempty"`
	Format        string          `json:"format"`
	StartedAt     time.Time       `json:"started_at"`
	FinishedAt    *time.Time      `json:"finished_at,omitempty"`
	Status        *string         `json:"status,omitempty"`
	ErrorMessage  *string         `json:"error_message,omitempty"`
	NeedsReview   bool            `json:"needs_review"`
	ExtractedText *string         `json:"extracted_text,omitempty"`
	PageCount     *int            `json:"page_count,omitempty"`
	TraceJSON     json.RawMessage `json:"trace_json,omitempty"`
	AnalysisJSON  json.RawMessage `json:"analysis_json,omitempty"`
	ParserName    *string         `json:"parser_name,omitempty"`
	ParserParams  json.RawMessage `json:"parser_params,omitempty"`
}
