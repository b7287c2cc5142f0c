package entity

import (
	"time"

	"github.com/google/uuid"
)

// TechpackFile represents an ingested tech pack file for data transfer
// between layers.
type TechpackFile struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	SourcePath  string    `json:"source_path"`
	ContentHash []byte    `json:"content_hash"`
	Filename    string    `json:"filename"`
	FileExt     string    `json:"file_ext"`
	FileSize    int       `json:"file_size"`
	PageCount   *int      `json:"page_count,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
