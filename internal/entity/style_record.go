package entity

import (
	"time"

	"github.com/google/uuid"
)

// StyleRecord represents the extracted header fields of one style for
// data transfer between layers. Every field beyond the workspace link
// is optional.
type StyleRecord struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	StyleRef    *string   `json:"style_ref,omitempty"`
	Buyer       *string   `json:"buyer,omitempty"`
	OrderNo     *string   `json:"order_no,omitempty"`
	Season      *string   `json:"season,omitempty"`
	Fit         *string   `json:"fit,omitempty"`
	Modified    *string   `json:"modified,omitempty"`
	GarmentType *string   `json:"garment_type,omitempty"`
	FabricType  *string   `json:"fabric_type,omitempty"`
	WashType    *string   `json:"wash_type,omitempty"`
	Complexity  *float64  `json:"complexity,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
