package fields

// StyleFields holds the header fields recognized in a tech pack. Every
// field is individually optional: nil means the document did not carry
// a usable value, and callers must treat that as a normal outcome.
type StyleFields struct {
	StyleRef    *string  `json:"style_ref,omitempty"`
	Buyer       *string  `json:"buyer,omitempty"`
	OrderNo     *string  `json:"order_no,omitempty"`
	Season      *string  `json:"season,omitempty"`
	Fit         *string  `json:"fit,omitempty"`
	Modified    *string  `json:"modified,omitempty"`
	GarmentType *string  `json:"garment_type,omitempty"`
	FabricType  *string  `json:"fabric_type,omitempty"`
	WashType    *string  `json:"wash_type,omitempty"`
	Complexity  *float64 `json:"complexity,omitempty"`
}

// Field names as they appear in rules, traces and persisted records.
const (
	FieldStyleRef    = "style_ref"
	FieldBuyer       = "buyer"
	FieldOrderNo     = "order_no"
	FieldSeason      = "season"
	FieldFit         = "fit"
	FieldModified    = "modified"
	FieldGarmentType = "garment_type"
	FieldFabricType  = "fabric_type"
	FieldWashType    = "wash_type"
	FieldComplexity  = "complexity"
)
