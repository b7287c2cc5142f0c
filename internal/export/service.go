package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/haldkarsurbhi/risk-analyser-backend/internal/entity"
)

// StyleLister is the slice of the styles repository that exports read from.
type StyleLister interface {
	ListStyles(ctx context.Context, workspaceID uuid.UUID, fromDate, toDate *time.Time) ([]*entity.StyleRecord, error)
}

// Service is a tiny façade over the styles repository that produces
// workbook and CSV bytes for exports.
type Service struct {
	styles StyleLister
	logger *slog.Logger
}

func NewService(styles StyleLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{styles: styles, logger: logger}
}

var styleHeaders = []string{
	"Style Ref",
	"Buyer",
	"Order No",
	"Season",
	"Fit",
	"Modified",
	"Garment Type",
	"Fabric Type",
	"Wash Type",
	"Complexity",
	"Updated At",
}

// ExportStylesXLSX returns an XLSX workbook (as bytes) for the given workspace and date window.
// If only from is provided -> from..today (inclusive).
// If only to is provided   -> beginning..to (inclusive).
// If neither is provided   -> all styles for the workspace.
func (s *Service) ExportStylesXLSX(ctx context.Context, workspaceID uuid.UUID, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	recs, err := s.listWindow(ctx, workspaceID, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Styles"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range styleHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, strOrEmpty(r.StyleRef))
		write(2, strOrEmpty(r.Buyer))
		write(3, strOrEmpty(r.OrderNo))
		write(4, strOrEmpty(r.Season))
		write(5, strOrEmpty(r.Fit))
		write(6, strOrEmpty(r.Modified))
		write(7, strOrEmpty(r.GarmentType))
		write(8, strOrEmpty(r.FabricType))
		write(9, strOrEmpty(r.WashType))
		write(10, complexityString(r.Complexity))
		write(11, r.UpdatedAt.UTC().Format("2006-01-02"))

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 18) // style ref
	_ = f.SetColWidth(sheet, "B", "B", 22) // buyer
	_ = f.SetColWidth(sheet, "C", "F", 14)
	_ = f.SetColWidth(sheet, "G", "I", 16)
	_ = f.SetColWidth(sheet, "K", "K", 14) // updated

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"workspace_id", workspaceID.String(),
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

type styleCSVRow struct {
	StyleRef    string `csv:"StyleRef"`
	Buyer       string `csv:"Buyer"`
	OrderNo     string `csv:"OrderNo"`
	Season      string `csv:"Season"`
	Fit         string `csv:"Fit"`
	Modified    string `csv:"Modified"`
	GarmentType string `csv:"GarmentType"`
	FabricType  string `csv:"FabricType"`
	WashType    string `csv:"WashType"`
	Complexity  string `csv:"Complexity"`
	UpdatedAt   string `csv:"UpdatedAt"`
}

// ExportStylesCSV returns the same window as ExportStylesXLSX as CSV bytes.
func (s *Service) ExportStylesCSV(ctx context.Context, workspaceID uuid.UUID, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	recs, err := s.listWindow(ctx, workspaceID, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]*styleCSVRow, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, &styleCSVRow{
			StyleRef:    strOrEmpty(r.StyleRef),
			Buyer:       strOrEmpty(r.Buyer),
			OrderNo:     strOrEmpty(r.OrderNo),
			Season:      strOrEmpty(r.Season),
			Fit:         strOrEmpty(r.Fit),
			Modified:    strOrEmpty(r.Modified),
			GarmentType: strOrEmpty(r.GarmentType),
			FabricType:  strOrEmpty(r.FabricType),
			WashType:    strOrEmpty(r.WashType),
			Complexity:  complexityString(r.Complexity),
			UpdatedAt:   r.UpdatedAt.UTC().Format("2006-01-02"),
		})
	}

	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("csv write: %w", err)
	}

	s.logger.Info("export.csv.ok",
		"workspace_id", workspaceID.String(),
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (s *Service) listWindow(ctx context.Context, workspaceID uuid.UUID, from, to *time.Time) ([]*entity.StyleRecord, error) {
	// Normalize dates (date-only, UTC)
	var fromDate, toDate *time.Time
	if from != nil {
		f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
		fromDate = &f
	}
	if to != nil {
		t := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, time.UTC)
		toDate = &t
	}
	if fromDate != nil && toDate == nil {
		today := time.Now().UTC()
		t := time.Date(today.Year(), today.Month(), today.Day(), 23, 59, 59, 0, time.UTC)
		toDate = &t
	}

	recs, err := s.styles.ListStyles(ctx, workspaceID, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("query styles: %w", err)
	}
	return recs, nil
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func complexityString(p *float64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%v", *p)
}
