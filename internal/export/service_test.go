package export_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/haldkarsurbhi/risk-analyser-backend/internal/entity"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/export"
)

type stubLister struct {
	recs    []*entity.StyleRecord
	err     error
	gotFrom *time.Time
	gotTo   *time.Time
}

func (s *stubLister) ListStyles(_ context.Context, _ uuid.UUID, from, to *time.Time) ([]*entity.StyleRecord, error) {
	s.gotFrom, s.gotTo = from, to
	return s.recs, s.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func str(s string) *string { return &s }

func sampleRecords() []*entity.StyleRecord {
	seven := 7.5
	updated := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return []*entity.StyleRecord{
		{
			ID:          uuid.New(),
			WorkspaceID: uuid.New(),
			StyleRef:    str("WS-4411"),
			Buyer:       str("H&M"),
			OrderNo:     str("PO-88211"),
			Season:      str("SS26"),
			Fit:         str("Regular"),
			GarmentType: str("Polo"),
			FabricType:  str("Pique 220gsm"),
			WashType:    str("Garment wash"),
			Complexity:  &seven,
			UpdatedAt:   updated,
		},
		{
			ID:          uuid.New(),
			WorkspaceID: uuid.New(),
			StyleRef:    str("WS-4412"),
			UpdatedAt:   updated,
		},
	}
}

func TestExportStylesXLSX(t *testing.T) {
	lister := &stubLister{recs: sampleRecords()}
	svc := export.NewService(lister, quietLogger())

	out, err := svc.ExportStylesXLSX(context.Background(), uuid.New(), nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	const sheet = "Styles"
	get := func(cell string) string {
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Style Ref", get("A1"))
	assert.Equal(t, "Complexity", get("J1"))
	assert.Equal(t, "Updated At", get("K1"))

	assert.Equal(t, "WS-4411", get("A2"))
	assert.Equal(t, "H&M", get("B2"))
	assert.Equal(t, "Polo", get("G2"))
	assert.Equal(t, "Pique 220gsm", get("H2"))
	assert.Equal(t, "7.5", get("J2"))
	assert.Equal(t, "2026-03-14", get("K2"))

	// sparse record: absent fields stay blank, never "0" or "<nil>"
	assert.Equal(t, "WS-4412", get("A3"))
	assert.Equal(t, "", get("B3"))
	assert.Equal(t, "", get("J3"))
}

func TestExportStylesCSV(t *testing.T) {
	lister := &stubLister{recs: sampleRecords()}
	svc := export.NewService(lister, quietLogger())

	out, err := svc.ExportStylesCSV(context.Background(), uuid.New(), nil, nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3, "header plus one line per record")
	assert.Contains(t, lines[0], "StyleRef")
	assert.Contains(t, lines[0], "Complexity")
	assert.Contains(t, lines[1], "WS-4411")
	assert.Contains(t, lines[1], "7.5")
	assert.Contains(t, lines[2], "WS-4412")
}

func TestExportWindowOnlyFromExtendsToToday(t *testing.T) {
	lister := &stubLister{}
	svc := export.NewService(lister, quietLogger())

	from := time.Date(2026, 1, 1, 15, 4, 5, 0, time.UTC)
	_, err := svc.ExportStylesCSV(context.Background(), uuid.New(), &from, nil)
	require.NoError(t, err)

	require.NotNil(t, lister.gotFrom)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *lister.gotFrom, "from is normalized to date-only")
	require.NotNil(t, lister.gotTo, "missing to defaults to today")
	assert.Equal(t, time.Now().UTC().Truncate(24*time.Hour).Day(), lister.gotTo.Day())
}

func TestExportEmptyWindow(t *testing.T) {
	lister := &stubLister{}
	svc := export.NewService(lister, quietLogger())

	out, err := svc.ExportStylesCSV(context.Background(), uuid.New(), nil, nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), "StyleRef", "header row survives an empty result")
}
