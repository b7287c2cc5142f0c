package pdftext_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haldkarsurbhi/risk-analyser-backend/internal/extract"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/pdftext"
)

// buildPDF assembles a minimal single-font PDF with one content stream
// per page. Each page value is a newline-separated list of text lines.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	offsets := make(map[int]int)

	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	buf.WriteString("%PDF-1.4\n")

	numObjs := 3 + 2*len(pages)
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(pages)))

	// fixed-width font so every glyph advances and row assembly sees
	// strictly increasing X positions
	widths := strings.TrimSpace(strings.Repeat("500 ", 95))
	writeObj(3, fmt.Sprintf(
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /FirstChar 32 /LastChar 126 /Widths [%s] >>",
		widths))

	escaper := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	for i, page := range pages {
		pageNum := 4 + 2*i
		contentNum := pageNum + 1
		writeObj(pageNum, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			contentNum))

		var stream strings.Builder
		y := 720
		for _, line := range strings.Split(page, "\n") {
			if line == "" {
				continue
			}
			fmt.Fprintf(&stream, "BT /F1 12 Tf 72 %d Td (%s) Tj ET\n", y, escaper.Replace(line))
			y -= 20
		}
		offsets[contentNum] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n<< /Length %d >>\nstream\n%sendstream\nendobj\n",
			contentNum, stream.Len(), stream.String())
	}

	xrefOff := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", numObjs+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= numObjs; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		numObjs+1, xrefOff)

	return buf.Bytes()
}

func TestExtractSinglePage(t *testing.T) {
	doc := buildPDF(t, "Style Ref: TEST-001\nBuyer: TEST BUYER\nComplexity: 5.5")
	ex := pdftext.NewExtractor(pdftext.Config{}, nil)

	res, err := ex.Extract(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, "pdf-text", res.Method)
	assert.Contains(t, res.Text, "Style Ref: TEST-001")
	assert.Contains(t, res.Text, "Buyer: TEST BUYER")
	assert.Contains(t, res.Text, "Complexity: 5.5")
}

func TestExtractPreservesLineOrder(t *testing.T) {
	doc := buildPDF(t, "first line\nsecond line\nthird line")
	ex := pdftext.NewExtractor(pdftext.Config{}, nil)

	res, err := ex.Extract(context.Background(), doc)
	require.NoError(t, err)

	first := strings.Index(res.Text, "first line")
	second := strings.Index(res.Text, "second line")
	third := strings.Index(res.Text, "third line")
	require.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestExtractMultiPage(t *testing.T) {
	doc := buildPDF(t, "page one text", "page two text")
	ex := pdftext.NewExtractor(pdftext.Config{}, nil)

	res, err := ex.Extract(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Pages)
	assert.Contains(t, res.Text, "page one text")
	assert.Contains(t, res.Text, "page two text")
	assert.Contains(t, res.Text, "\f", "page boundary marker expected")
	assert.Less(t, strings.Index(res.Text, "page one text"), strings.Index(res.Text, "page two text"))
}

func TestExtractEmptyBuffer(t *testing.T) {
	ex := pdftext.NewExtractor(pdftext.Config{}, nil)

	_, err := ex.Extract(context.Background(), nil)
	require.Error(t, err)

	var unreadable *extract.UnreadableDocumentError
	assert.ErrorAs(t, err, &unreadable)
}

func TestExtractGarbageBytes(t *testing.T) {
	ex := pdftext.NewExtractor(pdftext.Config{}, nil)

	_, err := ex.Extract(context.Background(), []byte("this is not a pdf document at all"))
	require.Error(t, err)

	var unreadable *extract.UnreadableDocumentError
	assert.ErrorAs(t, err, &unreadable)
}

func TestExtractNoTextLayer(t *testing.T) {
	doc := buildPDF(t, "")
	ex := pdftext.NewExtractor(pdftext.Config{}, nil)

	_, err := ex.Extract(context.Background(), doc)
	require.Error(t, err)

	var unreadable *extract.UnreadableDocumentError
	require.ErrorAs(t, err, &unreadable)
	assert.Contains(t, unreadable.Reason, "no extractable text")
}

func TestExtractPageLimit(t *testing.T) {
	doc := buildPDF(t, "page one", "page two")
	ex := pdftext.NewExtractor(pdftext.Config{MaxPages: 1}, nil)

	_, err := ex.Extract(context.Background(), doc)
	require.Error(t, err)

	var unreadable *extract.UnreadableDocumentError
	assert.ErrorAs(t, err, &unreadable)
}

func TestExtractIdempotent(t *testing.T) {
	doc := buildPDF(t, "Style Ref: TEST-001\nBuyer: TEST BUYER")
	ex := pdftext.NewExtractor(pdftext.Config{}, nil)

	first, err := ex.Extract(context.Background(), doc)
	require.NoError(t, err)
	second, err := ex.Extract(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Pages, second.Pages)
}

func TestExtractCancelledContext(t *testing.T) {
	doc := buildPDF(t, "some text")
	ex := pdftext.NewExtractor(pdftext.Config{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ex.Extract(ctx, doc)
	assert.ErrorIs(t, err, context.Canceled)
}
