package preflight

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/preflight/config"
	"github.com/tsawler/preflight/internal/pdftest"
	"github.com/tsawler/preflight/model"
)

var a4 = []float64{0, 0, 595, 842}

func TestCheckPrintabilityCleanDocument(t *testing.T) {
	data := pdftest.Document(pdftest.Page{
		MediaBox: a4,
		Content:  "BT /F1 12 Tf 72 720 Td (Hello) Tj ET",
		Images:   []pdftest.Image{{Name: "Im1", Width: 3000, Height: 3000}},
	})

	issues, err := CheckPrintability(data)
	require.NoError(t, err)
	assert.NotNil(t, issues)
	assert.Empty(t, issues)
}

func TestCheckPrintabilityAllPasses(t *testing.T) {
	data := pdftest.Document(
		pdftest.Page{
			MediaBox: []float64{0, 0, 595, 1000},
			Content:  "/F1 6 Tf /F1 15 Tf",
			Compress: true,
			Images:   []pdftest.Image{{Name: "Im1", Width: 1000, Height: 1000}},
		},
		pdftest.Page{
			MediaBox:           []float64{0, 0, 842, 595},
			Images:             []pdftest.Image{{Name: "Im1", Width: 5000, Height: 5000}},
			TransparencyGroups: []string{"G1"},
		},
	)

	issues, err := CheckPrintability(data)
	require.NoError(t, err)

	want := []string{
		"Page 2 has landscape orientation.",
		"Page 1 has margin issues. Please adjust margins.",
		"Page 2 has margin issues. Please adjust margins.",
		"Page 1 has font size issues. Please adjust font size.",
		"Page 1 has image resolution issues. Please use images with at least 300 dpi.",
		"Page 2 has transparency issues. Please remove transparency.",
	}
	if diff := cmp.Diff(want, model.Messages(issues)); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckPrintabilityXRefStreams(t *testing.T) {
	data := pdftest.New().Version("1.5").UseObjectStreams().Pages(
		pdftest.Page{MediaBox: []float64{0, 0, 842, 595}},
	).Bytes()

	issues, err := CheckPrintability(data)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Page 1 has landscape orientation.",
		"Page 1 has margin issues. Please adjust margins.",
	}, model.Messages(issues))
}

func TestCheckPrintabilityZeroPages(t *testing.T) {
	issues, err := CheckPrintability(pdftest.Document())
	require.NoError(t, err)
	assert.NotNil(t, issues)
	assert.Empty(t, issues)
}

func TestCheckPrintabilityParseError(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a pdf", []byte("hello, world")},
		{"header only", []byte("%PDF-1.4\n")},
		{"encrypted", pdftest.New().TrailerEntry("/Encrypt << /V 1 >>").Pages(pdftest.Page{MediaBox: a4}).Bytes()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues, err := CheckPrintability(tt.data)
			require.Error(t, err)
			assert.Nil(t, issues)
			assert.True(t, errors.Is(err, model.ErrDocumentParse), "got %v", err)

			var pe *model.DocumentParseError
			assert.True(t, errors.As(err, &pe))
		})
	}
}

func TestCheckPrintabilityIdempotent(t *testing.T) {
	data := pdftest.Document(
		pdftest.Page{MediaBox: []float64{0, 0, 842, 595}, Content: "/F1 2 Tf"},
		pdftest.Page{MediaBox: a4, Images: []pdftest.Image{{Name: "Im1", Width: 10, Height: 10}}},
	)

	first, err := CheckPrintability(data)
	require.NoError(t, err)
	second, err := CheckPrintability(data)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestCheckDamagedPages(t *testing.T) {
	b := pdftest.New()
	catalog := b.Reserve()
	tree := b.Reserve()
	bad := b.AddStream("/Filter /FlateDecode", []byte("not zlib at all"))
	p1 := b.Add("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Contents " + pdftest.Ref(bad) + " >>")
	p2 := b.Add("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 0 0] >>")
	b.Set(catalog, "<< /Type /Catalog /Pages 2 0 R >>")
	b.Set(tree, "<< /Type /Pages /Kids ["+pdftest.Ref(p1)+" "+pdftest.Ref(p2)+"] /Count 2 >>")
	data := b.SetRoot(catalog).Bytes()

	report, err := New().Check(data)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 2, report.Pages)

	codes := map[int][]string{}
	for _, w := range report.Warnings {
		codes[w.Page] = append(codes[w.Page], w.Code)
	}
	assert.Equal(t, []string{model.WarnContentDecode}, codes[1])
	assert.Equal(t, []string{model.WarnMalformedGeometry, model.WarnMalformedGeometry}, codes[2])
}

func TestCheckBrokenResources(t *testing.T) {
	b := pdftest.New()
	catalog := b.Reserve()
	tree := b.Reserve()
	badImage := b.Add("<< /Type /XObject /Subtype /Image /Width 10")
	badResources := b.Add("<< /XObject")
	p1 := b.Add("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 842 595] >>")
	p2 := b.Add("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /XObject << /Im1 " + pdftest.Ref(badImage) + " >> >> >>")
	p3 := b.Add("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources " + pdftest.Ref(badResources) + " >>")
	b.Set(catalog, "<< /Type /Catalog /Pages 2 0 R >>")
	b.Set(tree, "<< /Type /Pages /Kids ["+pdftest.Ref(p1)+" "+pdftest.Ref(p2)+" "+pdftest.Ref(p3)+"] /Count 3 >>")
	data := b.SetRoot(catalog).Bytes()

	report, err := New().Check(data)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Pages)
	assert.Equal(t, []model.Issue{model.LandscapeIssue(1), model.MarginIssue(1)}, report.Issues)

	codes := map[int][]string{}
	for _, w := range report.Warnings {
		codes[w.Page] = append(codes[w.Page], w.Code)
	}
	assert.Empty(t, codes[1])
	assert.Equal(t, []string{model.WarnResources, model.WarnResources}, codes[2])
	assert.Equal(t, []string{model.WarnResources, model.WarnResources}, codes[3])
}

func TestCheckInvertedMediaBox(t *testing.T) {
	data := pdftest.Document(
		pdftest.Page{MediaBox: []float64{595, 842, 0, 0}, Images: []pdftest.Image{{Name: "Im1", Width: 10, Height: 10}}},
		pdftest.Page{MediaBox: []float64{0, 0, 842, 595}},
	)

	report, err := New().Check(data)
	require.NoError(t, err)
	assert.Equal(t, []model.Issue{model.LandscapeIssue(2), model.MarginIssue(2)}, report.Issues)

	require.Len(t, report.Warnings, 3)
	for _, w := range report.Warnings {
		assert.Equal(t, 1, w.Page)
		assert.Equal(t, model.WarnMalformedGeometry, w.Code)
	}
	assert.Contains(t, report.Warnings[0].Message, "inverted")
}

func TestCheckerOptions(t *testing.T) {
	data := pdftest.Document(pdftest.Page{
		MediaBox: []float64{0, 0, 612, 792},
		Images:   []pdftest.Image{{Name: "Im1", Width: 2000, Height: 2000}},
	})

	report, err := New().Check(data)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Page 1 has margin issues. Please adjust margins.",
		"Page 1 has image resolution issues. Please use images with at least 300 dpi.",
	}, report.Messages())

	letter, err := config.Paper("letter")
	require.NoError(t, err)
	letter.MinResolution = 200

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	report, err = New(WithProfile(letter), WithParallel(true), WithLogger(logger)).Check(data)
	require.NoError(t, err)
	assert.True(t, report.OK(), "unexpected issues: %v", report.Messages())
	assert.Equal(t, "1.4", report.Version)
	assert.Contains(t, logs.String(), "preflight finished")
}

func TestCheckFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "landscape.pdf")
	require.NoError(t, os.WriteFile(path, pdftest.Document(pdftest.Page{MediaBox: []float64{0, 0, 842, 595}}), 0644))

	report, err := New().CheckFile(path)
	require.NoError(t, err)
	assert.Equal(t, model.LandscapeIssue(1), report.Issues[0])

	_, err = New().CheckFile(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, model.ErrDocumentParse))
}

func TestParse(t *testing.T) {
	doc, err := Parse(pdftest.Document(pdftest.Page{MediaBox: a4}, pdftest.Page{MediaBox: a4}))
	require.NoError(t, err)
	assert.Equal(t, 2, doc.PageCount())

	_, err = Parse([]byte("%PDF-1.7\ngarbage"))
	assert.ErrorIs(t, err, model.ErrDocumentParse)
}

func TestMust(t *testing.T) {
	assert.Equal(t, 3, Must(3, nil))
	assert.Panics(t, func() { Must(0, errors.New("boom")) })
}
