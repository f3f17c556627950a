package pdf

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalPDF builds a tiny single-page PDF with the given text drawn in
// Helvetica. Enough structure for both the text-layer reader and pdftoppm.
func minimalPDF(text string) []byte {
	content := fmt.Sprintf("BT /F1 24 Tf 72 700 Td (%s) Tj ET", text)
	var objects = []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	buf := []byte("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = len(buf)
		buf = append(buf, []byte(fmt.Sprintf("%d 0 obj\n%s\nendobj\n", i+1, obj))...)
	}
	xrefOffset := len(buf)
	buf = append(buf, []byte(fmt.Sprintf("xref\n0 %d\n0000000000 65535 f \n", len(objects)+1))...)
	for _, off := range offsets {
		buf = append(buf, []byte(fmt.Sprintf("%010d 00000 n \n", off))...)
	}
	buf = append(buf, []byte(fmt.Sprintf(
		"trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefOffset))...)
	return buf
}

func TestExtractText(t *testing.T) {
	client := NewClient(nil)

	text, err := client.ExtractText(minimalPDF("Patient presents with mild fever"))
	require.NoError(t, err)
	assert.Contains(t, text, "Patient presents with mild fever")
}

func TestExtractTextInvalidPDF(t *testing.T) {
	client := NewClient(nil)

	_, err := client.ExtractText([]byte("this is not a pdf"))
	require.Error(t, err)
}

func TestDefaultRasterOptions(t *testing.T) {
	opts := DefaultRasterOptions()
	assert.Equal(t, 100, opts.Density)
	assert.Equal(t, "png", opts.Format)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("N4D_PDF_PDFTOPPM_PATH", "/opt/poppler/pdftoppm")
	config := ConfigFromEnv()
	assert.Equal(t, "/opt/poppler/pdftoppm", config.PdftoppmPath)
}

func TestRasterizeFirstPage(t *testing.T) {
	client := NewClient(nil)
	if !client.IsAvailable(context.Background()) {
		t.Skip("pdftoppm not installed")
	}

	image, err := client.RasterizeFirstPage(context.Background(), minimalPDF("Hello"), DefaultRasterOptions())
	require.NoError(t, err)
	assert.NotEmpty(t, image)
	// PNG magic bytes.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, image[:4])
}

func TestRasterizeInvalidPDF(t *testing.T) {
	client := NewClient(nil)
	if !client.IsAvailable(context.Background()) {
		t.Skip("pdftoppm not installed")
	}

	_, err := client.RasterizeFirstPage(context.Background(), []byte("garbage"), DefaultRasterOptions())
	require.Error(t, err)
}
