package extractor

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n4dhq/n4d/plugin/pdf"
)

type fakePDF struct {
	text      string
	textErr   error
	raster    []byte
	rasterErr error

	rasterCalls int
}

func (f *fakePDF) ExtractText([]byte) (string, error) {
	return f.text, f.textErr
}

func (f *fakePDF) RasterizeFirstPage(context.Context, []byte, pdf.RasterOptions) ([]byte, error) {
	f.rasterCalls++
	return f.raster, f.rasterErr
}

type fakeOCR struct {
	text string
	err  error

	calls     int
	lastMime  string
	lastImage []byte
}

func (f *fakeOCR) ExtractText(_ context.Context, image []byte, mimeType string) (string, error) {
	f.calls++
	f.lastMime = mimeType
	f.lastImage = image
	return f.text, f.err
}

func TestExtractPDFWithTextLayer(t *testing.T) {
	pdfSvc := &fakePDF{text: "embedded clinical text"}
	ocrSvc := &fakeOCR{text: "should not be used"}
	p := New(pdfSvc, ocrSvc, 1)

	text, err := p.Extract(context.Background(), &Document{Data: []byte("%PDF"), MimeType: "application/pdf"})
	require.NoError(t, err)
	assert.Equal(t, "embedded clinical text", text)

	// OCR is never invoked when the text layer suffices.
	assert.Zero(t, ocrSvc.calls)
	assert.Zero(t, pdfSvc.rasterCalls)
}

func TestExtractPDFFallsThroughToOCR(t *testing.T) {
	t.Run("empty text layer", func(t *testing.T) {
		pdfSvc := &fakePDF{text: "   \n ", raster: []byte("png-bytes")}
		ocrSvc := &fakeOCR{text: "ocr result"}
		p := New(pdfSvc, ocrSvc, 1)

		text, err := p.Extract(context.Background(), &Document{MimeType: "application/pdf"})
		require.NoError(t, err)
		assert.Equal(t, "ocr result", text)
		assert.Equal(t, 1, pdfSvc.rasterCalls)
		assert.Equal(t, "image/png", ocrSvc.lastMime)
		assert.Equal(t, []byte("png-bytes"), ocrSvc.lastImage)
	})

	t.Run("parse error is absorbed", func(t *testing.T) {
		pdfSvc := &fakePDF{textErr: errors.New("broken xref"), raster: []byte("png-bytes")}
		ocrSvc := &fakeOCR{text: "ocr result"}
		p := New(pdfSvc, ocrSvc, 1)

		text, err := p.Extract(context.Background(), &Document{MimeType: "application/pdf"})
		require.NoError(t, err)
		assert.Equal(t, "ocr result", text)
	})
}

func TestExtractPDFRasterizationFailureIsTerminal(t *testing.T) {
	pdfSvc := &fakePDF{text: "", rasterErr: errors.New("empty image buffer")}
	ocrSvc := &fakeOCR{}
	p := New(pdfSvc, ocrSvc, 1)

	_, err := p.Extract(context.Background(), &Document{MimeType: "application/pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to extract text from PDF")
	assert.Zero(t, ocrSvc.calls)
}

func TestExtractImage(t *testing.T) {
	ocrSvc := &fakeOCR{text: "handwritten note"}
	p := New(&fakePDF{}, ocrSvc, 1)

	text, err := p.Extract(context.Background(), &Document{Data: []byte("jpg"), MimeType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, "handwritten note", text)
	assert.Equal(t, "image/jpeg", ocrSvc.lastMime)
}

func TestExtractImageOCRErrorPropagates(t *testing.T) {
	ocrSvc := &fakeOCR{err: errors.New("tesseract exploded")}
	p := New(&fakePDF{}, ocrSvc, 1)

	_, err := p.Extract(context.Background(), &Document{MimeType: "image/png"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image-ocr extraction failed")
}

func TestExtractEmptyResultIsNotAnError(t *testing.T) {
	// A genuinely blank page: every stage runs, nothing is recognized.
	pdfSvc := &fakePDF{text: "", raster: []byte("png")}
	ocrSvc := &fakeOCR{text: ""}
	p := New(pdfSvc, ocrSvc, 1)

	text, err := p.Extract(context.Background(), &Document{MimeType: "application/pdf"})
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractUnsupportedType(t *testing.T) {
	ocrSvc := &fakeOCR{}
	p := New(&fakePDF{}, ocrSvc, 1)

	for _, mimeType := range []string{"text/plain", "application/msword", ""} {
		_, err := p.Extract(context.Background(), &Document{MimeType: mimeType})
		assert.ErrorIs(t, err, ErrUnsupportedType, mimeType)
	}
	// Rejected before any extraction was attempted.
	assert.Zero(t, ocrSvc.calls)
}

func TestExtractMimeTypeCaseInsensitive(t *testing.T) {
	ocrSvc := &fakeOCR{text: "x"}
	p := New(&fakePDF{text: "doc"}, ocrSvc, 1)

	text, err := p.Extract(context.Background(), &Document{MimeType: "Application/PDF"})
	require.NoError(t, err)
	assert.Equal(t, "doc", text)

	_, err = p.Extract(context.Background(), &Document{MimeType: "IMAGE/PNG"})
	require.NoError(t, err)
}
