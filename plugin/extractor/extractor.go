// Package extractor converts uploaded clinical documents into plain text
// through an ordered chain of extraction strategies. Each strategy either
// yields text, yields nothing (try the next one), or fails; a failure is
// only terminal when no fallback strategy remains.
package extractor

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"

	"github.com/n4dhq/n4d/plugin/pdf"
)

// MimeTypePDF is the only non-image MIME type the pipeline accepts.
const MimeTypePDF = "application/pdf"

// ErrUnsupportedType is returned before any extraction is attempted when the
// declared MIME type is neither PDF nor image/*.
var ErrUnsupportedType = errors.New("unsupported file type")

// Document is an uploaded file: raw bytes plus the declared MIME type.
type Document struct {
	Data     []byte
	MimeType string
}

// PDFService is the PDF collaborator consumed by the pipeline.
type PDFService interface {
	ExtractText(data []byte) (string, error)
	RasterizeFirstPage(ctx context.Context, data []byte, opts pdf.RasterOptions) ([]byte, error)
}

// Recognizer is the OCR collaborator consumed by the pipeline.
type Recognizer interface {
	ExtractText(ctx context.Context, image []byte, mimeType string) (string, error)
}

// Strategy is one extraction stage. An empty string with a nil error means
// "no result, try the next strategy".
type Strategy interface {
	Name() string
	Extract(ctx context.Context, doc *Document) (string, error)
}

// Pipeline runs the extraction strategy chain for a document.
type Pipeline struct {
	pdf PDFService
	ocr Recognizer

	// sem bounds concurrent extractions; rasterization and OCR both hold a
	// full page bitmap in memory.
	sem *semaphore.Weighted
}

// New creates a new extraction pipeline. maxConcurrent bounds the number of
// simultaneously running extractions.
func New(pdfService PDFService, recognizer Recognizer, maxConcurrent int64) *Pipeline {
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	return &Pipeline{
		pdf: pdfService,
		ocr: recognizer,
		sem: semaphore.NewWeighted(maxConcurrent),
	}
}

// Extract runs the strategy chain for doc and returns the extracted text.
// The result is trimmed and may be empty when every stage ran but nothing
// was recognized; the caller decides whether an empty result is an error.
// ErrUnsupportedType is returned without attempting any extraction.
func (p *Pipeline) Extract(ctx context.Context, doc *Document) (string, error) {
	strategies, err := p.strategiesFor(doc.MimeType)
	if err != nil {
		return "", err
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return "", errors.Wrap(err, "failed to acquire extraction slot")
	}
	defer p.sem.Release(1)

	for i, strategy := range strategies {
		text, err := strategy.Extract(ctx, doc)
		if err != nil {
			if i < len(strategies)-1 {
				slog.Warn("extraction stage failed, falling through",
					"stage", strategy.Name(), "error", err)
				continue
			}
			return "", errors.Wrapf(err, "%s extraction failed", strategy.Name())
		}
		if text != "" {
			return text, nil
		}
	}
	return "", nil
}

// strategiesFor dispatches on the declared MIME type.
func (p *Pipeline) strategiesFor(mimeType string) ([]Strategy, error) {
	switch {
	case strings.EqualFold(mimeType, MimeTypePDF):
		return []Strategy{
			&pdfTextStrategy{pdf: p.pdf},
			&pdfOCRStrategy{pdf: p.pdf, ocr: p.ocr},
		}, nil
	case strings.HasPrefix(strings.ToLower(mimeType), "image/"):
		return []Strategy{&imageOCRStrategy{ocr: p.ocr}}, nil
	default:
		return nil, ErrUnsupportedType
	}
}

// pdfTextStrategy reads the PDF's embedded text layer. Parse failures and
// text-free scans both defer to the OCR fallback.
type pdfTextStrategy struct {
	pdf PDFService
}

func (s *pdfTextStrategy) Name() string { return "pdf-text" }

func (s *pdfTextStrategy) Extract(_ context.Context, doc *Document) (string, error) {
	text, err := s.pdf.ExtractText(doc.Data)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// pdfOCRStrategy rasterizes the first page and OCRs it. There is no
// fallback after this stage, so rasterization failures are terminal.
type pdfOCRStrategy struct {
	pdf PDFService
	ocr Recognizer
}

func (s *pdfOCRStrategy) Name() string { return "pdf-ocr" }

func (s *pdfOCRStrategy) Extract(ctx context.Context, doc *Document) (string, error) {
	image, err := s.pdf.RasterizeFirstPage(ctx, doc.Data, pdf.DefaultRasterOptions())
	if err != nil {
		return "", errors.Wrap(err, "failed to extract text from PDF")
	}

	text, err := s.ocr.ExtractText(ctx, image, "image/png")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// imageOCRStrategy OCRs an uploaded image directly.
type imageOCRStrategy struct {
	ocr Recognizer
}

func (s *imageOCRStrategy) Name() string { return "image-ocr" }

func (s *imageOCRStrategy) Extract(ctx context.Context, doc *Document) (string, error) {
	text, err := s.ocr.ExtractText(ctx, doc.Data, doc.MimeType)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
