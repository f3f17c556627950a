// Package pdf provides text extraction and page rasterization for uploaded
// PDF documents. Structural extraction reads the text layer directly;
// rasterization renders a page to an image so it can be OCRed when no text
// layer exists.
package pdf

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
)

// RasterOptions controls how a PDF page is rendered to an image.
type RasterOptions struct {
	// Density is the render resolution in DPI.
	Density int
	// Format is the output image format, "png" or "jpeg".
	Format string
}

// DefaultRasterOptions returns the rasterization settings used for scanned
// clinical documents. 100 DPI is enough for tesseract on typical scans.
func DefaultRasterOptions() RasterOptions {
	return RasterOptions{
		Density: 100,
		Format:  "png",
	}
}

// Config holds the PDF tooling configuration.
type Config struct {
	// PdftoppmPath is the path to the poppler pdftoppm executable.
	PdftoppmPath string
}

// DefaultConfig returns the default PDF configuration.
func DefaultConfig() *Config {
	return &Config{PdftoppmPath: "pdftoppm"}
}

// ConfigFromEnv creates PDF config from environment variables.
func ConfigFromEnv() *Config {
	config := DefaultConfig()
	if path := os.Getenv("N4D_PDF_PDFTOPPM_PATH"); path != "" {
		config.PdftoppmPath = path
	}
	return config
}

// Client provides PDF text extraction and rasterization.
type Client struct {
	config *Config
}

// NewClient creates a new PDF client.
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	return &Client{config: config}
}

// ExtractText extracts the embedded text layer of a PDF. The result is
// trimmed; a scanned PDF with no text layer yields an empty string.
func (c *Client) ExtractText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(err, "failed to parse pdf")
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", errors.Wrap(err, "failed to read pdf text layer")
	}
	text, err := io.ReadAll(plain)
	if err != nil {
		return "", errors.Wrap(err, "failed to read pdf text layer")
	}

	return strings.TrimSpace(string(text)), nil
}

// RasterizeFirstPage renders the first page of a PDF to an image using
// pdftoppm. The returned buffer is guaranteed non-empty.
func (c *Client) RasterizeFirstPage(ctx context.Context, data []byte, opts RasterOptions) ([]byte, error) {
	if opts.Density <= 0 {
		opts.Density = 100
	}
	if opts.Format == "" {
		opts.Format = "png"
	}

	tmpFile, err := os.CreateTemp("", "raster_*.pdf")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp file")
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return nil, errors.Wrap(err, "failed to write temp file")
	}
	tmpFile.Close()

	outPrefix := strings.TrimSuffix(tmpPath, ".pdf")
	args := []string{
		"-" + opts.Format,
		"-r", strconv.Itoa(opts.Density),
		"-f", "1", "-l", "1",
		"-singlefile",
		tmpPath,
		outPrefix,
	}

	cmd := exec.CommandContext(ctx, c.config.PdftoppmPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		slog.Warn("pdftoppm command failed", "error", err, "stderr", stderr.String())
		return nil, errors.Wrap(err, "pdftoppm command failed")
	}

	outPath := outPrefix + "." + opts.Format
	defer os.Remove(outPath)

	image, err := os.ReadFile(outPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read rasterized page")
	}
	if len(image) == 0 {
		return nil, errors.New("rasterization produced an empty image")
	}

	return image, nil
}

// IsAvailable checks if pdftoppm is available.
func (c *Client) IsAvailable(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, c.config.PdftoppmPath, "-v")
	return cmd.Run() == nil
}
