// Package ocr provides OCR (Optical Character Recognition) functionality using Tesseract.
// This is used to extract text from scanned clinical documents.
package ocr

import (
	"bytes"
	"context"
	"image/png"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Supported image MIME types for OCR
var SupportedMimeTypes = []string{
	"image/png",
	"image/jpeg",
	"image/jpg",
	"image/gif",
	"image/bmp",
	"image/webp",
	"image/tiff",
}

// Config holds the OCR configuration
type Config struct {
	// TesseractPath is the path to the tesseract executable
	TesseractPath string
	// DataPath is the path to the tessdata directory (optional)
	DataPath string
	// Languages are the languages to use for OCR (e.g., "eng")
	Languages string
}

// DefaultConfig returns the default OCR configuration
func DefaultConfig() *Config {
	return &Config{
		TesseractPath: "tesseract",
		DataPath:      "",
		Languages:     "eng",
	}
}

// ConfigFromEnv creates OCR config from environment variables
func ConfigFromEnv() *Config {
	config := DefaultConfig()

	if path := os.Getenv("N4D_OCR_TESSERACT_PATH"); path != "" {
		config.TesseractPath = path
	}
	if path := os.Getenv("N4D_OCR_TESSDATA_PATH"); path != "" {
		config.DataPath = path
	}
	if langs := os.Getenv("N4D_OCR_LANGUAGES"); langs != "" {
		config.Languages = langs
	}

	return config
}

// Client provides OCR functionality
type Client struct {
	config *Config
}

// NewClient creates a new OCR client
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	return &Client{config: config}
}

// ExtractText extracts text from an image using Tesseract OCR. The result is
// trimmed and may legitimately be empty when the image has no recognizable
// text; an empty result with a nil error is not a failure.
func (c *Client) ExtractText(ctx context.Context, image []byte, mimeType string) (string, error) {
	if !c.isSupported(mimeType) {
		return "", errors.Errorf("unsupported MIME type: %s", mimeType)
	}

	// Create a temporary file for the image
	tmpFile, err := os.CreateTemp("", "ocr_*.png")
	if err != nil {
		return "", errors.Wrap(err, "failed to create temp file")
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)
	tmpFile.Close()

	// Write image data to temp file
	if err := os.WriteFile(tmpPath, normalize(image), 0644); err != nil {
		return "", errors.Wrap(err, "failed to write temp file")
	}

	// Create output file path (without extension)
	outPath := strings.TrimSuffix(tmpPath, filepath.Ext(tmpPath))

	// Build tesseract command
	args := []string{tmpPath, outPath}
	if c.config.Languages != "" {
		args = append(args, "-l", c.config.Languages)
	}
	if c.config.DataPath != "" {
		args = append(args, "--tessdata-dir", c.config.DataPath)
	}

	cmd := exec.CommandContext(ctx, c.config.TesseractPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		slog.Warn("tesseract command failed", "error", err, "stderr", stderr.String())
		return "", errors.Wrap(err, "tesseract command failed")
	}

	// Read the output text file
	txtPath := outPath + ".txt"
	defer os.Remove(txtPath)

	text, err := os.ReadFile(txtPath)
	if err != nil {
		return "", errors.Wrap(err, "failed to read OCR output")
	}

	return strings.TrimSpace(string(text)), nil
}

// normalize re-encodes the image as grayscale PNG. Scanned documents arrive
// in whatever format the clinic's scanner produced; tesseract does best on a
// clean grayscale raster. Undecodable input is passed through untouched and
// left for tesseract to reject.
func normalize(image []byte) []byte {
	decoded, err := imaging.Decode(bytes.NewReader(image), imaging.AutoOrientation(true))
	if err != nil {
		return image
	}
	gray := imaging.Grayscale(decoded)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return image
	}
	return buf.Bytes()
}

// IsAvailable checks if Tesseract is available
func (c *Client) IsAvailable(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, c.config.TesseractPath, "--version")
	return cmd.Run() == nil
}

// GetVersion returns the Tesseract version
func (c *Client) GetVersion(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, c.config.TesseractPath, "--version")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", errors.Wrap(err, "failed to get tesseract version")
	}
	return strings.TrimSpace(stdout.String()), nil
}

// IsSupported checks if a MIME type is supported for OCR
func (c *Client) IsSupported(mimeType string) bool {
	return c.isSupported(mimeType)
}

func (c *Client) isSupported(mimeType string) bool {
	for _, supported := range SupportedMimeTypes {
		if strings.EqualFold(mimeType, supported) {
			return true
		}
	}
	return false
}
