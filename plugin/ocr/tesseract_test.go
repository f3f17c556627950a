package ocr

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "tesseract", config.TesseractPath)
	assert.Equal(t, "", config.DataPath)
	assert.Equal(t, "eng", config.Languages)
}

func TestNewClient(t *testing.T) {
	t.Run("with nil config", func(t *testing.T) {
		client := NewClient(nil)
		assert.NotNil(t, client)
		assert.Equal(t, "eng", client.config.Languages)
	})

	t.Run("with custom config", func(t *testing.T) {
		config := &Config{
			TesseractPath: "/usr/bin/tesseract",
			Languages:     "eng+deu",
		}
		client := NewClient(config)
		assert.NotNil(t, client)
		assert.Equal(t, "eng+deu", client.config.Languages)
		assert.Equal(t, "/usr/bin/tesseract", client.config.TesseractPath)
	})
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("N4D_OCR_TESSERACT_PATH", "/opt/tesseract")
	t.Setenv("N4D_OCR_LANGUAGES", "eng+fra")

	config := ConfigFromEnv()
	assert.Equal(t, "/opt/tesseract", config.TesseractPath)
	assert.Equal(t, "eng+fra", config.Languages)
}

func TestIsSupported(t *testing.T) {
	client := NewClient(nil)

	supportedTypes := []string{
		"image/png",
		"image/jpeg",
		"IMAGE/JPG", // Case insensitive
		"image/gif",
		"image/bmp",
		"image/webp",
	}
	for _, mimeType := range supportedTypes {
		assert.True(t, client.IsSupported(mimeType), mimeType)
	}

	unsupportedTypes := []string{
		"application/pdf",
		"text/plain",
		"image/svg+xml",
		"",
	}
	for _, mimeType := range unsupportedTypes {
		assert.False(t, client.IsSupported(mimeType), mimeType)
	}
}

func TestExtractTextUnsupportedType(t *testing.T) {
	client := NewClient(nil)

	_, err := client.ExtractText(context.Background(), []byte("not an image"), "text/plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported MIME type")
}

func TestNormalize(t *testing.T) {
	t.Run("valid image becomes grayscale png", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		for x := 0; x < 4; x++ {
			for y := 0; y < 4; y++ {
				img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
			}
		}
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, img))

		out := normalize(buf.Bytes())
		decoded, err := png.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, 4, decoded.Bounds().Dx())
	})

	t.Run("garbage passes through untouched", func(t *testing.T) {
		in := []byte("definitely not an image")
		assert.Equal(t, in, normalize(in))
	})
}

func TestExtractTextWithTesseract(t *testing.T) {
	client := NewClient(nil)
	if !client.IsAvailable(context.Background()) {
		t.Skip("tesseract not installed")
	}

	// A blank page yields empty text and no error.
	img := image.NewGray(image.Rect(0, 0, 200, 100))
	for x := 0; x < 200; x++ {
		for y := 0; y < 100; y++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	text, err := client.ExtractText(context.Background(), buf.Bytes(), "image/png")
	require.NoError(t, err)
	assert.Empty(t, text)

	// Temp files are cleaned up.
	entries, err := os.ReadDir(os.TempDir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), "ocr_")
	}
}
