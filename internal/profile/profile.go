package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/n4dhq/n4d/internal/version"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where n4d stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// FrontendOrigin is the origin allowed by CORS (the web UI)
	FrontendOrigin string

	// Auth configuration
	JWTSecret         string // N4D_JWT_SECRET
	LoginEmail        string // N4D_LOGIN_EMAIL
	LoginPasswordHash string // N4D_LOGIN_PASSWORD_HASH (bcrypt)

	// Note formatting configuration
	LLMAPIKey  string // N4D_LLM_API_KEY (Perplexity or any OpenAI-compatible key)
	LLMBaseURL string // N4D_LLM_BASE_URL (default: https://api.perplexity.ai)
	LLMModel   string // N4D_LLM_MODEL (default: sonar)

	// Extraction configuration
	TesseractPath string // N4D_OCR_TESSERACT_PATH (default: tesseract)
	TessdataPath  string // N4D_OCR_TESSDATA_PATH (default: "")
	OCRLanguages  string // N4D_OCR_LANGUAGES (default: eng)
	PdftoppmPath  string // N4D_PDF_PDFTOPPM_PATH (default: pdftoppm)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsFormatterEnabled returns true if an LLM credential is configured.
// Without a key the upload pipeline stores raw extracted text.
func (p *Profile) IsFormatterEnabled() bool {
	return p.LLMAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from N4D_* environment variables.
// Explicit environment variables win over values already set on the profile.
func (p *Profile) FromEnv() {
	if v := os.Getenv("N4D_MODE"); v != "" {
		p.Mode = v
	}
	if v := os.Getenv("N4D_ADDR"); v != "" {
		p.Addr = v
	}
	if v := os.Getenv("N4D_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			p.Port = port
		}
	}
	if v := os.Getenv("N4D_DATA"); v != "" {
		p.Data = v
	}
	if v := os.Getenv("N4D_DRIVER"); v != "" {
		p.Driver = v
	}
	if v := os.Getenv("N4D_DSN"); v != "" {
		p.DSN = v
	}
	if v := os.Getenv("N4D_FRONTEND_ORIGIN"); v != "" {
		p.FrontendOrigin = v
	}

	p.JWTSecret = getEnvOrDefault("N4D_JWT_SECRET", p.JWTSecret)
	p.LoginEmail = getEnvOrDefault("N4D_LOGIN_EMAIL", p.LoginEmail)
	p.LoginPasswordHash = getEnvOrDefault("N4D_LOGIN_PASSWORD_HASH", p.LoginPasswordHash)

	p.LLMAPIKey = getEnvOrDefault("N4D_LLM_API_KEY", p.LLMAPIKey)
	p.LLMBaseURL = getEnvOrDefault("N4D_LLM_BASE_URL", "https://api.perplexity.ai")
	p.LLMModel = getEnvOrDefault("N4D_LLM_MODEL", "sonar")

	p.TesseractPath = getEnvOrDefault("N4D_OCR_TESSERACT_PATH", "tesseract")
	p.TessdataPath = getEnvOrDefault("N4D_OCR_TESSDATA_PATH", "")
	p.OCRLanguages = getEnvOrDefault("N4D_OCR_LANGUAGES", "eng")
	p.PdftoppmPath = getEnvOrDefault("N4D_PDF_PDFTOPPM_PATH", "pdftoppm")
}

// Validate checks the profile and fills derived defaults.
func (p *Profile) Validate() error {
	if p.Mode != "prod" && p.Mode != "dev" {
		p.Mode = "dev"
	}
	if p.Port == 0 {
		p.Port = 8088
	}
	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported db driver: %s", p.Driver)
	}
	if p.JWTSecret == "" {
		return errors.New("N4D_JWT_SECRET is required")
	}

	if p.Data == "" {
		p.Data = "."
	}
	absData, err := filepath.Abs(p.Data)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve data directory %s", p.Data)
	}
	if fi, err := os.Stat(absData); err != nil || !fi.IsDir() {
		return errors.Errorf("data directory %s does not exist", absData)
	}
	p.Data = absData

	// SQLite keeps its database file inside the data directory unless a DSN
	// is given explicitly.
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("n4d_%s.db", p.Mode)
		p.DSN = filepath.Join(p.Data, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for postgres driver")
	}

	p.Version = version.GetCurrentVersion(p.Mode)
	return nil
}

func (p *Profile) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "mode=%s addr=%s port=%d driver=%s data=%s", p.Mode, p.Addr, p.Port, p.Driver, p.Data)
	return sb.String()
}
