// Package v1 implements the REST API consumed by the web UI.
package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/n4dhq/n4d/internal/profile"
	"github.com/n4dhq/n4d/plugin/extractor"
	"github.com/n4dhq/n4d/plugin/llm"
	"github.com/n4dhq/n4d/plugin/ocr"
	"github.com/n4dhq/n4d/plugin/pdf"
	"github.com/n4dhq/n4d/server/auth"
	nmw "github.com/n4dhq/n4d/server/middleware"
	"github.com/n4dhq/n4d/store"
)

// APIV1Service holds the handlers and their collaborators.
type APIV1Service struct {
	Profile   *profile.Profile
	Store     *store.Store
	Extractor *extractor.Pipeline
	// Formatter is nil when no LLM credential is configured; uploads then
	// store raw extracted text.
	Formatter *llm.Formatter

	loginLimiter *nmw.RateLimiter
}

// NewAPIV1Service creates the API service and its extraction collaborators.
func NewAPIV1Service(profile *profile.Profile, store *store.Store) *APIV1Service {
	ocrClient := ocr.NewClient(&ocr.Config{
		TesseractPath: profile.TesseractPath,
		DataPath:      profile.TessdataPath,
		Languages:     profile.OCRLanguages,
	})
	pdfClient := pdf.NewClient(&pdf.Config{
		PdftoppmPath: profile.PdftoppmPath,
	})

	service := &APIV1Service{
		Profile:   profile,
		Store:     store,
		Extractor: extractor.New(pdfClient, ocrClient, 2),
		// A handful of login attempts per minute per client is plenty for a
		// single-credential admin UI.
		loginLimiter: nmw.NewRateLimiter(rate.Limit(5.0/60.0), 5),
	}

	if profile.IsFormatterEnabled() {
		formatter, err := llm.NewFormatter(&llm.Config{
			APIKey:  profile.LLMAPIKey,
			BaseURL: profile.LLMBaseURL,
			Model:   profile.LLMModel,
		})
		if err != nil {
			slog.Warn("failed to initialize note formatter, uploads will store raw text", "error", err)
		} else {
			service.Formatter = formatter
		}
	}

	return service
}

// Register mounts all API routes on the given Echo instance.
func (s *APIV1Service) Register(e *echo.Echo) {
	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", s.Login)
	authGroup.POST("/logout", s.Logout)

	notes := api.Group("/notes", s.authMiddleware)
	notes.GET("", s.SearchNotes)
	notes.POST("", s.CreateNote)
	notes.POST("/upload", s.UploadNote)
	notes.GET("/:patientId", s.ListNotesByPatient)
	notes.PUT("/:id", s.UpdateNote)
	notes.DELETE("/:id", s.DeleteNote)

	patients := api.Group("/patients", s.authMiddleware)
	patients.GET("", s.ListPatients)
	patients.GET("/paginated", s.SearchPatients)
	patients.POST("", s.CreatePatient)
	patients.GET("/:id", s.GetPatient)
	patients.PUT("/:id", s.UpdatePatient)
	patients.DELETE("/:id", s.DeletePatient)
}

// authMiddleware requires a valid session token, from the login cookie or an
// Authorization bearer header.
func (s *APIV1Service) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := ""
		if cookie, err := c.Cookie(auth.CookieName); err == nil {
			token = cookie.Value
		}
		if token == "" {
			header := c.Request().Header.Get("Authorization")
			if len(header) > 7 && header[:7] == "Bearer " {
				token = header[7:]
			}
		}
		if token == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized: No token provided"})
		}

		claims, err := auth.ValidateToken(token, s.Profile.JWTSecret)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized: Invalid token"})
		}
		c.Set("userEmail", claims.Email)
		return next(c)
	}
}
