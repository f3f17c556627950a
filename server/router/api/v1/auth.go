package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/n4dhq/n4d/server/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks the configured credential and sets the session cookie.
// POST /api/auth/login
func (s *APIV1Service) Login(c echo.Context) error {
	if !s.loginLimiter.Allow(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "Too many login attempts"})
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if s.Profile.LoginEmail == "" || s.Profile.LoginPasswordHash == "" {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Login is not configured"})
	}
	if req.Email != s.Profile.LoginEmail ||
		bcrypt.CompareHashAndPassword([]byte(s.Profile.LoginPasswordHash), []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
	}

	token, err := auth.GenerateToken("user-1", req.Email, s.Profile.JWTSecret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to issue token"})
	}

	c.SetCookie(s.sessionCookie(token, time.Now().Add(auth.AccessTokenDuration)))
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged in successfully", "token": token})
}

// Logout expires the session cookie.
// POST /api/auth/logout
func (s *APIV1Service) Logout(c echo.Context) error {
	c.SetCookie(s.sessionCookie("", time.Unix(0, 0)))
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (s *APIV1Service) sessionCookie(token string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	// The UI is served from a different origin in production, which requires
	// SameSite=None and a secure cookie.
	if !s.Profile.IsDev() {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}
