package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/mlebedev/coursehub/internal/service/token"
)

func newGuardedEcho(tokens *token.Service) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		id, ok := UserID(c)
		if !ok {
			return echo.NewHTTPError(http.StatusInternalServerError, "no identity")
		}
		return c.JSON(http.StatusOK, echo.Map{"userID": id.String()})
	}, RequireLogin(tokens))
	return e
}

func TestRequireLogin(t *testing.T) {
	tokens := token.NewService([]byte("test-secret"), 6*time.Hour)
	e := newGuardedEcho(tokens)

	userID := uuid.New()
	raw, _, err := tokens.Issue(userID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+raw)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), userID.String())
}

func TestRequireLoginRejects(t *testing.T) {
	tokens := token.NewService([]byte("test-secret"), 6*time.Hour)
	e := newGuardedEcho(tokens)

	expired := token.NewService([]byte("test-secret"), -time.Hour)
	expiredToken, _, err := expired.Issue(uuid.New())
	require.NoError(t, err)

	foreign := token.NewService([]byte("other-secret"), 6*time.Hour)
	foreignToken, _, err := foreign.Issue(uuid.New())
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer scheme", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + expiredToken},
		{"wrong signature", "Bearer " + foreignToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
