package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mlebedev/coursehub/internal/events"
	"github.com/mlebedev/coursehub/internal/hash"
	"github.com/mlebedev/coursehub/internal/models"
	"github.com/mlebedev/coursehub/internal/service/token"
)

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	DB     *gorm.DB
	Tokens *token.Service
	A      *AuthHandler
	C      *CourseHandler
}

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Course{}, &models.Enrollment{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := InitTestDB(t)
	tokens := token.NewService([]byte("test-jwt-secret"), 6*time.Hour)

	return &testEnv{
		T:      t,
		E:      echo.New(),
		DB:     db,
		Tokens: tokens,
		A: &AuthHandler{
			DB:         db,
			Tokens:     tokens,
			Producer:   &events.Producer{},
			BcryptCost: 4,
		},
		C: &CourseHandler{DB: db, Producer: &events.Producer{}},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) createUser(t *testing.T, email, password string) models.User {
	pwHash, err := hash.HashPassword(password, 4)
	require.NoError(t, err)

	user := models.User{
		FullName:     "Test User",
		Email:        email,
		PasswordHash: pwHash,
	}
	require.NoError(t, env.DB.Create(&user).Error)
	return user
}

func (env *testEnv) createCourse(t *testing.T, title string) models.Course {
	course := models.Course{
		Title:         title,
		Instructor:    "Jane Smith",
		DurationWeeks: 10,
		Description:   "test course",
	}
	require.NoError(t, env.DB.Create(&course).Error)
	return course
}

func requireHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
	return he
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	return data
}
