package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/jobtrail-dev/jobtrail/db"
	"github.com/jobtrail-dev/jobtrail/internal/auth"
	"github.com/jobtrail-dev/jobtrail/internal/handlers"
	"github.com/jobtrail-dev/jobtrail/internal/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupServer(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, auth.InitJWTSecret())

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	db.DB = gdb

	require.NoError(t, db.MigrateDatabase())
	require.NoError(t, db.SeedDefinitions())

	handlers.SetDashboardCache(nil)

	return router.NewRouter()
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func registerUser(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	token, ok := body["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func createPlatform(t *testing.T, r *gin.Engine, token, name string) uint {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/platforms", token, gin.H{
		"name": name,
		"url":  "https://" + name + ".example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	return uint(body["id"].(float64))
}

func TestRegisterAndLogin(t *testing.T) {
	r := setupServer(t)

	token := registerUser(t, r, "alice")

	// Same username or email again conflicts.
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])
}

func TestAuthRequired(t *testing.T) {
	r := setupServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/applications", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApplicationLifecycle(t *testing.T) {
	r := setupServer(t)
	token := registerUser(t, r, "alice")
	platformID := createPlatform(t, r, token, "linkedin")

	w := doJSON(t, r, http.MethodPost, "/api/applications", token, gin.H{
		"company":          "Acme",
		"role":             "Engineer",
		"application_date": "2025-01-01",
		"platform_id":      platformID,
		"mode":             "active",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	applicationID := int(body["application_id"].(float64))

	w = doJSON(t, r, http.MethodPost, "/api/applications/"+strconv.Itoa(applicationID)+"/steps", token, gin.H{
		"step_id":   3,
		"step_date": "2025-01-05",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/applications/"+strconv.Itoa(applicationID)+"/finalize", token, gin.H{
		"final_step_id": 6,
		"feedback_id":   2,
		"finalize_date": "2025-01-10",
		"salary_offer":  95000,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/applications", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var applications []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &applications))
	require.Len(t, applications, 1)

	assert.Equal(t, "Acme", applications[0]["company"])
	assert.Equal(t, float64(6), applications[0]["last_step"])
	assert.Equal(t, float64(95000), applications[0]["salary_offer"])
	assert.Len(t, applications[0]["steps"], 3)

	w = doJSON(t, r, http.MethodDelete, "/api/applications/"+strconv.Itoa(applicationID), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/applications/"+strconv.Itoa(applicationID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateApplicationErrors(t *testing.T) {
	r := setupServer(t)
	token := registerUser(t, r, "alice")

	// Missing required fields.
	w := doJSON(t, r, http.MethodPost, "/api/applications", token, gin.H{
		"company": "Acme",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown platform surfaces as a referential conflict.
	w = doJSON(t, r, http.MethodPost, "/api/applications", token, gin.H{
		"company":          "Acme",
		"role":             "Engineer",
		"application_date": "2025-01-01",
		"platform_id":      999,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOwnershipIsEnforcedOverHTTP(t *testing.T) {
	r := setupServer(t)
	aliceToken := registerUser(t, r, "alice")
	bobToken := registerUser(t, r, "bob")
	platformID := createPlatform(t, r, aliceToken, "linkedin")

	w := doJSON(t, r, http.MethodPost, "/api/applications", aliceToken, gin.H{
		"company":          "Acme",
		"role":             "Engineer",
		"application_date": "2025-01-01",
		"platform_id":      platformID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	applicationID := int(body["application_id"].(float64))

	w = doJSON(t, r, http.MethodPost, "/api/applications/"+strconv.Itoa(applicationID)+"/steps", bobToken, gin.H{
		"step_id":   3,
		"step_date": "2025-01-05",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/applications/"+strconv.Itoa(applicationID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardEndpoint(t *testing.T) {
	r := setupServer(t)
	token := registerUser(t, r, "alice")
	platformID := createPlatform(t, r, token, "linkedin")

	w := doJSON(t, r, http.MethodPost, "/api/applications", token, gin.H{
		"company":          "Acme",
		"role":             "Engineer",
		"application_date": "2025-01-01",
		"platform_id":      platformID,
		"mode":             "active",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["total_applications"])
	assert.Equal(t, float64(0), body["total_offers"])

	funnel := body["conversion_data"].([]interface{})
	assert.Len(t, funnel, 7)
}
