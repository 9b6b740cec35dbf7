package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/forkwell/recipe-api/internal/api"
	"github.com/forkwell/recipe-api/internal/router"
	"github.com/forkwell/recipe-api/internal/service"
	"github.com/forkwell/recipe-api/internal/testdb"
)

// stubImageService stands in for S3 in handler tests. It still rejects
// payloads that do not sniff as images, mirroring the real service.
type stubImageService struct {
	uploaded [][]byte
}

func (s *stubImageService) UploadRecipeImage(_ context.Context, data []byte) (string, error) {
	contentType := http.DetectContentType(data)
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
	default:
		return "", service.ErrInvalidImage
	}
	s.uploaded = append(s.uploaded, data)
	return "https://test-bucket.s3.amazonaws.com/recipe-images/stub.png", nil
}

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	auth   *service.AuthService
	images *stubImageService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testdb.Open(t)
	auth := service.NewAuthService(db, "test-secret")
	images := &stubImageService{}

	engine := router.New(router.Handlers{
		Users:       api.NewUserHandler(auth),
		Recipes:     api.NewRecipeHandler(service.NewRecipeService(db), images),
		Tags:        api.NewAttributeHandler(service.NewTagService(db)),
		Ingredients: api.NewAttributeHandler(service.NewIngredientService(db)),
		Validator:   auth,
	})

	return &testEnv{db: db, router: engine, auth: auth, images: images}
}

// signup registers a user through the API and returns a bearer token.
func (e *testEnv) signup(t *testing.T, email, password string) string {
	t.Helper()

	w := e.request(t, "POST", "/api/v1/user/create", "", gin.H{
		"email":    email,
		"password": password,
		"name":     "Test User",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.request(t, "POST", "/api/v1/user/token", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// request performs a JSON request, attaching the token when given.
func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
