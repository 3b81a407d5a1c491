package ratings_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratehub/ratehub/internal/auth"
	"github.com/ratehub/ratehub/internal/ratings"
	_ "github.com/ratehub/ratehub/testing"
)

func newRatingsRouter(t *testing.T) (chi.Router, *auth.TokenCodec) {
	t.Helper()
	codec := auth.NewTokenCodec("test-secret", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service, _, _ := newService()
	handler := ratings.NewHandler(logger, service, auth.Middleware{Codec: codec})
	r := chi.NewRouter()
	r.Route("/api/ratings", handler.MountRoutes)
	return r, codec
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestRatingLifecycleOwnership(t *testing.T) {
	router, codec := newRatingsRouter(t)

	ownerToken, err := codec.Issue(1, "owner@example.com", auth.RoleUser)
	require.NoError(t, err)
	strangerToken, err := codec.Issue(2, "stranger@example.com", auth.RoleUser)
	require.NoError(t, err)
	adminToken, err := codec.Issue(3, "admin@example.com", auth.RoleAdmin)
	require.NoError(t, err)

	// Unauthenticated creation is rejected.
	res := doJSON(t, router, http.MethodPost, "/api/ratings", "", map[string]any{"storeId": 1, "score": 5})
	require.Equal(t, http.StatusUnauthorized, res.Code)

	// Principal 1 creates a rating.
	res = doJSON(t, router, http.MethodPost, "/api/ratings", ownerToken, map[string]any{"storeId": 1, "score": 5})
	require.Equal(t, http.StatusCreated, res.Code)

	var created ratings.Rating
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.UserID)

	// A different plain user may not update it.
	res = doJSON(t, router, http.MethodPut, "/api/ratings/1", strangerToken, map[string]any{"score": 1})
	assert.Equal(t, http.StatusForbidden, res.Code)

	// The owner may.
	res = doJSON(t, router, http.MethodPut, "/api/ratings/1", ownerToken, map[string]any{"score": 4})
	require.Equal(t, http.StatusOK, res.Code)

	// So may an admin.
	res = doJSON(t, router, http.MethodDelete, "/api/ratings/1", adminToken, nil)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestListEmptySerializesAsArray(t *testing.T) {
	router, _ := newRatingsRouter(t)

	res := doJSON(t, router, http.MethodGet, "/api/ratings", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"ratings":[]`)
}

func TestRatingReadsArePublic(t *testing.T) {
	router, codec := newRatingsRouter(t)

	token, err := codec.Issue(1, "owner@example.com", auth.RoleUser)
	require.NoError(t, err)
	res := doJSON(t, router, http.MethodPost, "/api/ratings", token, map[string]any{"storeId": 2, "score": 3})
	require.Equal(t, http.StatusCreated, res.Code)

	res = doJSON(t, router, http.MethodGet, "/api/ratings", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)

	res = doJSON(t, router, http.MethodGet, "/api/ratings/1", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRatingScoreValidation(t *testing.T) {
	router, codec := newRatingsRouter(t)

	token, err := codec.Issue(1, "owner@example.com", auth.RoleUser)
	require.NoError(t, err)

	res := doJSON(t, router, http.MethodPost, "/api/ratings", token, map[string]any{"storeId": 1, "score": 6})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = doJSON(t, router, http.MethodPost, "/api/ratings", token, map[string]any{"score": 3})
	assert.Equal(t, http.StatusBadRequest, res.Code)
}
