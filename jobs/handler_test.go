package jobs

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHealthRouter(inspector *asynq.Inspector) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.Route("/api/jobs", NewHandler(inspector, logger).MountRoutes)
	return r
}

func TestHealthWithoutInspector(t *testing.T) {
	router := newHealthRouter(nil)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/jobs/health", nil))

	require.Equal(t, http.StatusOK, res.Code)
	var health queueHealth
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &health))
	assert.Equal(t, QueueDefault, health.Queue)
	assert.Zero(t, health.Pending)
}

func TestHealthQueueUnreachable(t *testing.T) {
	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = inspector.Close() })
	router := newHealthRouter(inspector)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/api/jobs/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
}
