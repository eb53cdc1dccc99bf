package scheduler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinichq/reminder-engine/internal/model"
	"github.com/clinichq/reminder-engine/pkg/logger"
	"github.com/clinichq/reminder-engine/pkg/metrics"
	"github.com/clinichq/reminder-engine/pkg/scheduler"
)

type stubJob struct {
	name    string
	started chan struct{}
	release chan struct{}
}

func (j *stubJob) Name() string { return j.name }

func (j *stubJob) Run(ctx context.Context) (*model.SchedulerRunResult, error) {
	if j.started != nil {
		j.started <- struct{}{}
	}
	if j.release != nil {
		<-j.release
	}
	return &model.SchedulerRunResult{Total: 1, Sent: 1}, nil
}

func newTestRouter(jobs ...scheduler.Job) (*gin.Engine, *scheduler.Registry) {
	gin.SetMode(gin.TestMode)
	registry := scheduler.NewRegistry()
	for _, j := range jobs {
		registry.Register(scheduler.New(j, time.Hour, true, metrics.New("test"), logger.NewLogger(nil)))
	}

	r := gin.New()
	h := NewHandler(registry, logger.NewLogger(nil))
	h.RegisterRoutes(r.Group("/api/v1"))
	return r, registry
}

func TestListSchedulers(t *testing.T) {
	r, _ := newTestRouter(&stubJob{name: "daily_digest"}, &stubJob{name: "cosign"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/schedulers", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "daily_digest")
	assert.Contains(t, w.Body.String(), "cosign")
}

func TestGetSchedulerNotFound(t *testing.T) {
	r, _ := newTestRouter(&stubJob{name: "cosign"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/schedulers/unknown", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunNow(t *testing.T) {
	r, _ := newTestRouter(&stubJob{name: "cosign"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/schedulers/cosign/run", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sent":1`)
}

func TestRunNowConflict(t *testing.T) {
	job := &stubJob{
		name:    "cosign",
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	r, registry := newTestRouter(job)

	s, err := registry.Get("cosign")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.RunNow(context.Background())
	}()
	<-job.started

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/schedulers/cosign/run", nil))
	assert.Equal(t, http.StatusConflict, w.Code)

	close(job.release)
	<-done
}

func TestStartStop(t *testing.T) {
	r, registry := newTestRouter(&stubJob{name: "cosign"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/schedulers/cosign/start", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	s, err := registry.Get("cosign")
	require.NoError(t, err)
	assert.True(t, s.Status().Running)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/schedulers/cosign/stop", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, s.Status().Running)
}
