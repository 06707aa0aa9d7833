package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyflow/internal/action"
)

func TestStepMetrics_ObserveStep(t *testing.T) {
	t.Parallel()
	m := New(prometheus.NewRegistry())

	m.ObserveStep("ASSIGN_STORY", action.StatusSuccess, 10*time.Millisecond)
	m.ObserveStep("ASSIGN_STORY", action.StatusSuccess, 20*time.Millisecond)
	m.ObserveStep("SEND_PULL_REQUEST_EVENT", action.StatusWaiting, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.stepsTotal.WithLabelValues("ASSIGN_STORY", "SUCCESS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stepsTotal.WithLabelValues("SEND_PULL_REQUEST_EVENT", "WAITING")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.stepsTotal))
	assert.Equal(t, 2, testutil.CollectAndCount(m.stepDuration))
}

func TestStepMetrics_ObserveStep_EmptyName(t *testing.T) {
	t.Parallel()
	m := New(prometheus.NewRegistry())

	m.ObserveStep("", action.StatusError, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.stepsTotal.WithLabelValues("unknown", "ERROR")))
}

func TestStepMetrics_AsExecutorObserver(t *testing.T) {
	t.Parallel()
	m := New(prometheus.NewRegistry())
	registry, err := action.NewRegistry[*int](
		action.NewFunc("ONLY", func(_ context.Context, n *int) (action.Result[*int], error) {
			return action.Success[*int](), nil
		}),
	)
	require.NoError(t, err)
	exec := action.NewExecutor(registry, action.MustChain("ONLY", "MISSING"), action.WithObserver(m))

	n := 1
	_, err = exec.Execute(t.Context(), "ONLY", &n)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.stepsTotal.WithLabelValues("ONLY", "SUCCESS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stepsTotal.WithLabelValues("MISSING", "ERROR")))
}

func TestStepMetrics_Handler(t *testing.T) {
	t.Parallel()
	m := New(nil)
	m.ObserveStep("ASSIGN_STORY", action.StatusSuccess, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, `storyflow_action_steps_total{action="ASSIGN_STORY",status="SUCCESS"} 1`))
	assert.Contains(t, text, "storyflow_action_duration_seconds_bucket")
	assert.Contains(t, text, "go_goroutines")
}
