package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetTracker clears the process-wide component registry between tests,
// since RegisterComponent feeds a package global.
func resetTracker() {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	tracker.components = make(map[string]componentState)
	tracker.started = time.Now()
}

func TestHealthIsHealthyWhileAllComponentsAre(t *testing.T) {
	resetTracker()
	RegisterComponent("orchestrator", true, "")
	RegisterComponent("queue-fabric", true, "")

	report, ok := Health()
	assert.True(t, ok)
	assert.Equal(t, "healthy", report.Status)
	assert.Equal(t, "healthy", report.Components["orchestrator"])
}

func TestHealthFlipsUnhealthyOnAnyBadComponent(t *testing.T) {
	resetTracker()
	RegisterComponent("orchestrator", true, "")
	RegisterComponent("queue-fabric", false, "agent thread died")

	report, ok := Health()
	assert.False(t, ok)
	assert.Equal(t, "unhealthy", report.Status)
	assert.Equal(t, "unhealthy: agent thread died", report.Components["queue-fabric"])
}

func TestReadinessWaitsForUnregisteredGates(t *testing.T) {
	resetTracker()

	report, ok := Readiness()
	assert.False(t, ok, "nothing registered yet, process is booting")
	assert.Equal(t, "not_ready", report.Status)
	assert.Contains(t, report.Reason, "waiting for")

	RegisterComponent("orchestrator", true, "")
	RegisterComponent("queue-fabric", true, "")

	report, ok = Readiness()
	assert.True(t, ok)
	assert.Equal(t, "ready", report.Status)
	assert.Empty(t, report.Reason)
}

func TestRegisterComponentUpdatesInPlace(t *testing.T) {
	resetTracker()
	RegisterComponent("orchestrator", true, "")
	RegisterComponent("orchestrator", false, "stopping")

	report, ok := Health()
	assert.False(t, ok)
	assert.Equal(t, "unhealthy: stopping", report.Components["orchestrator"])
}

func TestHealthHandlerStatusCodes(t *testing.T) {
	resetTracker()
	RegisterComponent("orchestrator", true, "")

	rec := httptest.NewRecorder()
	HealthHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	RegisterComponent("orchestrator", false, "stopping")
	rec = httptest.NewRecorder()
	HealthHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReadyHandlerStatusCodes(t *testing.T) {
	resetTracker()

	rec := httptest.NewRecorder()
	ReadyHandler()(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	RegisterComponent("orchestrator", true, "")
	RegisterComponent("queue-fabric", true, "")
	rec = httptest.NewRecorder()
	ReadyHandler()(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLivenessHandlerAlwaysOK(t *testing.T) {
	resetTracker()
	rec := httptest.NewRecorder()
	LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alive")
}
