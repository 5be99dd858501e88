package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.PlansGenerated.WithLabelValues("week").Inc()
	a.PlansGenerated.WithLabelValues("week").Inc()

	assert.Contains(t, scrape(t, a), `studyplan_plans_generated_total{kind="week"} 2`)
	assert.NotContains(t, scrape(t, b), `studyplan_plans_generated_total{kind="week"}`)
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New()
	m.AchievementsNew.Add(3)
	m.WeekCacheLookups.WithLabelValues("hit").Inc()

	body := scrape(t, m)
	assert.Contains(t, body, "studyplan_achievements_unlocked_total 3")
	assert.Contains(t, body, `studyplan_week_plan_cache_lookups_total{result="hit"} 1`)
	assert.Contains(t, body, "go_goroutines")
}
