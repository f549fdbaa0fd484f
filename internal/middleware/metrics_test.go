package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-grading-api/internal/service"
)

// requestCounts returns http_requests_total samples keyed by "method path status".
func requestCounts(t *testing.T, metrics *service.MetricsService) map[string]float64 {
	t.Helper()
	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	counts := map[string]float64{}
	for _, family := range families {
		if family.GetName() != "http_requests_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			counts[labels["method"]+" "+labels["path"]+" "+labels["status"]] = m.GetCounter().GetValue()
		}
	}
	return counts
}

func TestMetricsRecordsRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics, "/metrics"))
	r.POST("/validate/:ruleset", func(c *gin.Context) { c.Status(http.StatusUnprocessableEntity) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, target := range []string{"/validate/term", "/validate/class"} {
		req, _ := http.NewRequest(http.MethodPost, target, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}
	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	req, _ = http.NewRequest(http.MethodGet, "/no/such/page", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, map[string]float64{
		"POST /validate/:ruleset 422": 2,
		"GET unmatched 404":           1,
	}, requestCounts(t, metrics))
}

func TestMetricsWithoutService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(nil))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
