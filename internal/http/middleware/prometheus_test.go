package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPromApp(t *testing.T) (*fiber.App, *PrometheusMiddleware) {
	t.Helper()
	m, err := NewPrometheusMiddleware(prometheus.NewRegistry())
	require.NoError(t, err)

	app := fiber.New()
	app.Use(m.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/documents/:id/content", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Delete("/documents/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/namespaces/:namespace/documents", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad scope")
	})
	app.Get("/failure", func(c *fiber.Ctx) error { return assert.AnError })
	return app, m
}

func TestPrometheusMiddleware_CountsByRoutePattern(t *testing.T) {
	app, m := newPromApp(t)

	for _, target := range []string{"/documents/a/content", "/documents/b/content"} {
		resp, _ := app.Test(httptest.NewRequest("GET", target, nil))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	_, _ = app.Test(httptest.NewRequest("DELETE", "/documents/a", nil))
	_, _ = app.Test(httptest.NewRequest("GET", "/namespaces/faculty/documents", nil))
	_, _ = app.Test(httptest.NewRequest("GET", "/failure", nil))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/documents/:id/content", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestCount.WithLabelValues("DELETE", "/documents/:id", "204")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/namespaces/:namespace/documents", "400")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/failure", "500")))
	assert.Equal(t, 4, testutil.CollectAndCount(m.requestDuration))
}

func TestPrometheusMiddleware_ExcludesMetrics(t *testing.T) {
	app, m := newPromApp(t)

	_, _ = app.Test(httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 0, testutil.CollectAndCount(m.requestCount))
	assert.Equal(t, 0, testutil.CollectAndCount(m.requestDuration))
}

func TestNewPrometheusMiddleware_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	_, err = NewPrometheusMiddleware(reg)
	assert.Error(t, err)
}
