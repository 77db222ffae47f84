package routes

import (
	"net/http"
	"testing"

	"github.com/Govind-619/MintSphere/middleware"
	"github.com/Govind-619/MintSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(limiter *middleware.RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRouter(Options{
		SessionSecret: "routes-test-secret",
		AllowedOrigin: "http://localhost:3012",
		AuthLimiter:   limiter,
	})
}

func TestHealth(t *testing.T) {
	resp := utils.MakeTestRequest(t, testRouter(nil), utils.TestRequest{Method: http.MethodGet, Path: "/api/health"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", resp.Body["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestUnknownRoute(t *testing.T) {
	resp := utils.MakeTestRequest(t, testRouter(nil), utils.TestRequest{Method: http.MethodGet, Path: "/api/nope"})
	utils.AssertResponse(t, resp, http.StatusNotFound, "Route not found")
}

func TestMetricsEndpoint(t *testing.T) {
	router := testRouter(nil)
	utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/api/health"})

	resp := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/metrics"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(resp.Raw), "mintsphere_http_requests_total")
}

func TestProtectedGroupsRequireToken(t *testing.T) {
	router := testRouter(nil)
	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/cart"},
		{http.MethodPost, "/api/orders"},
		{http.MethodGet, "/api/web3/nonce"},
		{http.MethodGet, "/api/admin/monitors"},
		{http.MethodPost, "/api/nfts"},
		{http.MethodPost, "/api/nfts/1/verify-ownership"},
		{http.MethodGet, "/api/auth/me"},
	}
	for _, p := range paths {
		resp := utils.MakeTestRequest(t, router, utils.TestRequest{Method: p.method, Path: p.path})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", p.method, p.path)
	}
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	router := testRouter(middleware.NewRateLimiter(0.001, 1))

	first := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodPost, Path: "/api/auth/login", Body: gin.H{}})
	assert.Equal(t, http.StatusBadRequest, first.StatusCode)

	second := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodPost, Path: "/api/auth/login", Body: gin.H{}})
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)

	// the limiter only covers /api/auth
	other := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/api/health"})
	assert.Equal(t, http.StatusOK, other.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	resp := utils.MakeTestRequest(t, testRouter(nil), utils.TestRequest{Method: http.MethodOptions, Path: "/api/orders"})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3012", resp.Header.Get("Access-Control-Allow-Origin"))
}
