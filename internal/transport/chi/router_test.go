package chi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_RequiresBearerToken(t *testing.T) {
	h := newHarness("secret")

	rr := h.get("/v1/search?q=a")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, h.search.calls)

	rr = h.do(http.MethodGet, "/v1/search?q=a", map[string]string{
		OrganizationHeader: testOrg,
		"Authorization":    "Bearer secret",
	})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouter_RecoversPanics(t *testing.T) {
	h := newHarness()
	h.search.panicMsg = "boom"

	rr := h.get("/v1/search?q=a")

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, ErrorCodeInternalError, decode[ErrorResponse](t, rr).Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	h := newHarness("secret")

	rr := h.do(http.MethodOptions, "/v1/search", map[string]string{
		"Origin":                        "https://app.example.com",
		"Access-Control-Request-Method": http.MethodGet,
	})

	assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	h := newHarness()

	rr := h.get("/v1/collections")

	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, ErrorCodeNotFound, decode[ErrorResponse](t, rr).Code)
}

func TestRouter_RequestIDPropagated(t *testing.T) {
	h := newHarness()

	rr := h.do(http.MethodGet, "/health", map[string]string{"X-Request-Id": "req-7"})

	assert.Equal(t, "req-7", rr.Header().Get("X-Request-ID"))
}
