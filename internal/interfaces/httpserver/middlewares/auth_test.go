package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihc-secops/officer/internal/domain"
	"github.com/ihc-secops/officer/internal/infrastructure/auth"
)

const configuredKey = "secret123"

func newGatewayRouter(t *testing.T) (*gin.Engine, *auth.TokenCodec, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec, err := auth.NewTokenCodec([]byte(strings.Repeat("k", 32)), time.Hour)
	require.NoError(t, err)

	downstreamCalls := 0
	router := gin.New()
	router.Use(AuthMiddleware(configuredKey, codec, zerolog.Nop()))
	router.GET("/protected", func(c *gin.Context) {
		downstreamCalls++
		principal, _ := PrincipalFromContext(c)
		c.JSON(http.StatusOK, gin.H{"subject": principal.Subject, "method": string(principal.AuthMethod)})
	})
	return router, codec, &downstreamCalls
}

func doRequest(router *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGatewayAdmitsMatchingAPIKey(t *testing.T) {
	router, _, calls := newGatewayRouter(t)

	rec := doRequest(router, map[string]string{"x-api-key": configuredKey})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, *calls)
}

func TestGatewayRejectsWrongAPIKey(t *testing.T) {
	router, _, calls := newGatewayRouter(t)

	rec := doRequest(router, map[string]string{"x-api-key": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid API key"}`, rec.Body.String())
	assert.Equal(t, 0, *calls)
}

func TestGatewayAPIKeyIsCaseSensitive(t *testing.T) {
	router, _, calls := newGatewayRouter(t)

	rec := doRequest(router, map[string]string{"x-api-key": "SECRET123"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, *calls)
}

func TestGatewayAdmitsValidJWT(t *testing.T) {
	router, codec, calls := newGatewayRouter(t)

	token, err := codec.Issue("a@x.com")
	require.NoError(t, err)

	rec := doRequest(router, map[string]string{"Authorization": "Bearer " + token})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"subject":"a@x.com"`)
	assert.Equal(t, 1, *calls)
}

func TestGatewayRejectsGarbageJWT(t *testing.T) {
	router, _, calls := newGatewayRouter(t)

	rec := doRequest(router, map[string]string{"Authorization": "Bearer not.a.token"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, *calls)
}

func TestGatewayRejectsMissingCredentials(t *testing.T) {
	router, _, calls := newGatewayRouter(t)

	rec := doRequest(router, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, *calls)
}

func TestGatewayAPIKeyTakesPrecedenceOverJWT(t *testing.T) {
	router, codec, calls := newGatewayRouter(t)

	token, err := codec.Issue("a@x.com")
	require.NoError(t, err)

	// Wrong API key plus a perfectly valid JWT: the key decides alone.
	rec := doRequest(router, map[string]string{
		"x-api-key":     "wrong",
		"Authorization": "Bearer " + token,
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, *calls)

	// Matching API key plus a garbage JWT: still admitted.
	rec = doRequest(router, map[string]string{
		"x-api-key":     configuredKey,
		"Authorization": "Bearer garbage",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, *calls)
	assert.Contains(t, rec.Body.String(), string(domain.AuthMethodAPIKey))
}

func TestGatewayPassesDownstreamResponseThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	codec, err := auth.NewTokenCodec([]byte(strings.Repeat("k", 32)), time.Hour)
	require.NoError(t, err)

	router := gin.New()
	router.Use(AuthMiddleware(configuredKey, codec, zerolog.Nop()))
	router.GET("/fails", func(c *gin.Context) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "cluster unreachable"})
	})

	req := httptest.NewRequest(http.MethodGet, "/fails", nil)
	req.Header.Set("x-api-key", configuredKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"cluster unreachable"}`, rec.Body.String())
}
