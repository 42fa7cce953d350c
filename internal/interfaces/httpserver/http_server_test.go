package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihc-secops/officer/internal/config"
	"github.com/ihc-secops/officer/internal/infrastructure/auth"
	"github.com/ihc-secops/officer/internal/infrastructure/cluster"
	"github.com/ihc-secops/officer/internal/infrastructure/gitlab"
	"github.com/ihc-secops/officer/internal/interfaces/httpserver/handlers/clusterhandler"
	"github.com/ihc-secops/officer/internal/interfaces/httpserver/handlers/oauthhandler"
	"github.com/ihc-secops/officer/internal/interfaces/httpserver/middlewares"
	"github.com/ihc-secops/officer/internal/interfaces/httpserver/routes"
	"github.com/ihc-secops/officer/internal/interfaces/httpserver/session"
)

type noopProvider struct{}

func (noopProvider) AuthorizationURL() (string, string, error) {
	return "https://gitlab.example.com/oauth/authorize", "state", nil
}

func (noopProvider) ExchangeCode(context.Context, string) (string, error) {
	return "token", nil
}

func (noopProvider) FetchUser(context.Context, string) (*gitlab.User, error) {
	return &gitlab.User{Email: "jdoe@example.com"}, nil
}

type noopActions struct{}

func (noopActions) ListPods(context.Context, string) ([]cluster.PodInfo, error) { return nil, nil }
func (noopActions) IsolatePod(context.Context, string, string) error        { return nil }
func (noopActions) UnisolatePod(context.Context, string, string) error      { return nil }
func (noopActions) RestartDeployment(context.Context, string, string) error { return nil }
func (noopActions) DeployService(context.Context, string, string, string, string) error {
	return nil
}

const testAPIKey = "test-api-key"

func newServer(t *testing.T) *HttpServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		ServiceName:     "officer",
		Environment:     "test",
		HTTPPort:        0,
		ShutdownTimeout: time.Second,
		EnableSwagger:   false,
	}

	codec, err := auth.NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	require.NoError(t, err)

	log := zerolog.Nop()
	oauth := oauthhandler.NewHandler(
		noopProvider{},
		session.NewMemoryStore(),
		auth.NewAllowList([]string{"jdoe@example.com"}),
		codec,
		log,
	)
	clusterH := clusterhandler.NewHandler(noopActions{}, time.Second, log)
	gateway := middlewares.AuthMiddleware(testAPIKey, codec, log)

	return New(cfg, log, routes.NewRoutes(oauth, clusterH, gateway))
}

func TestHealthEndpointsArePublic(t *testing.T) {
	server := newServer(t)

	for _, path := range []string{"/", "/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		server.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestOAuthRoutesArePublic(t *testing.T) {
	server := newServer(t)

	rec := httptest.NewRecorder()
	server.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gitlab/auth", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestClusterRoutesRequireCredentials(t *testing.T) {
	server := newServer(t)

	rec := httptest.NewRecorder()
	server.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get-pod?namespace=prod", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/get-pod?namespace=prod", nil)
	req.Header.Set("x-api-key", testAPIKey)
	server.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSwaggerDisabled(t *testing.T) {
	server := newServer(t)

	rec := httptest.NewRecorder()
	server.Engine().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
