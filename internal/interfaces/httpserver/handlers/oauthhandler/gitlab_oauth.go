// Package oauthhandler implements the GitLab OAuth2 login and callback
// endpoints that turn an upstream identity into a locally signed session
// token.
package oauthhandler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ihc-secops/officer/internal/infrastructure/auth"
	"github.com/ihc-secops/officer/internal/infrastructure/gitlab"
	"github.com/ihc-secops/officer/internal/infrastructure/metrics"
	"github.com/ihc-secops/officer/internal/interfaces/httpserver/responses"
	"github.com/ihc-secops/officer/internal/interfaces/httpserver/session"
)

// stateSessionKey names the CSRF state entry in the session store.
const stateSessionKey = "csrf_token"

// invalidCredentialMessage is the caller-facing message for every upstream
// or allow-list failure; detail stays in the server log.
const invalidCredentialMessage = "Invalid credential!"

// Provider is the upstream OAuth2 capability the handler drives. Satisfied
// by *gitlab.Client; stubbed in tests.
type Provider interface {
	AuthorizationURL() (url, state string, err error)
	ExchangeCode(ctx context.Context, code string) (accessToken string, err error)
	FetchUser(ctx context.Context, accessToken string) (*gitlab.User, error)
}

// Handler wires the provider, the CSRF session store, the allow-list and the
// token codec into the two public auth endpoints.
type Handler struct {
	provider  Provider
	sessions  session.Store
	allowList *auth.AllowList
	codec     *auth.TokenCodec
	logger    zerolog.Logger
}

// NewHandler creates the OAuth handler.
func NewHandler(
	provider Provider,
	sessions session.Store,
	allowList *auth.AllowList,
	codec *auth.TokenCodec,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		provider:  provider,
		sessions:  sessions,
		allowList: allowList,
		codec:     codec,
		logger:    logger,
	}
}

// Login godoc
// @Summary Start the GitLab OAuth2 login flow
// @Description Stores a CSRF state in the browser session and redirects to GitLab's authorization endpoint.
// @Tags Authentication
// @Produce json
// @Success 302 {string} string "Redirect to GitLab"
// @Failure 500 {object} responses.ErrorResponse
// @Router /gitlab/auth [get]
func (h *Handler) Login(c *gin.Context) {
	authURL, state, err := h.provider.AuthorizationURL()
	if err != nil {
		h.logger.Error().Err(err).Msg("build authorization url")
		responses.HandleErrorWithStatus(c, http.StatusInternalServerError, err, "Failed to start login")
		return
	}

	h.sessions.Set(c.Writer, stateSessionKey, state)
	c.Redirect(http.StatusFound, authURL)
}

// Callback godoc
// @Summary Complete the GitLab OAuth2 login flow
// @Description Validates the CSRF state, exchanges the authorization code, checks the identity against the allow-list and returns a signed session token.
// @Tags Authentication
// @Produce json
// @Param code query string true "Authorization code from GitLab"
// @Param state query string true "CSRF state from the login redirect"
// @Success 200 {object} responses.TokenResponse
// @Failure 400 {object} responses.ErrorResponse "CSRF state missing or mismatched"
// @Failure 403 {object} responses.ErrorResponse "Identity not allow-listed"
// @Failure 502 {object} responses.ErrorResponse "Upstream exchange or identity fetch failed"
// @Router /gitlab/callback [get]
func (h *Handler) Callback(c *gin.Context) {
	// CSRF correlation comes first: no upstream call happens until the
	// state matches what login stored.
	stored, ok := h.sessions.Get(c.Request, stateSessionKey)
	if !ok || stored == "" || c.Query("state") != stored {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, nil, "Invalid CSRF token")
		return
	}
	h.sessions.Clear(c.Writer, stateSessionKey)

	code := c.Query("code")
	if code == "" {
		responses.HandleErrorWithStatus(c, http.StatusBadRequest, nil, "Missing code parameter")
		return
	}

	accessToken, err := h.provider.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		h.logger.Error().Err(err).Msg("authorization code exchange failed")
		responses.HandleErrorWithStatus(c, http.StatusBadGateway, err, invalidCredentialMessage)
		return
	}

	user, err := h.provider.FetchUser(c.Request.Context(), accessToken)
	if err != nil {
		h.logger.Error().Err(err).Msg("user info fetch failed")
		responses.HandleErrorWithStatus(c, http.StatusBadGateway, err, invalidCredentialMessage)
		return
	}

	if !h.allowList.Allowed(user.Email) {
		h.logger.Warn().
			Str("username", user.Username).
			Str("email", user.Email).
			Msg("authenticated identity not allow-listed")
		responses.HandleErrorWithStatus(c, http.StatusForbidden, nil, invalidCredentialMessage)
		return
	}

	token, err := h.codec.Issue(user.Email)
	if err != nil {
		h.logger.Error().Err(err).Msg("token issuance failed")
		responses.HandleErrorWithStatus(c, http.StatusInternalServerError, err, invalidCredentialMessage)
		return
	}

	metrics.RecordTokenIssued()
	h.logger.Info().
		Str("email", user.Email).
		Str("username", user.Username).
		Msg("session token issued")

	c.JSON(http.StatusOK, responses.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(h.codec.TTL().Seconds()),
	})
}
