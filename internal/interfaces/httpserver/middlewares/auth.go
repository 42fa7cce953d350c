package middlewares

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ihc-secops/officer/internal/domain"
	"github.com/ihc-secops/officer/internal/infrastructure/auth"
	"github.com/ihc-secops/officer/internal/infrastructure/metrics"
	"github.com/ihc-secops/officer/internal/interfaces/httpserver/responses"
)

const principalContextKey = "principal"

// AuthMiddleware is the gateway in front of every privileged endpoint. It
// admits a request on a matching API key or a verifiable bearer JWT and
// rejects everything else with a generic 401 before the handler runs.
//
// A request carrying both headers is authenticated by API key alone; the
// bearer token is never inspected in that case.
func AuthMiddleware(apiKey string, codec *auth.TokenCodec, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cred := domain.CredentialFromHeader(c.Request.Header)

		switch cred.Kind {
		case domain.CredentialAPIKey:
			if subtle.ConstantTimeCompare([]byte(cred.Value), []byte(apiKey)) != 1 {
				logger.Warn().
					Str("path", c.FullPath()).
					Str("credential", cred.Kind.String()).
					Msg("api key mismatch")
				reject(c, cred)
				return
			}
			setPrincipal(c, domain.Principal{AuthMethod: domain.AuthMethodAPIKey})

		case domain.CredentialBearer:
			claims, err := codec.Verify(cred.Value)
			if err != nil {
				// The verification failure kind stays server-side.
				logger.Warn().
					Err(err).
					Str("path", c.FullPath()).
					Str("credential", cred.Kind.String()).
					Msg("jwt verification failed")
				reject(c, cred)
				return
			}
			setPrincipal(c, domain.Principal{
				Subject:    claims.Subject,
				AuthMethod: domain.AuthMethodJWT,
			})

		default:
			logger.Warn().
				Str("path", c.FullPath()).
				Str("method", c.Request.Method).
				Msg("unauthenticated request")
			reject(c, cred)
			return
		}

		c.Next()
	}
}

func reject(c *gin.Context, cred domain.Credential) {
	metrics.RecordAuthRejection(cred.Kind.String())
	responses.HandleErrorWithStatus(c, http.StatusUnauthorized, nil, "Invalid API key")
}

func setPrincipal(c *gin.Context, principal domain.Principal) {
	c.Set(principalContextKey, principal)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(c *gin.Context) (domain.Principal, bool) {
	val, ok := c.Get(principalContextKey)
	if !ok {
		return domain.Principal{}, false
	}
	principal, ok := val.(domain.Principal)
	return principal, ok
}
