package responses

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the uniform error payload. Message is caller-safe; the
// underlying error is logged server-side, never serialized.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse reports the outcome of a cluster action.
type StatusResponse struct {
	Status string `json:"status"`
}

// TokenResponse carries a freshly minted session token.
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}

// HandleErrorWithStatus aborts the request with a caller-safe message. The
// error itself, when present, is attached to the gin context for the logging
// middleware.
func HandleErrorWithStatus(c *gin.Context, status int, err error, message string) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}
