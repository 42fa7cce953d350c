package domain

// AuthMethod describes how a caller authenticated with the gateway.
type AuthMethod string

const (
	AuthMethodAPIKey AuthMethod = "api_key"
	AuthMethodJWT    AuthMethod = "jwt"
)

// Principal captures the authenticated caller identity independent of the
// auth mechanism. API-key callers have no subject of their own.
type Principal struct {
	Subject    string
	AuthMethod AuthMethod
}
