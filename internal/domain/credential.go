package domain

import (
	"net/http"
	"strings"
)

// Header names the gateway authenticates on.
const (
	APIKeyHeader = "x-api-key"
	AuthHeader   = "Authorization"

	bearerPrefix = "Bearer "
)

// CredentialKind discriminates the credential variants a request can carry.
type CredentialKind int

const (
	CredentialNone CredentialKind = iota
	CredentialAPIKey
	CredentialBearer
)

func (k CredentialKind) String() string {
	switch k {
	case CredentialAPIKey:
		return "api_key"
	case CredentialBearer:
		return "bearer"
	default:
		return "none"
	}
}

// Credential is the tagged union of caller credentials extracted from a
// request. Exactly one variant is populated; Value holds the API key or the
// bearer token (prefix already stripped) and is empty for CredentialNone.
type Credential struct {
	Kind  CredentialKind
	Value string
}

// CredentialFromHeader extracts the caller credential from a header set.
// An x-api-key header with a non-empty value wins over a bearer token; an
// Authorization header without the literal "Bearer " prefix counts as not
// provided. Extraction never fails: absence is CredentialNone, the decision
// to reject belongs to the auth middleware.
func CredentialFromHeader(h http.Header) Credential {
	if key := h.Get(APIKeyHeader); key != "" {
		return Credential{Kind: CredentialAPIKey, Value: key}
	}
	if auth := h.Get(AuthHeader); strings.HasPrefix(auth, bearerPrefix) {
		return Credential{Kind: CredentialBearer, Value: strings.TrimPrefix(auth, bearerPrefix)}
	}
	return Credential{Kind: CredentialNone}
}
