package domain

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentialFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    Credential
	}{
		{
			name:    "no headers",
			headers: map[string]string{},
			want:    Credential{Kind: CredentialNone},
		},
		{
			name:    "api key",
			headers: map[string]string{"x-api-key": "secret123"},
			want:    Credential{Kind: CredentialAPIKey, Value: "secret123"},
		},
		{
			name:    "empty api key counts as absent",
			headers: map[string]string{"x-api-key": ""},
			want:    Credential{Kind: CredentialNone},
		},
		{
			name:    "bearer token",
			headers: map[string]string{"Authorization": "Bearer abc.def.ghi"},
			want:    Credential{Kind: CredentialBearer, Value: "abc.def.ghi"},
		},
		{
			name:    "authorization without bearer prefix ignored",
			headers: map[string]string{"Authorization": "Basic dXNlcjpwYXNz"},
			want:    Credential{Kind: CredentialNone},
		},
		{
			name: "api key wins over bearer",
			headers: map[string]string{
				"x-api-key":     "secret123",
				"Authorization": "Bearer abc.def.ghi",
			},
			want: Credential{Kind: CredentialAPIKey, Value: "secret123"},
		},
		{
			name: "empty api key falls through to bearer",
			headers: map[string]string{
				"x-api-key":     "",
				"Authorization": "Bearer abc.def.ghi",
			},
			want: Credential{Kind: CredentialBearer, Value: "abc.def.ghi"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}
			assert.Equal(t, tt.want, CredentialFromHeader(h))
		})
	}
}
