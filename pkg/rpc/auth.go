package rpc

import "net/http"

// Auth types understood by the HTTP transport.
const (
	AuthTypeBearer = "bearer"
	AuthTypeAPIKey = "api_key"
	AuthTypeBasic  = "basic"
	AuthTypeCustom = "custom"
)

// AuthConfig holds authentication configuration
type AuthConfig struct {
	Type     string            `json:"type"`     // "bearer", "api_key", "basic", "custom"
	Token    string            `json:"token"`    // For bearer/api_key
	Username string            `json:"username"` // For basic auth
	Password string            `json:"password"` // For basic auth
	Headers  map[string]string `json:"headers"`  // Custom headers
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthTypeBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthTypeAPIKey:
		req.Header.Set("X-API-Key", a.Token)
	case AuthTypeBasic:
		req.SetBasicAuth(a.Username, a.Password)
	case AuthTypeCustom:
		for k, v := range a.Headers {
			req.Header.Set(k, v)
		}
	}
}
