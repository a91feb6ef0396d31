package ratelimit

import (
	"strings"
)

// unlimited is returned for endpoints that are never limited.
var unlimited = EndpointConfig{}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns nil when no endpoint-specific configuration applies.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "OPTIONS" || (path == "/health" && method == "GET") {
		u := unlimited
		return &u
	}

	for i := range configs {
		if configs[i].Method == method && configs[i].Path == path {
			return &configs[i]
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}

	return nil
}
