package graph

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/ruralbankph/loan_inquiry_relay/inits"
)

// ErrMissingCredentials is returned when the client-credentials flow cannot
// even be attempted. Credentials are checked here, per send, rather than at
// startup.
var ErrMissingCredentials = errors.New("graph credentials are not configured")

// newTokenSource builds a client-credentials token source against the
// tenant's v2.0 token endpoint. The source caches the token and refreshes
// it on expiry, so concurrent sends share one live token.
func newTokenSource(cfg *inits.Config) oauth2.TokenSource {
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.LoginBaseURL + "/" + cfg.TenantID + "/oauth2/v2.0/token",
		Scopes:       []string{cfg.GraphBaseURL + "/.default"},
	}
	return cc.TokenSource(context.Background())
}
