package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the conduit authentication service. It covers
// the public endpoints and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a client for the service at baseURL.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// AuthenticateWithPassword obtains a token pair and wraps it in a Session.
func (c *SDKClient) AuthenticateWithPassword(ctx context.Context, handle, password string) (*Session, error) {
	pair, err := c.ObtainToken(ctx, handle, password)
	if err != nil {
		return nil, err
	}
	return newSession(c, pair.Access, pair.Refresh), nil
}

// NewSessionFromTokens wraps tokens obtained elsewhere, such as the ones
// returned at registration.
func (c *SDKClient) NewSessionFromTokens(accessToken, refreshToken string) *Session {
	return newSession(c, accessToken, refreshToken)
}
