package authsdk

import (
	"context"
	"net/http"
)

// ObtainToken exchanges a handle and password for a token pair.
func (c *SDKClient) ObtainToken(ctx context.Context, handle, password string) (*TokenPairResponse, error) {
	resp, err := c.postJSON(ctx, "/api/token/", TokenObtainRequest{
		Handle:   handle,
		Password: password,
	}, nil)
	if err != nil {
		return nil, err
	}

	var pair TokenPairResponse
	if err := decodeJSON(resp, &pair, http.StatusOK); err != nil {
		return nil, err
	}
	return &pair, nil
}

// RefreshToken exchanges a refresh token for a new access token.
func (c *SDKClient) RefreshToken(ctx context.Context, refreshToken string) (*TokenRefreshResponse, error) {
	resp, err := c.postJSON(ctx, "/api/token/refresh/", TokenRefreshRequest{Refresh: refreshToken}, nil)
	if err != nil {
		return nil, err
	}

	var out TokenRefreshResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
