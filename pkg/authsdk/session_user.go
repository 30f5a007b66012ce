package authsdk

import (
	"context"
	"net/http"
)

// GetHandle returns the handle of the authenticated user.
func (s *Session) GetHandle(ctx context.Context) (*HandleResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/api/handle/", nil)
	if err != nil {
		return nil, err
	}

	var out HandleResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
