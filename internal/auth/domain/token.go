package domain

// TokenPair is a refresh token and an access token issued together.
type TokenPair struct {
	Access  string
	Refresh string
}
