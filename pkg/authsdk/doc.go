/*
Package authsdk is a client for the conduit authentication service and the
home of its wire types.

# SDKClient and Session

SDKClient covers the public endpoints:

	client := authsdk.NewSDKClient("https://auth.example.com")

	// Create an account. The response carries a first token pair.
	reg, err := client.Register(ctx, authsdk.RegisterRequest{
		Handle:   "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})

	// Trade credentials for tokens.
	pair, err := client.ObtainToken(ctx, "alice", "correct-horse")

	// Trade a refresh token for a new access token.
	out, err := client.RefreshToken(ctx, pair.Refresh)

A Session holds a token pair and refreshes the access token shortly before
it expires:

	session, err := client.AuthenticateWithPassword(ctx, "alice", "correct-horse")
	me, err := session.GetHandle(ctx)

# Errors

Every non-2xx response is returned as an *APIError. Predefined values such as
ErrInvalidCredentials and ErrTokenNotValid match with errors.Is by code:

	_, err := client.ObtainToken(ctx, "alice", "wrong")
	if errors.Is(err, authsdk.ErrInvalidCredentials) {
		// ...
	}

Validation failures use the code "validation_error" and list the rejected
fields in Details.
*/
package authsdk
