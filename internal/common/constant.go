// Package common contains shared constants, the error taxonomy and small
// helpers used across TrackMate client components.
package common

const (
	// AuthorizationHeaderName carries the session bearer token on outbound requests.
	AuthorizationHeaderName = "Authorization"
	// BearerPrefix precedes the token in the Authorization header value.
	BearerPrefix = "Bearer "
)
