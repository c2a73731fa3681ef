// Package common contains shared constants and sentinel errors used across
// vidtube components.
package common

// Cookie names carrying the credentials issued at login and refresh.
const (
	AccessTokenCookieName  = "accessToken"
	RefreshTokenCookieName = "refreshToken"
)

// AuthorizationHeaderName carries the access token as "Bearer <token>" when
// the client does not use cookies.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "
