package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/vidtube/internal/common"
)

func (s *Server) authCookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookieSecure,
	}
}

func (s *Server) authCookies(accessToken, refreshToken string) []*http.Cookie {
	return []*http.Cookie{
		s.authCookie(common.AccessTokenCookieName, accessToken),
		s.authCookie(common.RefreshTokenCookieName, refreshToken),
	}
}

func (s *Server) clearedAuthCookies() []*http.Cookie {
	out := make([]*http.Cookie, 0, 2)
	for _, name := range []string{common.AccessTokenCookieName, common.RefreshTokenCookieName} {
		c := s.authCookie(name, "")
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		out = append(out, c)
	}
	return out
}

// accessToken returns the access token from the accessToken cookie or,
// failing that, from an "Authorization: Bearer" header.
func accessToken(r *http.Request) string {
	if c, err := r.Cookie(common.AccessTokenCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get(common.AuthorizationHeaderName)
	if strings.HasPrefix(h, common.BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(h, common.BearerPrefix))
	}
	return ""
}
