package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/dmitrijs2005/vidtube/internal/common"
	"github.com/dmitrijs2005/vidtube/internal/server/models"
)

// maxMemory bounds the in-memory part of multipart parsing; larger files
// spill to disk.
const maxMemory = 10 << 20

type ctxKey string

const userKey ctxKey = "user"

// ContextWithUser attaches the authenticated user to ctx.
func ContextWithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the user set by the auth guard, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

// Request is the handler view of an incoming request: the raw request and,
// on guarded routes, the sanitized user resolved by the auth guard.
type Request struct {
	*http.Request
	User *models.User
}

// HandlerFunc handles a Request and returns a Response or an error, which
// the adapter turns into the error envelope.
type HandlerFunc func(r *Request) (*Response, error)

// fields reads the named string fields from a JSON, urlencoded or
// multipart body. Missing fields are "".
func fields(r *http.Request, names ...string) (map[string]string, error) {
	out := make(map[string]string, len(names))

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/json":
		raw := map[string]any{}
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
				return nil, common.NewAPIError(http.StatusBadRequest, "invalid JSON body", err)
			}
		}
		for _, n := range names {
			switch v := raw[n].(type) {
			case string:
				out[n] = v
			case nil:
			default:
				out[n] = fmt.Sprint(v)
			}
		}
		return out, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, common.NewAPIError(http.StatusBadRequest, "invalid multipart body", err)
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, common.NewAPIError(http.StatusBadRequest, "invalid form body", err)
		}
	}

	for _, n := range names {
		out[n] = r.FormValue(n)
	}
	return out, nil
}

func (s *Server) handle(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &Request{Request: r}
		if u, ok := UserFromContext(r.Context()); ok {
			req.User = u
		}

		resp, err := h(req)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		resp.write(w)
	}
}

// fail writes the error envelope for err. Errors without a status are
// logged and reported as 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, message := common.StatusOf(err)

	var apiErr *common.APIError
	if !errors.As(err, &apiErr) || status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}

	writeError(w, status, message)
}
