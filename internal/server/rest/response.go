package rest

import (
	"encoding/json"
	"net/http"
)

// Envelope is the JSON body of every successful response.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorEnvelope is the JSON body of every failed response.
type ErrorEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// Response is what a handler returns on success: a status, the payload
// wrapped into an Envelope, and cookies to set before the body is written.
type Response struct {
	Status  int
	Data    any
	Message string
	Cookies []*http.Cookie
}

func OK(data any, message string) *Response {
	return &Response{Status: http.StatusOK, Data: data, Message: message}
}

func Created(data any, message string) *Response {
	return &Response{Status: http.StatusCreated, Data: data, Message: message}
}

// WithCookies appends cookies and returns r for chaining.
func (r *Response) WithCookies(cookies ...*http.Cookie) *Response {
	r.Cookies = append(r.Cookies, cookies...)
	return r
}

func (r *Response) write(w http.ResponseWriter) {
	for _, c := range r.Cookies {
		http.SetCookie(w, c)
	}
	data := r.Data
	if data == nil {
		data = struct{}{}
	}
	writeJSON(w, r.Status, Envelope{
		StatusCode: r.Status,
		Data:       data,
		Message:    r.Message,
		Success:    r.Status < http.StatusBadRequest,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorEnvelope{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     []string{},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
