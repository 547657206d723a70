package dto

import (
	"net/http"
	"sort"
	"strings"
)

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

func (e FieldErrors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Err returns nil when no field failed, so callers can write `return fe.Err()`.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// ErrorResp is the body of every non-2xx API answer.
type ErrorResp struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewErrorResp(status int, message string) ErrorResp {
	return ErrorResp{Error: strings.ToLower(http.StatusText(status)), Message: message}
}
