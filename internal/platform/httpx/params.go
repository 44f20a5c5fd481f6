package httpx

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JINWOOK1234/pos-project/internal/shared"
)

// DateLayout is the calendar date format accepted in query strings.
const DateLayout = "2006-01-02"

// ParamInt64 parses a positive integer URL parameter.
func ParamInt64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, shared.NewError(shared.ErrValidation, "invalid "+name)
	}
	return id, nil
}

// QueryDate parses an optional YYYY-MM-DD query value as a UTC midnight.
func QueryDate(r *http.Request, name string) (time.Time, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, false, nil
	}
	t, err := time.ParseInLocation(DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, false, shared.NewError(shared.ErrValidation, name+" must be in YYYY-MM-DD format")
	}
	return t, true, nil
}

// QueryInt parses an optional integer query value.
func QueryInt(r *http.Request, name string) (int, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, shared.NewError(shared.ErrValidation, name+" must be an integer")
	}
	return v, true, nil
}

// UserID returns the authenticated user id carried by the request context.
func UserID(r *http.Request) (int64, error) {
	id, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		return 0, shared.NewError(shared.ErrUnauthenticated, "authentication required")
	}
	return id, nil
}
