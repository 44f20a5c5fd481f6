package auth

import (
	"log/slog"
	"net/http"

	"github.com/JINWOOK1234/pos-project/internal/platform/httpx"
	"github.com/JINWOOK1234/pos-project/internal/shared"
)

// RequireUser rejects requests whose session carries no user and exposes the user id otherwise.
func RequireUser(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			if sess == nil || sess.User() == 0 {
				httpx.RespondError(w, r, logger, shared.NewError(shared.ErrUnauthenticated, "authentication required"))
				return
			}
			ctx := shared.ContextWithUserID(r.Context(), sess.User())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
