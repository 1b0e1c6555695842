package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"roomkey/internal/pkg/errs"
	"roomkey/internal/pkg/resp"
)

// RequireOperator guards operator-only endpoints with a static bearer token.
// An empty token leaves the endpoint open; it is then expected to sit behind a
// network boundary that only operators can reach.
func RequireOperator(token string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
