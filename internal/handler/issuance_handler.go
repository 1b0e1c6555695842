package handler

import (
	"net/http"
	"strings"

	"roomkey/internal/app/audit"
	"roomkey/internal/pkg/req"
	"roomkey/internal/pkg/resp"
)

const (
	defaultIssuanceLimit = 50
	maxIssuanceLimit     = 500
)

// HandleListIssuances returns the most recent audit entries, newest first.
func HandleListIssuances(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, customErr := req.QueryInt(r, "limit", defaultIssuanceLimit, maxIssuanceLimit)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		room := strings.TrimSpace(r.URL.Query().Get("room"))

		entries, err := deps.Audit.List(r.Context(), room, limit)
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}
		if entries == nil {
			entries = []audit.Entry{}
		}

		resp.RespondSuccess(w, r, map[string]any{
			"issuances": entries,
		})
	}
}
