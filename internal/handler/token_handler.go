package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"roomkey/internal/app/admission"
	"roomkey/internal/app/audit"
	"roomkey/internal/app/directory"
	"roomkey/internal/app/issuer"
	"roomkey/internal/pkg/errs"
	"roomkey/internal/pkg/logx"
	"roomkey/internal/pkg/req"
	"roomkey/internal/pkg/resp"
)

// auditTimeout bounds the audit write after the credentials are already signed.
const auditTimeout = 2 * time.Second

type IssueTokensInput struct {
	// Room is the target conferencing room; it is trimmed and must not be blank.
	Room string `json:"room"`
	// Names are explicit participant identities (standard role only).
	Names []string `json:"names,omitempty"`
	// Count is the number of generated "user-*" identities to add (standard role only).
	Count int `json:"count,omitempty"`
	// Role is "standard" (default) or "observer"; "pengawas" is an alias of "observer".
	Role string `json:"role,omitempty"`
}

type TokenView struct {
	Name    string `json:"name"`
	Token   string `json:"token"`
	Room    string `json:"room"`
	RoomURL string `json:"roomUrl"`
}

type IssueTokensResponse struct {
	Room   string      `json:"room"`
	Tokens []TokenView `json:"tokens"`
}

// HandleIssueTokens admits the requested participants and signs one credential each.
// Either every credential is returned or none is.
func HandleIssueTokens(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input IssueTokensInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			issueFailed(w, r, deps, customErr)
			return
		}

		role, err := admission.ParseRole(input.Role)
		if err != nil {
			issueFailed(w, r, deps, err)
			return
		}

		if err := deps.Issuer.Ready(); err != nil {
			issueFailed(w, r, deps, err)
			return
		}

		room, admissions, err := deps.Policy.Admit(r.Context(), admission.Request{
			Room:  input.Room,
			Names: input.Names,
			Count: input.Count,
			Role:  role,
		})
		if err != nil {
			issueFailed(w, r, deps, err)
			return
		}

		credentials := make([]issuer.Credential, 0, len(admissions))
		for _, a := range admissions {
			cred, err := deps.Issuer.Issue(a.Identity, room, a.Grant)
			if err != nil {
				issueFailed(w, r, deps, err)
				return
			}
			credentials = append(credentials, cred)
		}

		recordIssuances(r, deps, role, credentials)
		deps.Metrics.CredentialsIssued(role.String(), len(credentials))

		tokens := make([]TokenView, len(credentials))
		for i, c := range credentials {
			tokens[i] = TokenView{Name: c.Identity, Token: c.Token, Room: c.Room, RoomURL: c.ServiceURL}
		}

		logx.Ctx(r.Context()).Info().
			Str("room", room).
			Str("role", role.String()).
			Int("tokens", len(tokens)).
			Msg("Credentials issued")

		resp.RespondSuccess(w, r, IssueTokensResponse{Room: room, Tokens: tokens})
	}
}

func issueFailed(w http.ResponseWriter, r *http.Request, deps *AppDeps, err error) {
	deps.Metrics.IssueFailed(strconv.Itoa(errs.CodeOf(err)))
	resp.RespondError(w, r, err)
}

// recordIssuances writes the audit entries. The write outlives a cancelled request
// and its failure never fails the issuance.
func recordIssuances(r *http.Request, deps *AppDeps, role admission.Role, credentials []issuer.Credential) {
	entries := make([]audit.Entry, len(credentials))
	remoteIP := logx.AnonymizeIP(r.RemoteAddr)
	for i, c := range credentials {
		entries[i] = audit.Entry{
			Room:      c.Room,
			Identity:  c.Identity,
			Role:      role.String(),
			RemoteIP:  remoteIP,
			IssuedAt:  c.IssuedAt,
			ExpiresAt: c.ExpiresAt,
		}
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), auditTimeout)
	defer cancel()

	if err := deps.Audit.Record(ctx, entries); err != nil {
		logx.Ctx(r.Context()).Error().Err(err).Int("entries", len(entries)).Msg("Failed to record issuances")
	}
}

type ListParticipantsResponse struct {
	Room         string                         `json:"room"`
	Participants []directory.ParticipantSummary `json:"participants"`
}

type ListRoomsResponse struct {
	ActiveRooms []directory.RoomSummary `json:"activeRooms"`
}

// HandleListRooms lists the participants of ?room=, or every active room when it is absent.
func HandleListRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if room := strings.TrimSpace(r.URL.Query().Get("room")); room != "" {
			participants, err := deps.Directory.ListParticipants(r.Context(), room)
			if err != nil {
				resp.RespondError(w, r, err)
				return
			}
			resp.RespondSuccess(w, r, ListParticipantsResponse{Room: room, Participants: participants})
			return
		}

		rooms, err := deps.Directory.ListRooms(r.Context())
		if err != nil {
			resp.RespondError(w, r, err)
			return
		}
		if rooms == nil {
			rooms = []directory.RoomSummary{}
		}
		resp.RespondSuccess(w, r, ListRoomsResponse{ActiveRooms: rooms})
	}
}

// HandleTokenPreflight answers OPTIONS with the fixed permissive CORS headers and an empty body.
func HandleTokenPreflight(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusOK)
}
