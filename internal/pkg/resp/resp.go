/*
Package resp provides helper functions for constructing and sending HTTP JSON responses.

Successful responses carry the payload object directly; failures carry a short
human-readable "error" string plus the business "code" from the errs package.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"roomkey/internal/pkg/errs"
	"roomkey/internal/pkg/logx"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	// Error is the client-friendly error message.
	Error string `json:"error"`

	// Code is the business error code (see errs package).
	Code int `json:"code"`
}

// RespondJSON is a generic response function used to set the Content-Type and send the JSON payload.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Ctx(r.Context()).Error().
			Err(err).
			Int("http_status", httpStatus).
			Msg("Error encoding JSON response")

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(response)
}

// RespondSuccess sends a successful HTTP response (HTTP 200 OK).
func RespondSuccess(w http.ResponseWriter, r *http.Request, data any) {
	RespondJSON(w, r, http.StatusOK, data)
}

// RespondError sends an HTTP response containing custom error information.
// Any error is accepted; non-CustomErrors are reported as ErrUnknown.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	customErr := errs.From(err)
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	if customErr.Unwrap() != nil {
		logx.Ctx(r.Context()).Warn().
			Err(customErr.Unwrap()).
			Int("code", customErr.Code).
			Msg("Request failed")
	}

	RespondJSON(w, r, customErr.Status, ErrorResponse{
		Error: customErr.Message,
		Code:  customErr.Code,
	})
}
