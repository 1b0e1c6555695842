/*
Package req provides helper functions for HTTP request parsing and data binding.

It encapsulates JSON decoding with size limits and strict field checking, returning
errs.CustomError values that handlers can pass straight to resp.RespondError.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"roomkey/internal/pkg/errs"
)

// MaxJSONBodySize caps the request body accepted by BindJSON (64 KB).
const MaxJSONBodySize int64 = 64 << 10

// BindJSON attempts to bind the JSON data from the HTTP request body to the destination struct dst.
// A missing Content-Type is accepted; any other non-JSON media type is rejected.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.Wrap(errs.ErrInvalidJSONFormat, err)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}

// QueryInt reads a positive integer query parameter, returning def when it is absent
// and clamping the result to max.
func QueryInt(r *http.Request, key string, def, max int) (int, *errs.CustomError) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errs.NewError(errs.ErrInvalidParams)
	}

	return min(n, max), nil
}
