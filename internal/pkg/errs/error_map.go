/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrUnauthorized:         {Code: ErrUnauthorized, Message: "Operator credentials required.", Status: http.StatusUnauthorized},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Admission and Directory Errors
	ErrRoomNameRequired:    {Code: ErrRoomNameRequired, Message: "Room name is required"},
	ErrNoParticipants:      {Code: ErrNoParticipants, Message: "Please provide participant names OR a valid 'count' number"},
	ErrRoleInvalid:         {Code: ErrRoleInvalid, Message: "Unknown role %q"},
	ErrIdentityRequired:    {Code: ErrIdentityRequired, Message: "Participant identity is required"},
	ErrTooManyParticipants: {Code: ErrTooManyParticipants, Message: "At most %d participants per request"},
	ErrObserverCapacity:    {Code: ErrObserverCapacity, Message: "Observer limit reached for this room (max %d)"},
	ErrRoomNotFound:        {Code: ErrRoomNotFound, Message: "Room not found or has no participants", Status: http.StatusNotFound},
	ErrAuditDisabled:       {Code: ErrAuditDisabled, Message: "Issuance audit log is not enabled", Status: http.StatusNotFound},

	// 5xxx: Internal System Errors
	ErrUnknown:            {Code: ErrUnknown, Message: "Internal server error", Status: http.StatusInternalServerError},
	ErrConfigMissing:      {Code: ErrConfigMissing, Message: "LiveKit configuration missing", Status: http.StatusInternalServerError},
	ErrBackendUnavailable: {Code: ErrBackendUnavailable, Message: "Conferencing service request failed", Status: http.StatusInternalServerError},
	ErrSlotLedger:         {Code: ErrSlotLedger, Message: "Observer admission is temporarily unavailable", Status: http.StatusInternalServerError},
}
