/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrUnauthorized indicates that an operator endpoint was called without valid credentials.
	ErrUnauthorized = 1005

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Admission and Directory Errors
const (
	// ErrRoomNameRequired indicates that the room name was missing or blank.
	ErrRoomNameRequired = 2001

	// ErrNoParticipants indicates that neither names nor a positive count produced any identity.
	ErrNoParticipants = 2002

	// ErrRoleInvalid indicates that an unknown admission role was requested.
	ErrRoleInvalid = 2003

	// ErrIdentityRequired indicates that a credential was requested for an empty identity.
	ErrIdentityRequired = 2004

	// ErrTooManyParticipants indicates that a single request asked for more identities than allowed.
	ErrTooManyParticipants = 2005

	// ErrObserverCapacity indicates that the room already holds the maximum number of observers.
	ErrObserverCapacity = 2101

	// ErrRoomNotFound indicates that the directory has no data for the requested room.
	ErrRoomNotFound = 2201

	// ErrAuditDisabled indicates that the issuance audit log is not configured.
	ErrAuditDisabled = 2202
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrConfigMissing indicates that the LiveKit key, secret, or URL is not configured.
	ErrConfigMissing = 5001

	// ErrBackendUnavailable indicates that the conferencing backend's admin API failed.
	ErrBackendUnavailable = 5002

	// ErrSlotLedger indicates that the observer slot ledger could not be locked or updated.
	ErrSlotLedger = 5003
)
