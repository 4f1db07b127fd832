package model

import "fmt"

// AuthErrorKind classifies portal authentication failures.
type AuthErrorKind string

const (
	// AuthErrorNetwork is a transport-level failure while logging in.
	AuthErrorNetwork AuthErrorKind = "Network"
	// AuthErrorProtocolMismatch means the portal answered but returned no
	// recognizable session artifact (no session cookie).
	AuthErrorProtocolMismatch AuthErrorKind = "ProtocolMismatch"
)

// AuthError is a portal login failure.
type AuthError struct {
	Kind   AuthErrorKind
	Detail string
	Err    error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("auth failed (%s): %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("auth failed (%s)", e.Kind)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *AuthError) Unwrap() error { return e.Err }

// ExtractErrorKind classifies attendance extraction failures. Callers must
// handle each kind explicitly; SessionExpired is the one kind that changes
// behavior within a batch run.
type ExtractErrorKind string

const (
	// ExtractErrorSessionExpired means the portal served its login page
	// instead of the attendance table.
	ExtractErrorSessionExpired ExtractErrorKind = "SessionExpired"
	// ExtractErrorUnexpectedLayout means the attendance table marker is
	// missing and the page is not a login page; the markup shape changed.
	ExtractErrorUnexpectedLayout ExtractErrorKind = "UnexpectedLayout"
	// ExtractErrorNoRecordsParsed means the table was present and non-empty
	// but no row survived validation.
	ExtractErrorNoRecordsParsed ExtractErrorKind = "NoRecordsParsed"
	// ExtractErrorNetwork is a transport-level failure during the query.
	ExtractErrorNetwork ExtractErrorKind = "Network"
)

// ExtractError is a per-member extraction failure.
type ExtractError struct {
	Kind   ExtractErrorKind
	Detail string
	Err    error
}

// Error implements the error interface.
func (e *ExtractError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("extract failed (%s): %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("extract failed (%s)", e.Kind)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *ExtractError) Unwrap() error { return e.Err }

// StoreErrorKind classifies persistence failures.
type StoreErrorKind string

const (
	// StoreErrorWriteRejected means the store refused a write. The adapter
	// never retries; retry policy belongs to the caller.
	StoreErrorWriteRejected StoreErrorKind = "WriteRejected"
)

// StoreError is a reconciliation-store failure.
type StoreError struct {
	Kind   StoreErrorKind
	Detail string
	Err    error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("store failed (%s): %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("store failed (%s)", e.Kind)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *StoreError) Unwrap() error { return e.Err }

// APIError is the unified error envelope returned by the HTTP layer.
type APIError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"` // validation, sync, store, system
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Predefined API error codes.
const (
	ErrCodeMemberNotFound = "MEMBER_NOT_FOUND"
	ErrCodeInvalidDate    = "INVALID_DATE"
	ErrCodeInvalidPayload = "INVALID_PAYLOAD"
	ErrCodeSyncRunning    = "SYNC_ALREADY_RUNNING"
	ErrCodeStoreFailure   = "STORE_FAILURE"
)

// NewMemberNotFoundError reports an unknown member id.
func NewMemberNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeMemberNotFound,
		Message:  fmt.Sprintf("member not found: %s", id),
		Category: "validation",
	}
}

// NewInvalidDateError reports a date parameter that is not YYYY-MM-DD.
func NewInvalidDateError(date string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDate,
		Message:  fmt.Sprintf("invalid date, want YYYY-MM-DD: %s", date),
		Category: "validation",
	}
}

// NewSyncRunningError reports that the single-flight guard rejected a run.
func NewSyncRunningError() *APIError {
	return &APIError{
		Code:     ErrCodeSyncRunning,
		Message:  "sync already running",
		Category: "sync",
	}
}
