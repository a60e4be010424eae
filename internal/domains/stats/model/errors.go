package model

import "errors"

// =====================================================
// CUSTOM ERROR CODES
// =====================================================
const (
	ErrCodeInvalidQuery     = "STS001"
	ErrCodeInvalidParameter = "STS002"
	ErrCodeUnknownReport    = "STS404"
	ErrCodeExportFailed     = "STS501"
	ErrCodeStoreUnavailable = "STS500"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrInvalidDate       = errors.New("invalid date, expected RFC3339 or YYYY-MM-DD")
	ErrInvalidLimit      = errors.New("limit must be between 1 and 100")
	ErrInvalidProfitMode = errors.New("invalid profit mode")
	ErrStoreUnavailable  = errors.New("reporting store unavailable")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type StatsError struct {
	Code    string
	Message string
	Err     error
}

func (e *StatsError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *StatsError) Unwrap() error {
	return e.Err
}

// NewStatsError creates a new StatsError
func NewStatsError(code, message string, err error) *StatsError {
	return &StatsError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
