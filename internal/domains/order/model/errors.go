package model

import "errors"

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrLedgerUnavailable = errors.New("order ledger unavailable")
	ErrEmptyStatusSet    = errors.New("completed status set is empty")
)
