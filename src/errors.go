package elitech

/*------------------------------------------------------------------
 *
 * Purpose:	Error taxonomy shared by every component.
 *
 * Description:	Fatal errors (user/arg mistakes and programmer-contract
 *		violations) are returned as ordinary Go errors wrapping
 *		one of the sentinels below. Advisory conditions never
 *		reach here: they go through Diagnostics (diagnostics.go)
 *		and the caller carries on with best-effort data.
 *
 *------------------------------------------------------------------*/

import "errors"

// User/argument errors.
var (
	ErrUnknownCommand    = errors.New("unknown command")
	ErrUnknownParameter  = errors.New("unknown parameter")
	ErrInvalidRecordLen  = errors.New("invalid record length")
	ErrUnsupportedDevice = errors.New("unsupported device")
)

// Range/Response programmer-contract violations.
var (
	ErrOutOfRange     = errors.New("out of range")
	ErrLengthMismatch = errors.New("length mismatch")
)

// Frame parse failures, hard enough that the current request is
// skipped entirely.
var (
	ErrIncompleteHeader  = errors.New("incomplete header")
	ErrInvalidHeader     = errors.New("invalid header")
	ErrOperationMismatch = errors.New("operation mismatch")
	ErrIncompleteData    = errors.New("incomplete data")
)
