package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Configuration errors (100-199)
	ErrCodeInvalidConfiguration ErrorCode = 100
	ErrCodeEmptyLabel           ErrorCode = 101
	ErrCodeDuplicateLabel       ErrorCode = 102
	ErrCodeUnknownLabel         ErrorCode = 103
	ErrCodeEmptyValues          ErrorCode = 104
	ErrCodeInvalidOperator      ErrorCode = 105
	ErrCodeInvalidValueKind     ErrorCode = 106
	ErrCodeInvalidBinding       ErrorCode = 107
	ErrCodeInvalidRange         ErrorCode = 108

	// Data/Store errors (200-299)
	ErrCodeStoreUnavailable ErrorCode = 200
	ErrCodeQueryFailed      ErrorCode = 201
	ErrCodeStoreVersion     ErrorCode = 202
	ErrCodeStoreCorrupt     ErrorCode = 203
	ErrCodeDataNotFound     ErrorCode = 204

	// Evaluation errors (600-699)
	ErrCodeEvaluationFailed ErrorCode = 600
	ErrCodeEvaluationPanic  ErrorCode = 601
	ErrCodeInsufficientData ErrorCode = 602
)
