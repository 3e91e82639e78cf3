package server

const (
	// Validation (1xxx)
	ErrCodeInvalidArgument = 1000
	ErrCodeInvalidJSON     = 1001
	ErrCodeRequestTooLarge = 1002
	ErrCodeInvalidQuery    = 1003
	ErrCodeInvalidID       = 1004
	ErrCodeInvalidStatus   = 1005
	ErrCodeInvalidPriority = 1007
	ErrCodeMissingRequired = 1009
	ErrCodeInvalidCommand  = 1015

	// Domain state (2xxx)
	ErrCodeTaskNotFound    = 2001
	ErrCodeMemberNotFound  = 2005
	ErrCodeCommentNotFound = 2006
	ErrCodeConflict        = 2102

	// Internal/system (4xxx)
	ErrCodeInternal       = 4001
	ErrCodeStoreFailure   = 4002
	ErrCodeCounterFailure = 4006
	ErrCodeInterpreter    = 4007
)

func defaultErrorCodeByStatus(status int) int {
	switch status {
	case 400:
		return ErrCodeInvalidArgument
	case 404:
		return ErrCodeTaskNotFound
	case 409:
		return ErrCodeConflict
	case 500:
		return ErrCodeInternal
	default:
		return 0
	}
}
