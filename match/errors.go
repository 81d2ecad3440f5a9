package match

import "errors"

var (
	// ErrCaseStore indicates that a case store query failed. The match is
	// aborted rather than reported as "no usage".
	ErrCaseStore = errors.New("case store query failed")

	// ErrInvalidThresholds indicates a malformed tier configuration.
	ErrInvalidThresholds = errors.New("invalid frequency thresholds")
)
