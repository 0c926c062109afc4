package analyzer

import "errors"

// Sentinel kinds for analyzer errors.
var (
	// ErrAnalyzerUnavailable means the analysis service could not be reached
	// or rejected the request.
	ErrAnalyzerUnavailable = errors.New("analyzer unavailable")
	// ErrInvalidAnalysis means the service answered with something that is
	// not an analysis object.
	ErrInvalidAnalysis = errors.New("invalid analysis response")
)
