package domain

// RequestStatus is the job tracker's state machine. Transitions are monotonic:
// once a request reaches a terminal status it never leaves it.
type RequestStatus string

const (
	StatusCreated            RequestStatus = "created"
	StatusAnalyzing          RequestStatus = "analyzing"
	StatusCandidatesSelected RequestStatus = "candidates_selected"
	StatusOptionsPriced      RequestStatus = "options_priced"
	StatusOptimized          RequestStatus = "optimized"
	StatusReconciled         RequestStatus = "reconciled"
	StatusSqueezed           RequestStatus = "squeezed"
	StatusCompleted          RequestStatus = "completed"
	StatusFailed             RequestStatus = "failed"

	// StatusNotFound is what polling an unknown or evicted id returns. It is
	// never stored.
	StatusNotFound RequestStatus = "not_found"
)

func (s RequestStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}
