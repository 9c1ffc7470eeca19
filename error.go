package hapble

// AbortError reports a guarded operation cut short by its watcher,
// carrying the reason the watcher fired with. Callers that propagate
// the abort as an error wrap the callback's reason in one of these.
type AbortError struct {
	Reason Reason
}

func (e *AbortError) Error() string {
	return "operation aborted: " + string(e.Reason)
}
