package domain

// Decision is the answer of a retry decider after a compile failure.
type Decision uint8

const (
	// DecisionAbort gives up on the request.
	DecisionAbort Decision = iota
	// DecisionRetry re-reads the source and compiles again.
	DecisionRetry
)

// String returns the decision name.
func (d Decision) String() string {
	if d == DecisionRetry {
		return "retry"
	}
	return "abort"
}

// Failure describes a rejected compile attempt to a retry decider.
type Failure struct {
	Request    CompileRequest
	Diagnostic string
	// Attempt is 1 for the first compile.
	Attempt int
	// Files lists every file that contributed to the failed source.
	Files []string
	Err   error
}
