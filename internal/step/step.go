package step

// Status is the outcome classification of a single bootstrap step.
type Status string

const (
	// StatusSkipped indicates the step's desired state was already met
	// (tool already on PATH, session already valid, --skip-auth).
	StatusSkipped Status = "skipped"
	// StatusInstalled indicates an install strategy ran and the tool is now
	// detectable.
	StatusInstalled Status = "installed"
	// StatusDone indicates a non-install step completed its work.
	StatusDone Status = "done"
	// StatusFailed indicates the step failed; the pipeline treats this as
	// fatal and does not run later steps.
	StatusFailed Status = "failed"
)

func (s Status) String() string {
	return string(s)
}

// Outcome captures the result of one pipeline step. Outcomes are accumulated
// for end-of-run reporting only; the pipeline itself carries no state across
// steps beyond "did the previous step succeed".
type Outcome struct {
	Step    string
	Status  Status
	Message string
}

// Failed reports whether this outcome aborts the run.
func (o Outcome) Failed() bool {
	return o.Status == StatusFailed
}

// Skipped creates a skipped outcome for the named step.
func Skipped(name, message string) Outcome {
	return Outcome{Step: name, Status: StatusSkipped, Message: message}
}

// Installed creates an installed outcome for the named step.
func Installed(name, message string) Outcome {
	return Outcome{Step: name, Status: StatusInstalled, Message: message}
}

// Done creates a completed outcome for the named step.
func Done(name, message string) Outcome {
	return Outcome{Step: name, Status: StatusDone, Message: message}
}

// Failed creates a failed outcome for the named step.
func Failed(name, message string) Outcome {
	return Outcome{Step: name, Status: StatusFailed, Message: message}
}
