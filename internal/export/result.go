package export

// Status is the pass/fail verdict of a check. Its value is the process exit code.
type Status int

const (
	Pass Status = 0
	Fail Status = 1
)

func (s Status) String() string {
	if s == Pass {
		return "PASS"
	}
	return "FAIL"
}

// Outcome records which terminal state a check reached.
type Outcome int

const (
	// Failed means the exporter or a file operation returned an error.
	Failed Outcome = iota
	// Empty means the exporter produced no content; nothing was compared.
	Empty
	// Created means the output file did not exist and was written.
	Created
	// Updated means the output file differed and was rewritten.
	Updated
	// Unchanged means the output file already matched the export.
	Unchanged
)

func (o Outcome) String() string {
	switch o {
	case Failed:
		return "failed"
	case Empty:
		return "empty"
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Unchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// Result is produced once per check and never persisted.
type Result struct {
	Status         Status
	Outcome        Outcome
	ContentChanged bool
	// Err is set when Outcome is Failed.
	Err error
	// Diff is a unified diff of the rewrite when Outcome is Updated.
	Diff string
}

func failed(err error) Result {
	return Result{Status: Fail, Outcome: Failed, Err: err}
}
