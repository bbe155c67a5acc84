package domain

// Severity captures the weight of a non-fatal outcome.
type Severity string

// Warning severities. Neither fails the operation that produced them.
const (
	// SeverityWarn marks a swallowed failure the caller should surface.
	SeverityWarn Severity = "warn"
	// SeverityLog marks an informational outcome.
	SeverityLog Severity = "log"
)

// Warning describes a non-fatal failure or anomaly produced alongside a
// primary outcome, such as a failed compensation or a dangling reference.
type Warning struct {
	Code     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates warnings from an operation.
type Result struct {
	Warnings []Warning
}

// Add appends a warning.
func (r *Result) Add(w Warning) {
	if w.Severity == "" {
		w.Severity = SeverityWarn
	}
	r.Warnings = append(r.Warnings, w)
}

// Merge appends warnings from another result.
func (r *Result) Merge(other Result) {
	if len(other.Warnings) == 0 {
		return
	}
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// HasWarnings returns true if the result carries any SeverityWarn entries.
func (r Result) HasWarnings() bool {
	for _, w := range r.Warnings {
		if w.Severity == SeverityWarn {
			return true
		}
	}
	return false
}

// Codes lists warning codes in insertion order.
func (r Result) Codes() []string {
	out := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		out = append(out, w.Code)
	}
	return out
}

// Warning codes emitted by the core.
const (
	WarnCompensationFailed = "compensation_failed"
	WarnDanglingReference  = "dangling_reference"
	WarnLabelsUnavailable  = "labels_unavailable"
	WarnUnknownTarget      = "unknown_target"
)
