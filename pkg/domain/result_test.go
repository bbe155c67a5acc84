package domain

import "testing"

func TestResultMergeAndWarnings(t *testing.T) {
	var result Result
	result.Merge(Result{Warnings: []Warning{{Code: "info", Severity: SeverityLog}}})
	if result.HasWarnings() {
		t.Fatalf("expected no warn-level entries")
	}
	result.Add(Warning{Code: WarnCompensationFailed, Message: "delete failed"})
	if !result.HasWarnings() {
		t.Fatalf("expected warning")
	}
	if result.Warnings[1].Severity != SeverityWarn {
		t.Fatalf("expected default severity warn, got %q", result.Warnings[1].Severity)
	}
	codes := result.Codes()
	if len(codes) != 2 || codes[0] != "info" || codes[1] != WarnCompensationFailed {
		t.Fatalf("unexpected codes %v", codes)
	}
}

func TestResultMergeEmptyInput(t *testing.T) {
	original := Result{Warnings: []Warning{{Code: "existing", Severity: SeverityWarn}}}
	original.Merge(Result{})
	if len(original.Warnings) != 1 || original.Warnings[0].Code != "existing" {
		t.Fatalf("expected original warnings to remain, got %+v", original.Warnings)
	}
}
