package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

type apiErr struct{ msg string }

func (e apiErr) Error() string        { return "api error: code=Denied, message=" + e.msg }
func (e apiErr) ErrorMessage() string { return e.msg }

func TestMessageOfPrefersNestedMessage(t *testing.T) {
	wrapped := fmt.Errorf("put object: %w", apiErr{msg: "access denied"})
	if got := MessageOf(wrapped); got != "access denied" {
		t.Fatalf("expected nested message, got %q", got)
	}
	if got := MessageOf(errors.New("plain failure")); got != "plain failure" {
		t.Fatalf("expected stringified error, got %q", got)
	}
	if got := MessageOf(apiErr{}); !strings.HasPrefix(got, "api error") {
		t.Fatalf("empty nested message should fall back to Error(), got %q", got)
	}
	if MessageOf(nil) != "" {
		t.Fatalf("expected empty message for nil")
	}
}

func TestErrorKindsAndSentinels(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewNotFoundError(EntityDocument, "d1"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is not found")
	}
	if errors.Is(err, ErrPersistence) {
		t.Fatalf("kind mismatch should not match")
	}
	if !IsKind(err, KindNotFound) || KindOf(err) != KindNotFound {
		t.Fatalf("expected not_found kind")
	}
	if KindOf(errors.New("x")) != "" || IsKind(errors.New("x"), KindAuth) {
		t.Fatalf("plain errors carry no kind")
	}
	if MessageOf(err) != "document d1 not found" {
		t.Fatalf("unexpected message %q", MessageOf(err))
	}
}

func TestErrorConstructorsWrapCause(t *testing.T) {
	cause := apiErr{msg: "bucket missing"}
	se := NewStorageError("attachments.upload", "id/file.pdf", cause)
	if se.Message != "bucket missing" || !errors.Is(se, ErrStorage) {
		t.Fatalf("unexpected storage error %+v", se)
	}
	var target apiErr
	if !errors.As(se, &target) {
		t.Fatalf("expected cause to be reachable")
	}
	pe := NewPersistenceError("documents.insert", EntityDocument, errors.New("duplicate key"))
	if pe.Error() != "documents.insert: persistence: duplicate key" {
		t.Fatalf("unexpected error text %q", pe.Error())
	}
	ae := NewAuthError("certificates.create", nil)
	if ae.Message != "authentication required" || ae.Kind != KindAuth {
		t.Fatalf("unexpected auth error %+v", ae)
	}
	ve := NewValidationError("", EntityCertificate, "bad %s", "unit")
	if ve.Error() != "validation: bad unit" {
		t.Fatalf("unexpected validation text %q", ve.Error())
	}
	var nilErr *Error
	if nilErr.Error() != "" {
		t.Fatalf("nil error should render empty")
	}
}
