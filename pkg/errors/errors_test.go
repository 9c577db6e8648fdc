package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(CodeInsufficientCredit)
	if meta.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status: %d", meta.HTTPStatus)
	}
	if !meta.DetailsAllowed {
		t.Fatal("insufficient credit responses must carry shortfall details")
	}

	if MetadataFor(Code("bogus")).HTTPStatus != http.StatusInternalServerError {
		t.Fatal("unknown codes must fall back to internal")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("boom")
	err := Wrap(CodeUpstreamSync, cause, "draft order create")
	if err.Unwrap() != cause {
		t.Fatal("expected wrapped cause")
	}
	if !IsCode(err, CodeUpstreamSync) {
		t.Fatal("expected upstream sync code")
	}
	if IsCode(err, CodeNotFound) {
		t.Fatal("unexpected code match")
	}
}

func TestAsUnwrapsNestedError(t *testing.T) {
	t.Parallel()

	inner := New(CodeNotFound, "company not found")
	wrapped := fmt.Errorf("handling webhook: %w", inner)

	typed := As(wrapped)
	if typed == nil || typed.Code() != CodeNotFound {
		t.Fatalf("expected typed not-found error, got %v", typed)
	}
}
