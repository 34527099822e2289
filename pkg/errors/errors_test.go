package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeTooLarge, status: http.StatusBadRequest, publicMsg: "video file is too large", detailsOK: true},
		{code: CodeUnsupportedType, status: http.StatusBadRequest, publicMsg: "unsupported video format", detailsOK: true},
		{code: CodeUnexpectedFile, status: http.StatusBadRequest, publicMsg: "exactly one video file is allowed", detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeStoreUnavailable, status: http.StatusInternalServerError, publicMsg: "failed to store your video", retryable: true, detailsOK: true},
		{code: CodeSinkUnavailable, status: http.StatusInternalServerError, publicMsg: "failed to save your submission", retryable: true, detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing founderName")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing founderName" {
		t.Fatalf("unexpected message %q", base.Message())
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeStoreUnavailable, cause, "upload video")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatal("expected wrapped error to unwrap to cause")
	}
	if got := As(wrapped); got == nil || got.Code() != CodeStoreUnavailable {
		t.Fatal("expected As to recover typed error")
	}

	if Wrap(CodeInternal, nil, "no cause").Unwrap() != nil {
		t.Fatal("wrapping nil should not retain a cause")
	}
}

func TestTipFallsBackToMetadata(t *testing.T) {
	err := New(CodeTooLarge, "video exceeds 100MB")
	if err.Tip() == "" {
		t.Fatal("expected per-code default tip")
	}

	err = err.WithTip("shrink it")
	if err.Tip() != "shrink it" {
		t.Fatalf("expected explicit tip to win, got %q", err.Tip())
	}

	if New(CodeNotFound, "nope").Tip() != "" {
		t.Fatal("not-found should not carry a tip")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("dial tcp: refused")
	err := Wrap(CodeSinkUnavailable, cause, "append row")

	d := Dump(err)
	if d.Code != CodeSinkUnavailable {
		t.Fatalf("unexpected code %s", d.Code)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d", len(d.Chain))
	}
}
