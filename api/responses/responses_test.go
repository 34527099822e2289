package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/saipavansp/incubez-talent-stories/pkg/errors"
)

func TestWriteSuccessFlattensPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]any{"applicationId": "INC-FND-2026-0001", "message": "ok"})

	if rec.Code != 200 {
		t.Errorf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["success"] != true {
		t.Error("success flag missing")
	}
	if body["applicationId"] != "INC-FND-2026-0001" {
		t.Errorf("applicationId = %v", body["applicationId"])
	}
}

func TestWriteErrorCodedError(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeTooLarge, "video exceeds the 100MB limit").
		WithDetails(map[string]string{"limit": "100MB"})
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != 400 {
		t.Errorf("status = %d", rec.Code)
	}
	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Success {
		t.Error("success should be false")
	}
	if body.Message != "video exceeds the 100MB limit" {
		t.Errorf("message = %q", body.Message)
	}
	if body.Tip == "" {
		t.Error("oversized uploads should carry a compression tip")
	}
	if body.Details == nil {
		t.Error("details should pass through")
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, errors.New("pq: connection refused"))

	if rec.Code != 500 {
		t.Errorf("status = %d", rec.Code)
	}
	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Message != "internal server error" {
		t.Errorf("message = %q leaks internals", body.Message)
	}
	if body.Details != nil {
		t.Error("internal errors must not expose details")
	}
}

func TestWriteErrorUsesPublicMessageForDependency(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.Wrap(pkgerrors.CodeSinkUnavailable, errors.New("googleapi 500"), "append row")
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != 500 {
		t.Errorf("status = %d", rec.Code)
	}
	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Message != "failed to save your submission" {
		t.Errorf("message = %q", body.Message)
	}
}
