package sheets

import (
	"context"
	"errors"
	"testing"

	"github.com/saipavansp/incubez-talent-stories/pkg/enums"
	pkgerrors "github.com/saipavansp/incubez-talent-stories/pkg/errors"
)

type stubValues struct {
	getValues   map[string][][]interface{}
	getErr      error
	appendRange string
	appendRows  [][]interface{}
	updateRange string
	updateRows  [][]interface{}
}

func (s *stubValues) Get(_ context.Context, _, readRange string) ([][]interface{}, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.getValues[readRange], nil
}

func (s *stubValues) Append(_ context.Context, _, writeRange string, rows [][]interface{}) error {
	s.appendRange = writeRange
	s.appendRows = rows
	return nil
}

func (s *stubValues) Update(_ context.Context, _, writeRange string, rows [][]interface{}) error {
	s.updateRange = writeRange
	s.updateRows = rows
	return nil
}

func newTestClient(api ValuesAPI) *Client {
	return NewClientWithAPI(api, "sheet-id", "Founders_Submissions", "Seekers_Applications")
}

func TestAppendNumbersRowsFromExistingCount(t *testing.T) {
	api := &stubValues{getValues: map[string][][]interface{}{
		"Founders_Submissions!A:A": {{"ID"}, {"1"}, {"2"}},
	}}
	client := newTestClient(api)

	rowNumber, err := client.Append(context.Background(), enums.SubmissionKindFounder,
		[]interface{}{"INC-FND-2026-0003", "Jane Doe"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if rowNumber != 4 {
		t.Errorf("row number = %d, want 4", rowNumber)
	}
	if api.appendRange != "Founders_Submissions!A:T" {
		t.Errorf("append range = %q", api.appendRange)
	}
	row := api.appendRows[0]
	if row[0] != int64(3) {
		t.Errorf("sequential id = %v, want 3", row[0])
	}
	if row[1] != "INC-FND-2026-0003" {
		t.Errorf("application id = %v", row[1])
	}
}

func TestAppendEmptySheetCountsHeaderRow(t *testing.T) {
	api := &stubValues{getValues: map[string][][]interface{}{}}
	client := newTestClient(api)

	rowNumber, err := client.Append(context.Background(), enums.SubmissionKindSeeker,
		[]interface{}{"INC-SKR-2026-0001"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if rowNumber != 2 {
		t.Errorf("row number = %d, want 2", rowNumber)
	}
	if api.appendRange != "Seekers_Applications!A:V" {
		t.Errorf("append range = %q", api.appendRange)
	}
}

func TestAppendWrapsSinkErrors(t *testing.T) {
	api := &stubValues{getErr: errors.New("quota exceeded")}
	client := newTestClient(api)

	_, err := client.Append(context.Background(), enums.SubmissionKindFounder, nil)
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeSinkUnavailable {
		t.Fatalf("err = %v, want sink unavailable", err)
	}
}

func TestUpdateStatusFindsRowByApplicationID(t *testing.T) {
	api := &stubValues{getValues: map[string][][]interface{}{
		"Seekers_Applications!B:B": {{"Application_ID"}, {"INC-SKR-2026-0001"}, {"INC-SKR-2026-0002"}},
	}}
	client := newTestClient(api)

	err := client.UpdateStatus(context.Background(), enums.SubmissionKindSeeker,
		"INC-SKR-2026-0002", enums.SubmissionStatusApproved)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}

	if api.updateRange != "Seekers_Applications!V3" {
		t.Errorf("update range = %q", api.updateRange)
	}
	if api.updateRows[0][0] != "Approved" {
		t.Errorf("status cell = %v", api.updateRows[0][0])
	}
}

func TestUpdateStatusUnknownApplication(t *testing.T) {
	api := &stubValues{getValues: map[string][][]interface{}{
		"Founders_Submissions!B:B": {{"Application_ID"}},
	}}
	client := newTestClient(api)

	err := client.UpdateStatus(context.Background(), enums.SubmissionKindFounder,
		"INC-FND-2026-0099", enums.SubmissionStatusRejected)
	var coded *pkgerrors.Error
	if !errors.As(err, &coded) || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestJSONCell(t *testing.T) {
	if got := JSONCell([]string{"Fintech", "AI/ML"}); got != `["Fintech","AI/ML"]` {
		t.Errorf("cell = %q", got)
	}
	if got := JSONCell(nil); got != "[]" {
		t.Errorf("nil cell = %q", got)
	}
}
