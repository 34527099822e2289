package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/saipavansp/incubez-talent-stories/internal/ingest"
	"github.com/saipavansp/incubez-talent-stories/internal/submissions"
	"github.com/saipavansp/incubez-talent-stories/pkg/config"
	"github.com/saipavansp/incubez-talent-stories/pkg/db/models"
	"github.com/saipavansp/incubez-talent-stories/pkg/enums"
	pkgerrors "github.com/saipavansp/incubez-talent-stories/pkg/errors"
	"github.com/saipavansp/incubez-talent-stories/pkg/logger"
	"github.com/saipavansp/incubez-talent-stories/pkg/pagination"
	"github.com/saipavansp/incubez-talent-stories/pkg/storage/r2"
)

type stubService struct {
	founderForms []*submissions.FounderForm
	seekerForms  []*submissions.SeekerForm
	videos       []*ingest.BufferedVideo
	uploadKinds  []enums.SubmissionKind
	submitErr    error
	getSub       *models.Submission
	getErr       error
	listSubs     []models.Submission
	listTotal    int64
	updated      []string
}

func (s *stubService) SubmitFounder(_ context.Context, form *submissions.FounderForm, video *ingest.BufferedVideo) (*submissions.Result, error) {
	if s.submitErr != nil {
		if video != nil {
			video.Discard()
		}
		return nil, s.submitErr
	}
	s.founderForms = append(s.founderForms, form)
	s.videos = append(s.videos, video)
	if video != nil {
		video.Discard()
	}
	return &submissions.Result{ApplicationID: "INC-FND-2026-0001", VideoURL: "https://pub-a.r2.dev/v.mp4", Message: "Pitch submitted successfully."}, nil
}

func (s *stubService) SubmitSeeker(_ context.Context, form *submissions.SeekerForm, video *ingest.BufferedVideo) (*submissions.Result, error) {
	s.seekerForms = append(s.seekerForms, form)
	s.videos = append(s.videos, video)
	if video != nil {
		video.Discard()
	}
	return &submissions.Result{ApplicationID: "INC-SKR-2026-0001", Message: "Application submitted successfully."}, nil
}

func (s *stubService) UploadVideo(_ context.Context, kind enums.SubmissionKind, video *ingest.BufferedVideo) (*r2.StoredObject, error) {
	s.uploadKinds = append(s.uploadKinds, kind)
	video.Discard()
	return &r2.StoredObject{Key: "seekers/v.mp4", PublicURL: "https://pub-a.r2.dev/seekers/v.mp4"}, nil
}

func (s *stubService) Get(_ context.Context, kind enums.SubmissionKind, key string) (*models.Submission, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.getSub, nil
}

func (s *stubService) List(_ context.Context, kind enums.SubmissionKind, status enums.SubmissionStatus, params pagination.Params) ([]models.Submission, int64, error) {
	return s.listSubs, s.listTotal, nil
}

func (s *stubService) UpdateStatus(_ context.Context, kind enums.SubmissionKind, applicationID string, status enums.SubmissionStatus) error {
	s.updated = append(s.updated, applicationID+":"+status.String())
	return nil
}

func uploadCfg() config.UploadConfig {
	return config.UploadConfig{
		FounderMaxMB:      200,
		SeekerMaxMB:       100,
		AllowedMimeTypes:  []string{"video/mp4", "video/quicktime", "video/x-msvideo", "video/webm"},
		MaxFormFieldBytes: 1 << 20,
	}
}

func testCtrlLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type multipartBody struct {
	buf    bytes.Buffer
	writer *multipart.Writer
}

func newMultipartBody() *multipartBody {
	b := &multipartBody{}
	b.writer = multipart.NewWriter(&b.buf)
	return b
}

func (b *multipartBody) fields(kv map[string]string) *multipartBody {
	for k, v := range kv {
		b.writer.WriteField(k, v)
	}
	return b
}

func (b *multipartBody) video(payload []byte) *multipartBody {
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, ingest.VideoField, "pitch.mp4"))
	header.Set("Content-Type", "video/mp4")
	part, _ := b.writer.CreatePart(header)
	part.Write(payload)
	return b
}

func (b *multipartBody) request(t *testing.T, path string) *http.Request {
	t.Helper()
	if err := b.writer.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &b.buf)
	req.Header.Set("Content-Type", b.writer.FormDataContentType())
	return req
}

func validFounderFields() map[string]string {
	return map[string]string{
		"founderName":        "Jane Doe",
		"email":              "jane@startup.io",
		"phone":              "+919000000000",
		"startupName":        "Acme Labs",
		"domain":             "Fintech",
		"stage":              "Seed",
		"jobTitle":           "CTO",
		"roleType":           "Full-time",
		"experienceLevel":    "Senior",
		"locationPreference": "Remote",
		"compensationType":   "Equity + Salary",
		"amountPaid":         "999",
	}
}

func TestSubmitPitchHappyPath(t *testing.T) {
	dir := t.TempDir()
	reader, _ := ingest.New(dir)
	svc := &stubService{}
	handler := SubmitPitch(svc, reader, uploadCfg(), testCtrlLogger())

	req := newMultipartBody().fields(validFounderFields()).video([]byte("mp4 bytes")).request(t, "/api/founders/pitch")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["success"] != true {
		t.Error("success flag missing")
	}
	if body["applicationId"] != "INC-FND-2026-0001" {
		t.Errorf("applicationId = %v", body["applicationId"])
	}
	if body["videoDriveLink"] != "https://pub-a.r2.dev/v.mp4" {
		t.Errorf("videoDriveLink = %v", body["videoDriveLink"])
	}
	if _, ok := body["videoUrl"]; ok {
		t.Error("submission response must use videoDriveLink, not videoUrl")
	}
	if len(svc.founderForms) != 1 {
		t.Fatalf("service received %d forms", len(svc.founderForms))
	}
	if svc.founderForms[0].FounderName != "Jane Doe" {
		t.Errorf("founderName = %q", svc.founderForms[0].FounderName)
	}
	if svc.videos[0] == nil {
		t.Error("video should reach the service")
	}
}

func TestSubmitPitchValidationFailureDiscardsVideo(t *testing.T) {
	dir := t.TempDir()
	reader, _ := ingest.New(dir)
	svc := &stubService{}
	handler := SubmitPitch(svc, reader, uploadCfg(), testCtrlLogger())

	req := newMultipartBody().
		fields(map[string]string{"founderName": "Jane Doe"}).
		video([]byte("mp4 bytes")).
		request(t, "/api/founders/pitch")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("scratch dir has %d leftover files", len(entries))
	}
	if len(svc.founderForms) != 0 {
		t.Error("service should not run for invalid forms")
	}

	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["message"] != "validation failed" {
		t.Errorf("message = %v", body["message"])
	}
	if body["details"] == nil {
		t.Error("validation errors should carry field details")
	}
}

func TestSubmitApplicationParsesListFields(t *testing.T) {
	reader, _ := ingest.New(t.TempDir())
	svc := &stubService{}
	handler := SubmitApplication(svc, reader, uploadCfg(), testCtrlLogger())

	req := newMultipartBody().fields(map[string]string{
		"fullName":           "Raj K",
		"email":              "raj@example.com",
		"phone":              "+919111111111",
		"currentLocation":    "Hyderabad",
		"currentRole":        "Engineer",
		"yearsOfExperience":  "6",
		"keySkills":          "Go, Distributed Systems",
		"domainExpertise":    `["Fintech","AI/ML"]`,
		"locationPreference": "Remote",
		"availability":       "Immediate",
	}).request(t, "/api/seekers/application")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(svc.seekerForms) != 1 {
		t.Fatalf("service received %d forms", len(svc.seekerForms))
	}
	if got := svc.seekerForms[0].DomainExpertise; len(got) != 2 || got[0] != "Fintech" {
		t.Errorf("domainExpertise = %v", got)
	}
}

func TestUploadVideoRequiresFile(t *testing.T) {
	reader, _ := ingest.New(t.TempDir())
	handler := UploadVideo(&stubService{}, reader, uploadCfg(), enums.SubmissionKindSeeker, testCtrlLogger())

	req := newMultipartBody().fields(map[string]string{"noop": "1"}).request(t, "/api/seekers/upload-video")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["message"] != "no video file provided" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestUploadVideoReturnsURL(t *testing.T) {
	reader, _ := ingest.New(t.TempDir())
	svc := &stubService{}
	handler := UploadVideo(svc, reader, uploadCfg(), enums.SubmissionKindSeeker, testCtrlLogger())

	req := newMultipartBody().video([]byte("mp4 bytes")).request(t, "/api/seekers/upload-video")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["videoUrl"] != "https://pub-a.r2.dev/seekers/v.mp4" {
		t.Errorf("videoUrl = %v", body["videoUrl"])
	}
}

func TestGetSubmissionNotFound(t *testing.T) {
	svc := &stubService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "submission X not found")}
	handler := GetSubmission(svc, enums.SubmissionKindFounder, testCtrlLogger())

	r := chi.NewRouter()
	r.Get("/api/founders/pitch/{id}", handler)
	req := httptest.NewRequest(http.MethodGet, "/api/founders/pitch/INC-FND-2026-9999", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestListSubmissionsRejectsBadStatus(t *testing.T) {
	handler := ListSubmissions(&stubService{}, enums.SubmissionKindFounder, testCtrlLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/founders/pitches?status=bogus", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestListSubmissionsPaginates(t *testing.T) {
	svc := &stubService{listSubs: []models.Submission{{ApplicationID: "INC-FND-2026-0001"}}, listTotal: 11}
	handler := ListSubmissions(svc, enums.SubmissionKindFounder, testCtrlLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/founders/pitches?page=2&limit=5", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["total"] != float64(11) {
		t.Errorf("total = %v", body["total"])
	}
	if body["page"] != float64(2) {
		t.Errorf("page = %v", body["page"])
	}
	if body["totalPages"] != float64(3) {
		t.Errorf("totalPages = %v", body["totalPages"])
	}
}

func TestUpdateSubmissionStatus(t *testing.T) {
	svc := &stubService{}
	handler := UpdateSubmissionStatus(svc, enums.SubmissionKindSeeker, testCtrlLogger())

	r := chi.NewRouter()
	r.Patch("/api/admin/seekers/{applicationId}/status", handler)
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/seekers/INC-SKR-2026-0002/status",
		strings.NewReader(`{"status":"approved"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(svc.updated) != 1 || svc.updated[0] != "INC-SKR-2026-0002:approved" {
		t.Errorf("updates = %v", svc.updated)
	}

	req = httptest.NewRequest(http.MethodPatch, "/api/admin/seekers/INC-SKR-2026-0002/status",
		strings.NewReader(`{"status":"bogus"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
