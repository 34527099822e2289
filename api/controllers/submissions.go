package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saipavansp/incubez-talent-stories/api/responses"
	"github.com/saipavansp/incubez-talent-stories/api/validators"
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

// SubmissionService is the pipeline surface the controllers depend on.
type SubmissionService interface {
	SubmitFounder(ctx context.Context, form *submissions.FounderForm, video *ingest.BufferedVideo) (*submissions.Result, error)
	SubmitSeeker(ctx context.Context, form *submissions.SeekerForm, video *ingest.BufferedVideo) (*submissions.Result, error)
	UploadVideo(ctx context.Context, kind enums.SubmissionKind, video *ingest.BufferedVideo) (*r2.StoredObject, error)
	Get(ctx context.Context, kind enums.SubmissionKind, key string) (*models.Submission, error)
	List(ctx context.Context, kind enums.SubmissionKind, status enums.SubmissionStatus, params pagination.Params) ([]models.Submission, int64, error)
	UpdateStatus(ctx context.Context, kind enums.SubmissionKind, applicationID string, status enums.SubmissionStatus) error
}

func limitsFor(kind enums.SubmissionKind, cfg config.UploadConfig) ingest.Limits {
	maxBytes := cfg.SeekerMaxBytes()
	if kind == enums.SubmissionKindFounder {
		maxBytes = cfg.FounderMaxBytes()
	}
	return ingest.Limits{
		MaxVideoBytes:    maxBytes,
		MaxFieldBytes:    cfg.MaxFormFieldBytes,
		AllowedMimeTypes: cfg.AllowedMimeTypes,
	}
}

// SubmitPitch accepts a founder's multipart pitch form.
func SubmitPitch(svc SubmissionService, reader *ingest.Reader, cfg config.UploadConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := reader.Read(r, limitsFor(enums.SubmissionKindFounder, cfg))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		parsed := parseFounder(form)
		if parsed.err != nil {
			form.Video.Discard()
			responses.WriteError(r.Context(), logg, w, parsed.err)
			return
		}

		result, err := svc.SubmitFounder(r.Context(), parsed.founder, form.Video)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"applicationId":  result.ApplicationID,
			"videoDriveLink": result.VideoURL,
			"message":        result.Message,
		})
	}
}

// SubmitApplication accepts a seeker's multipart application form.
func SubmitApplication(svc SubmissionService, reader *ingest.Reader, cfg config.UploadConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := reader.Read(r, limitsFor(enums.SubmissionKindSeeker, cfg))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		parsed := parseSeeker(form)
		if parsed.err != nil {
			form.Video.Discard()
			responses.WriteError(r.Context(), logg, w, parsed.err)
			return
		}

		result, err := svc.SubmitSeeker(r.Context(), parsed.seeker, form.Video)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"applicationId":  result.ApplicationID,
			"videoDriveLink": result.VideoURL,
			"message":        result.Message,
		})
	}
}

type parsedFounder struct {
	founder *submissions.FounderForm
	err     error
}

type parsedSeeker struct {
	seeker *submissions.SeekerForm
	err    error
}

func parseFounder(form *ingest.Form) parsedFounder {
	founder := submissions.ParseFounderForm(form.Fields)
	if err := validators.Struct(founder); err != nil {
		return parsedFounder{err: err}
	}
	return parsedFounder{founder: founder}
}

func parseSeeker(form *ingest.Form) parsedSeeker {
	seeker := submissions.ParseSeekerForm(form.Fields)
	if err := validators.Struct(seeker); err != nil {
		return parsedSeeker{err: err}
	}
	return parsedSeeker{seeker: seeker}
}

// UploadVideo stores a standalone video ahead of the form submission.
func UploadVideo(svc SubmissionService, reader *ingest.Reader, cfg config.UploadConfig, kind enums.SubmissionKind, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := reader.Read(r, limitsFor(kind, cfg))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if form.Video == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "no video file provided"))
			return
		}

		stored, err := svc.UploadVideo(r.Context(), kind, form.Video)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"videoUrl": stored.PublicURL,
			"message":  "Video uploaded successfully",
		})
	}
}

// GetSubmission looks a submission up by record id or application id.
func GetSubmission(svc SubmissionService, kind enums.SubmissionKind, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "id")
		sub, err := svc.Get(r.Context(), kind, key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"data": sub})
	}
}

// ListSubmissions returns a page of submissions, optionally filtered by
// review status.
func ListSubmissions(svc SubmissionService, kind enums.SubmissionKind, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status enums.SubmissionStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			parsed, err := enums.ParseSubmissionStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			status = parsed
		}

		params := pagination.FromQuery(r.URL.Query()).Normalize()
		subs, total, err := svc.List(r.Context(), kind, status, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"data":       subs,
			"total":      total,
			"page":       params.Page,
			"totalPages": pagination.TotalPages(total, params.Limit),
		})
	}
}

type statusUpdateBody struct {
	Status string `json:"status" validate:"required"`
}

// UpdateSubmissionStatus moves a submission through review; used by the
// admin surface.
func UpdateSubmissionStatus(svc SubmissionService, kind enums.SubmissionKind, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body statusUpdateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseSubmissionStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		applicationID := chi.URLParam(r, "applicationId")
		if err := svc.UpdateStatus(r.Context(), kind, applicationID, status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"applicationId": applicationID,
			"status":        status,
			"message":       "Status updated successfully",
		})
	}
}
