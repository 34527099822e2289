// Package submissions orchestrates the pitch and application pipeline:
// allocate an application id, push the buffered video to the object
// store, append the spreadsheet row, persist the local record and fan
// out emails.
package submissions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saipavansp/incubez-talent-stories/internal/ingest"
	"github.com/saipavansp/incubez-talent-stories/internal/notify"
	"github.com/saipavansp/incubez-talent-stories/pkg/db/models"
	"github.com/saipavansp/incubez-talent-stories/pkg/enums"
	pkgerrors "github.com/saipavansp/incubez-talent-stories/pkg/errors"
	"github.com/saipavansp/incubez-talent-stories/pkg/logger"
	"github.com/saipavansp/incubez-talent-stories/pkg/metrics"
	"github.com/saipavansp/incubez-talent-stories/pkg/pagination"
	"github.com/saipavansp/incubez-talent-stories/pkg/storage/r2"
)

// ObjectStore uploads buffered videos and reports their public location.
type ObjectStore interface {
	Upload(ctx context.Context, localPath, key, mimeType string) (*r2.StoredObject, error)
}

// RecordSink appends submission rows and maintains their review status.
type RecordSink interface {
	Append(ctx context.Context, kind enums.SubmissionKind, cells []interface{}) (int64, error)
	UpdateStatus(ctx context.Context, kind enums.SubmissionKind, applicationID string, status enums.SubmissionStatus) error
}

// Notifier fans out post-submission emails.
type Notifier interface {
	Dispatch(ctx context.Context, sub notify.Submission)
}

// Options toggles the optional pipeline stages.
type Options struct {
	StoreEnabled bool
	SinkEnabled  bool
}

// Service runs the submission pipeline.
type Service struct {
	repo     *Repository
	store    ObjectStore
	sink     RecordSink
	notifier Notifier
	opts     Options
	logg     *logger.Logger
	metrics  *metrics.PipelineMetrics
	now      func() time.Time
}

func NewService(repo *Repository, store ObjectStore, sink RecordSink, notifier Notifier, opts Options, logg *logger.Logger, m *metrics.PipelineMetrics) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		sink:     sink,
		notifier: notifier,
		opts:     opts,
		logg:     logg,
		metrics:  m,
		now:      time.Now,
	}
}

// Result is returned to the client after a successful submission.
type Result struct {
	ApplicationID string `json:"applicationId"`
	VideoURL      string `json:"videoDriveLink,omitempty"`
	SheetRow      int64  `json:"sheetRow,omitempty"`
	Message       string `json:"message"`
}

type envelope struct {
	kind     enums.SubmissionKind
	name     string
	email    string
	phone    string
	linkedin string
	coupon   string
	amount   decimal.Decimal
	cells    func(applicationID, videoURL, videoKey string, at time.Time) []interface{}
	details  []notify.Detail
	fields   any
}

// SubmitFounder runs the pipeline for a validated founder pitch.
func (s *Service) SubmitFounder(ctx context.Context, form *FounderForm, video *ingest.BufferedVideo) (*Result, error) {
	return s.submit(ctx, envelope{
		kind:     enums.SubmissionKindFounder,
		name:     form.FounderName,
		email:    form.Email,
		phone:    form.Phone,
		linkedin: form.LinkedInURL,
		coupon:   form.CouponCode,
		amount:   form.Amount(),
		cells:    form.SheetCells,
		details:  form.NotifyDetails(),
		fields:   form,
	}, video, "Pitch submitted successfully.")
}

// SubmitSeeker runs the pipeline for a validated seeker application.
func (s *Service) SubmitSeeker(ctx context.Context, form *SeekerForm, video *ingest.BufferedVideo) (*Result, error) {
	return s.submit(ctx, envelope{
		kind:     enums.SubmissionKindSeeker,
		name:     form.FullName,
		email:    form.Email,
		phone:    form.Phone,
		linkedin: form.LinkedInURL,
		coupon:   form.CouponCode,
		amount:   form.Amount(),
		cells:    form.SheetCells,
		details:  form.NotifyDetails(),
		fields:   form,
	}, video, "Application submitted successfully.")
}

func (s *Service) submit(ctx context.Context, env envelope, video *ingest.BufferedVideo, message string) (*Result, error) {
	now := s.now()
	ctx = s.logg.WithSubmissionKind(ctx, env.kind.String())

	applicationID, err := s.repo.NextApplicationID(ctx, env.kind, now)
	if err != nil {
		video.Discard()
		s.metrics.ObserveSubmission(env.kind.String(), "failure")
		return nil, err
	}
	ctx = s.logg.WithApplicationID(ctx, applicationID)

	var videoURL, videoKey string
	if video != nil {
		if s.opts.StoreEnabled && s.store != nil {
			key := r2.ObjectKey(env.kind, env.name, applicationID)
			started := time.Now()
			stored, err := s.store.Upload(ctx, video.Path, key, video.MimeType)
			s.metrics.ObserveUpload(env.kind.String(), time.Since(started))
			if err != nil {
				s.metrics.ObserveSubmission(env.kind.String(), "failure")
				s.logg.Error(ctx, "uploading video to object store", err)
				return nil, err
			}
			videoURL = stored.PublicURL
			videoKey = stored.Key
			s.logg.Info(ctx, "video stored")
		} else {
			video.Discard()
			s.logg.Warn(ctx, "object store disabled, dropping buffered video")
		}
	}

	var sheetRow int64
	if s.opts.SinkEnabled && s.sink != nil {
		sheetRow, err = s.sink.Append(ctx, env.kind, env.cells(applicationID, videoURL, videoKey, now))
		if err != nil {
			s.metrics.ObserveSubmission(env.kind.String(), "failure")
			if videoKey != "" {
				// The video outlives the failed row; reviewers can
				// reconcile it via the application id in the key.
				s.logg.Error(ctx, "row append failed after video upload", err)
			}
			return nil, err
		}
	}

	if err := s.persist(ctx, env, applicationID, videoURL, videoKey, sheetRow); err != nil {
		// The spreadsheet row is the record of truth; a failed local
		// insert only degrades the read API.
		s.logg.Error(ctx, "persisting submission record", err)
	}

	if s.notifier != nil {
		s.notifier.Dispatch(ctx, notify.Submission{
			Kind:          env.kind,
			ApplicationID: applicationID,
			Name:          env.name,
			Email:         env.email,
			Phone:         env.phone,
			LinkedInURL:   env.linkedin,
			VideoURL:      videoURL,
			CouponCode:    env.coupon,
			AmountPaid:    env.amount.String(),
			Details:       env.details,
			SubmittedAt:   now,
		})
	}

	s.metrics.ObserveSubmission(env.kind.String(), "success")
	s.logg.Info(ctx, "submission complete")

	return &Result{
		ApplicationID: applicationID,
		VideoURL:      videoURL,
		SheetRow:      sheetRow,
		Message:       message,
	}, nil
}

func (s *Service) persist(ctx context.Context, env envelope, applicationID, videoURL, videoKey string, sheetRow int64) error {
	encoded, err := json.Marshal(env.fields)
	if err != nil {
		return fmt.Errorf("encoding form fields: %w", err)
	}

	sub := models.Submission{
		ApplicationID: applicationID,
		Kind:          env.kind,
		Fields:        string(encoded),
		CouponCode:    env.coupon,
		AmountPaid:    env.amount,
		Status:        enums.SubmissionStatusPending,
		SheetRow:      sheetRow,
	}
	if videoURL != "" {
		sub.VideoURL = &videoURL
		sub.VideoKey = &videoKey
	}
	return s.repo.Create(ctx, &sub)
}

// UploadVideo stores a standalone video and returns its public URL. Used
// by the two-step flow where the video goes up before the form.
func (s *Service) UploadVideo(ctx context.Context, kind enums.SubmissionKind, video *ingest.BufferedVideo) (*r2.StoredObject, error) {
	if video == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no video file provided")
	}
	if !s.opts.StoreEnabled || s.store == nil {
		video.Discard()
		return nil, pkgerrors.New(pkgerrors.CodeStoreUnavailable, "object store is disabled")
	}

	ctx = s.logg.WithSubmissionKind(ctx, kind.String())
	key := fmt.Sprintf("%s/%s_%d.mp4", kind.StoragePrefix(), r2.Slug(video.OriginalName), s.now().UnixMilli())

	started := time.Now()
	stored, err := s.store.Upload(ctx, video.Path, key, video.MimeType)
	s.metrics.ObserveUpload(kind.String(), time.Since(started))
	if err != nil {
		s.logg.Error(ctx, "uploading standalone video", err)
		return nil, err
	}

	s.logg.Info(ctx, "standalone video stored")
	return stored, nil
}

// Get returns a submission by record id or application id.
func (s *Service) Get(ctx context.Context, kind enums.SubmissionKind, key string) (*models.Submission, error) {
	return s.repo.GetByKey(ctx, kind, key)
}

// List returns a page of submissions for review.
func (s *Service) List(ctx context.Context, kind enums.SubmissionKind, status enums.SubmissionStatus, params pagination.Params) ([]models.Submission, int64, error) {
	return s.repo.List(ctx, kind, status, params.Normalize())
}

// UpdateStatus moves a submission through review in both the spreadsheet
// and the local record.
func (s *Service) UpdateStatus(ctx context.Context, kind enums.SubmissionKind, applicationID string, status enums.SubmissionStatus) error {
	ctx = s.logg.WithApplicationID(s.logg.WithSubmissionKind(ctx, kind.String()), applicationID)

	if s.opts.SinkEnabled && s.sink != nil {
		if err := s.sink.UpdateStatus(ctx, kind, applicationID, status); err != nil {
			return err
		}
	}
	if err := s.repo.UpdateStatus(ctx, kind, applicationID, status); err != nil {
		return err
	}

	s.logg.Info(ctx, "submission status updated")
	return nil
}
