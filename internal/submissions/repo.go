package submissions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saipavansp/incubez-talent-stories/pkg/db"
	"github.com/saipavansp/incubez-talent-stories/pkg/db/models"
	"github.com/saipavansp/incubez-talent-stories/pkg/enums"
	pkgerrors "github.com/saipavansp/incubez-talent-stories/pkg/errors"
	"github.com/saipavansp/incubez-talent-stories/pkg/pagination"
)

// Repository persists submissions and allocates application ids.
type Repository struct {
	client *db.Client
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

// Migrate creates or updates the backing tables.
func (r *Repository) Migrate() error {
	return r.client.DB().AutoMigrate(
		&models.Submission{},
		&models.ApplicationSequence{},
	)
}

// NextApplicationID allocates the next id for a kind and year inside a
// transaction. The counter survives restarts, so ids are never reissued
// even after a crash mid-submission.
func (r *Repository) NextApplicationID(ctx context.Context, kind enums.SubmissionKind, now time.Time) (string, error) {
	year := now.Year()
	var counter int64

	err := r.client.WithTx(ctx, func(tx *gorm.DB) error {
		result := tx.Model(&models.ApplicationSequence{}).
			Where("kind = ? AND year = ?", kind, year).
			UpdateColumn("counter", gorm.Expr("counter + 1"))
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			seq := models.ApplicationSequence{Kind: kind, Year: year, Counter: 1}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
			counter = 1
			return nil
		}

		var seq models.ApplicationSequence
		if err := tx.Where("kind = ? AND year = ?", kind, year).First(&seq).Error; err != nil {
			return err
		}
		counter = seq.Counter
		return nil
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocating application id")
	}

	return fmt.Sprintf("INC-%s-%d-%04d", kind.IDToken(), year, counter), nil
}

// Create inserts a submission record.
func (r *Repository) Create(ctx context.Context, sub *models.Submission) error {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	if err := r.client.DB().WithContext(ctx).Create(sub).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting submission")
	}
	return nil
}

// GetByKey looks a submission up by record id or application id, matching
// the route parameter semantics of the read API.
func (r *Repository) GetByKey(ctx context.Context, kind enums.SubmissionKind, key string) (*models.Submission, error) {
	query := r.client.DB().WithContext(ctx).Where("kind = ?", kind)
	if id, err := uuid.Parse(key); err == nil {
		query = query.Where("id = ? OR application_id = ?", id, key)
	} else {
		query = query.Where("application_id = ?", key)
	}

	var sub models.Submission
	if err := query.First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("submission %s not found", key))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fetching submission")
	}
	return &sub, nil
}

// List returns a page of submissions, newest first, optionally filtered
// by status.
func (r *Repository) List(ctx context.Context, kind enums.SubmissionKind, status enums.SubmissionStatus, params pagination.Params) ([]models.Submission, int64, error) {
	query := r.client.DB().WithContext(ctx).
		Model(&models.Submission{}).
		Where("kind = ?", kind)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting submissions")
	}

	var subs []models.Submission
	err := query.
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&subs).Error
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing submissions")
	}

	return subs, total, nil
}

// UpdateStatus changes the review status of a submission.
func (r *Repository) UpdateStatus(ctx context.Context, kind enums.SubmissionKind, applicationID string, status enums.SubmissionStatus) error {
	result := r.client.DB().WithContext(ctx).
		Model(&models.Submission{}).
		Where("kind = ? AND application_id = ?", kind, applicationID).
		Update("status", status)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, result.Error, "updating submission status")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("submission %s not found", applicationID))
	}
	return nil
}
