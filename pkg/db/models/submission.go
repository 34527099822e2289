package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saipavansp/incubez-talent-stories/pkg/enums"
)

// Submission is the local record of one pitch or application. The
// spreadsheet row remains the system of record for reviewers; this table
// backs the read API and the durable application-id sequence.
type Submission struct {
	ID            uuid.UUID              `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ApplicationID string                 `gorm:"column:application_id;not null;uniqueIndex" json:"applicationId"`
	Kind          enums.SubmissionKind   `gorm:"column:kind;not null;index" json:"kind"`
	Fields        string                 `gorm:"column:fields;not null" json:"-"`
	VideoURL      *string                `gorm:"column:video_url" json:"videoUrl"`
	VideoKey      *string                `gorm:"column:video_key" json:"-"`
	CouponCode    string                 `gorm:"column:coupon_code" json:"couponCode"`
	AmountPaid    decimal.Decimal        `gorm:"column:amount_paid;type:numeric" json:"amountPaid"`
	Status        enums.SubmissionStatus `gorm:"column:status;not null;index;default:pending" json:"status"`
	SheetRow      int64                  `gorm:"column:sheet_row" json:"-"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time              `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}
