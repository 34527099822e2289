package models

import "github.com/saipavansp/incubez-talent-stories/pkg/enums"

// ApplicationSequence stores the last allocated application-id counter per
// kind and year. Counters are advanced inside a transaction so concurrent
// submissions and process restarts can never reuse an id.
type ApplicationSequence struct {
	Kind    enums.SubmissionKind `gorm:"column:kind;primaryKey"`
	Year    int                  `gorm:"column:year;primaryKey"`
	Counter int64                `gorm:"column:counter;not null"`
}
