package enums

import "fmt"

// SubmissionStatus tracks review progress for a submission.
type SubmissionStatus string

const (
	SubmissionStatusPending     SubmissionStatus = "pending"
	SubmissionStatusUnderReview SubmissionStatus = "under_review"
	SubmissionStatusApproved    SubmissionStatus = "approved"
	SubmissionStatusRejected    SubmissionStatus = "rejected"
)

var validSubmissionStatuses = []SubmissionStatus{
	SubmissionStatusPending,
	SubmissionStatusUnderReview,
	SubmissionStatusApproved,
	SubmissionStatusRejected,
}

func (s SubmissionStatus) String() string {
	return string(s)
}

func (s SubmissionStatus) IsValid() bool {
	for _, candidate := range validSubmissionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// SheetLabel returns the human-facing label used in the spreadsheet
// status column.
func (s SubmissionStatus) SheetLabel() string {
	switch s {
	case SubmissionStatusPending:
		return "Pending"
	case SubmissionStatusUnderReview:
		return "Under Review"
	case SubmissionStatusApproved:
		return "Approved"
	case SubmissionStatusRejected:
		return "Rejected"
	}
	return string(s)
}

// ParseSubmissionStatus converts a string to a SubmissionStatus.
func ParseSubmissionStatus(value string) (SubmissionStatus, error) {
	status := SubmissionStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid submission status %q", value)
	}
	return status, nil
}
