package enums

import "fmt"

// SubmissionKind selects the form schema, storage prefix, sheet and price
// for a submission.
type SubmissionKind string

const (
	SubmissionKindFounder SubmissionKind = "founder"
	SubmissionKindSeeker  SubmissionKind = "seeker"
)

var validSubmissionKinds = []SubmissionKind{
	SubmissionKindFounder,
	SubmissionKindSeeker,
}

// String returns the literal string for the kind.
func (k SubmissionKind) String() string {
	return string(k)
}

// IsValid reports whether the kind is known.
func (k SubmissionKind) IsValid() bool {
	for _, candidate := range validSubmissionKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// IDToken returns the token embedded in application ids for the kind.
func (k SubmissionKind) IDToken() string {
	if k == SubmissionKindFounder {
		return "FND"
	}
	return "SKR"
}

// StoragePrefix returns the object-store folder for the kind.
func (k SubmissionKind) StoragePrefix() string {
	if k == SubmissionKindFounder {
		return "founders"
	}
	return "seekers"
}

// ParseSubmissionKind converts a string to a SubmissionKind.
func ParseSubmissionKind(value string) (SubmissionKind, error) {
	kind := SubmissionKind(value)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid submission kind %q", value)
	}
	return kind, nil
}
