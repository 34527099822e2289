package submissions

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saipavansp/incubez-talent-stories/internal/notify"
	"github.com/saipavansp/incubez-talent-stories/pkg/sheets"
)

// FounderForm is a founder pitch as submitted through the multipart form.
type FounderForm struct {
	FounderName        string `json:"founderName" validate:"required,min=2,max=120"`
	Email              string `json:"email" validate:"required,email"`
	Phone              string `json:"phone" validate:"required,min=7,max=20"`
	LinkedInURL        string `json:"linkedinUrl" validate:"omitempty,url"`
	StartupName        string `json:"startupName" validate:"required,max=120"`
	Domain             string `json:"domain" validate:"required,max=120"`
	Stage              string `json:"stage" validate:"required,max=60"`
	JobTitle           string `json:"jobTitle" validate:"required,max=120"`
	RoleType           string `json:"roleType" validate:"required,max=60"`
	ExperienceLevel    string `json:"experienceLevel" validate:"required,max=60"`
	LocationPreference string `json:"locationPreference" validate:"required,max=120"`
	CompensationType   string `json:"compensationType" validate:"required,max=60"`
	CouponCode         string `json:"couponCode" validate:"omitempty,max=40"`
	AmountPaid         string `json:"amountPaid" validate:"omitempty"`
}

// SeekerForm is a seeker application as submitted through the multipart
// form. Multi-select answers arrive either as repeated fields or as a
// JSON-encoded array in a single field.
type SeekerForm struct {
	FullName              string   `json:"fullName" validate:"required,min=2,max=120"`
	Email                 string   `json:"email" validate:"required,email"`
	Phone                 string   `json:"phone" validate:"required,min=7,max=20"`
	LinkedInURL           string   `json:"linkedinUrl" validate:"omitempty,url"`
	CurrentLocation       string   `json:"currentLocation" validate:"required,max=120"`
	CurrentRole           string   `json:"currentRole" validate:"required,max=120"`
	YearsOfExperience     string   `json:"yearsOfExperience" validate:"required,max=20"`
	KeySkills             string   `json:"keySkills" validate:"required,max=500"`
	DomainExpertise       []string `json:"domainExpertise" validate:"omitempty,dive,max=120"`
	PreferredRoleType     []string `json:"preferredRoleType" validate:"omitempty,dive,max=60"`
	PreferredStartupStage []string `json:"preferredStartupStage" validate:"omitempty,dive,max=60"`
	IndustryPreferences   []string `json:"industryPreferences" validate:"omitempty,dive,max=120"`
	LocationPreference    string   `json:"locationPreference" validate:"required,max=120"`
	Availability          string   `json:"availability" validate:"required,max=60"`
	CouponCode            string   `json:"couponCode" validate:"omitempty,max=40"`
	AmountPaid            string   `json:"amountPaid" validate:"omitempty"`
}

// ParseFounderForm maps multipart field values onto a FounderForm.
func ParseFounderForm(values url.Values) *FounderForm {
	return &FounderForm{
		FounderName:        field(values, "founderName"),
		Email:              field(values, "email"),
		Phone:              field(values, "phone"),
		LinkedInURL:        field(values, "linkedinUrl"),
		StartupName:        field(values, "startupName"),
		Domain:             field(values, "domain"),
		Stage:              field(values, "stage"),
		JobTitle:           field(values, "jobTitle"),
		RoleType:           field(values, "roleType"),
		ExperienceLevel:    field(values, "experienceLevel"),
		LocationPreference: field(values, "locationPreference"),
		CompensationType:   field(values, "compensationType"),
		CouponCode:         field(values, "couponCode"),
		AmountPaid:         field(values, "amountPaid"),
	}
}

// ParseSeekerForm maps multipart field values onto a SeekerForm.
func ParseSeekerForm(values url.Values) *SeekerForm {
	return &SeekerForm{
		FullName:              field(values, "fullName"),
		Email:                 field(values, "email"),
		Phone:                 field(values, "phone"),
		LinkedInURL:           field(values, "linkedinUrl"),
		CurrentLocation:       field(values, "currentLocation"),
		CurrentRole:           field(values, "currentRole"),
		YearsOfExperience:     field(values, "yearsOfExperience"),
		KeySkills:             field(values, "keySkills"),
		DomainExpertise:       listField(values, "domainExpertise"),
		PreferredRoleType:     listField(values, "preferredRoleType"),
		PreferredStartupStage: listField(values, "preferredStartupStage"),
		IndustryPreferences:   listField(values, "industryPreferences"),
		LocationPreference:    field(values, "locationPreference"),
		Availability:          field(values, "availability"),
		CouponCode:            field(values, "couponCode"),
		AmountPaid:            field(values, "amountPaid"),
	}
}

func field(values url.Values, name string) string {
	return strings.TrimSpace(values.Get(name))
}

// listField accepts repeated form fields, a JSON array in a single field,
// or a comma-separated string, in that order of preference.
func listField(values url.Values, name string) []string {
	raw, ok := values[name]
	if !ok || len(raw) == 0 {
		return nil
	}
	if len(raw) > 1 {
		return trimAll(raw)
	}

	single := strings.TrimSpace(raw[0])
	if single == "" {
		return nil
	}
	if strings.HasPrefix(single, "[") {
		var parsed []string
		if err := json.Unmarshal([]byte(single), &parsed); err == nil {
			return trimAll(parsed)
		}
	}
	return trimAll(strings.Split(single, ","))
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Amount parses the paid amount, defaulting to zero for free submissions.
func (f *FounderForm) Amount() decimal.Decimal {
	return parseAmount(f.AmountPaid)
}

// Amount parses the paid amount, defaulting to zero for free submissions.
func (f *SeekerForm) Amount() decimal.Decimal {
	return parseAmount(f.AmountPaid)
}

func parseAmount(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// SheetCells lays out the founder row after the sequential id column:
// columns B through T of the founder sheet.
func (f *FounderForm) SheetCells(applicationID, videoURL, videoKey string, submittedAt time.Time) []interface{} {
	return []interface{}{
		applicationID,
		f.FounderName,
		f.Email,
		f.Phone,
		f.LinkedInURL,
		f.StartupName,
		f.Domain,
		f.Stage,
		f.JobTitle,
		f.RoleType,
		f.ExperienceLevel,
		f.LocationPreference,
		f.CompensationType,
		videoURL,
		videoKey,
		submittedAt.UTC().Format(time.RFC3339),
		f.CouponCode,
		f.Amount().String(),
		"Pending",
	}
}

// SheetCells lays out the seeker row after the sequential id column:
// columns B through V of the seeker sheet.
func (f *SeekerForm) SheetCells(applicationID, videoURL, videoKey string, submittedAt time.Time) []interface{} {
	return []interface{}{
		applicationID,
		f.FullName,
		f.Email,
		f.Phone,
		f.LinkedInURL,
		f.CurrentLocation,
		f.CurrentRole,
		f.YearsOfExperience,
		f.KeySkills,
		sheets.JSONCell(f.DomainExpertise),
		sheets.JSONCell(f.PreferredRoleType),
		sheets.JSONCell(f.PreferredStartupStage),
		sheets.JSONCell(f.IndustryPreferences),
		f.LocationPreference,
		f.Availability,
		videoURL,
		videoKey,
		submittedAt.UTC().Format(time.RFC3339),
		f.CouponCode,
		f.Amount().String(),
		"Pending",
	}
}

// NotifyDetails builds the labelled lines of the admin notification.
func (f *FounderForm) NotifyDetails() []notify.Detail {
	return []notify.Detail{
		{Label: "Startup", Value: f.StartupName},
		{Label: "Domain", Value: f.Domain},
		{Label: "Stage", Value: f.Stage},
		{Label: "Position", Value: f.JobTitle},
		{Label: "Role Type", Value: f.RoleType},
	}
}

// NotifyDetails builds the labelled lines of the admin notification.
func (f *SeekerForm) NotifyDetails() []notify.Detail {
	return []notify.Detail{
		{Label: "Current Role", Value: f.CurrentRole},
		{Label: "Experience", Value: f.YearsOfExperience + " years"},
		{Label: "Key Skills", Value: f.KeySkills},
		{Label: "Looking For", Value: sheets.JSONCell(f.PreferredRoleType)},
	}
}
