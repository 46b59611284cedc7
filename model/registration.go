package model

import (
	"strings"
	"time"
)

// TimestampLayout matches the en-US locale string the sheet has always used.
const TimestampLayout = "1/2/2006, 3:04:05 PM"

type RegistrationRecord struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	NationalID  string `json:"nationalId"`
	Email       string `json:"email"`
	Gender      string `json:"gender"`
	Course      string `json:"course"`
	Timestamp   string `json:"timestamp"`
}

// RegistrationParams is the form as submitted, before validation.
type RegistrationParams struct {
	Name        string
	PhoneNumber string
	NationalID  string
	Email       string
	Gender      string
	Course      string
}

// Missing returns the names of required fields that are blank, in a fixed order.
func (p RegistrationParams) Missing() []string {
	var missing []string
	required := []struct {
		field string
		value string
	}{
		{"name", p.Name},
		{"email", p.Email},
		{"nationalId", p.NationalID},
		{"phoneNumber", p.PhoneNumber},
		{"course", p.Course},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.field)
		}
	}
	return missing
}

// Record validates the params and stamps them with now.
func (p RegistrationParams) Record(now time.Time) (RegistrationRecord, error) {
	if missing := p.Missing(); len(missing) > 0 {
		return RegistrationRecord{}, &MissingFieldsError{Fields: missing}
	}
	return RegistrationRecord{
		Name:        strings.TrimSpace(p.Name),
		PhoneNumber: strings.TrimSpace(p.PhoneNumber),
		NationalID:  strings.TrimSpace(p.NationalID),
		Email:       strings.TrimSpace(p.Email),
		Gender:      strings.TrimSpace(p.Gender),
		Course:      strings.TrimSpace(p.Course),
		Timestamp:   now.Format(TimestampLayout),
	}, nil
}
