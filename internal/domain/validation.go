package domain

import (
	"regexp"
	"time"
	"unicode/utf8"
)

// Form field names, as used in request bodies and FieldErrors.
const (
	FieldUserName       = "userName"
	FieldPickupLocation = "pickupLocation"
	FieldPickupNumber   = "pickupNumber"
	FieldPickupDate     = "pickupDate"
	FieldPickupTimeSlot = "pickupTimeSlot"
)

// DateLayout is the ISO calendar date format used for pickup dates.
const DateLayout = "2006-01-02"

var phonePattern = regexp.MustCompile(`^([+]?[\s0-9]+)?(\d{3}|[(]?[0-9]+[)])?([-]?[\s]?[0-9])+$`)

// ClaimFormInput is raw, untrusted form input.
type ClaimFormInput struct {
	UserName       string `json:"userName"`
	PickupLocation string `json:"pickupLocation"`
	PickupNumber   string `json:"pickupNumber"`
	PickupDate     string `json:"pickupDate"`
	PickupTimeSlot string `json:"pickupTimeSlot"`
}

// ClaimForm is a validated, normalized claim payload.
type ClaimForm struct {
	UserName       string
	PickupLocation string
	PickupNumber   string
	PickupDate     string
	PickupTimeSlot TimeSlotID
}

// ValidateClaimForm checks every field of in and returns either the normalized
// form or the complete set of field errors. now supplies the local calendar day
// for the past-date check; only its date part is used.
func ValidateClaimForm(in ClaimFormInput, now time.Time) (ClaimForm, FieldErrors) {
	errs := FieldErrors{}

	switch n := utf8.RuneCountInString(in.UserName); {
	case n < 2:
		errs[FieldUserName] = "Name must be at least 2 characters"
	case n > 100:
		errs[FieldUserName] = "Name must be less than 100 characters"
	}

	if utf8.RuneCountInString(in.PickupLocation) < 3 {
		errs[FieldPickupLocation] = "Please enter a valid location"
	}

	switch {
	case utf8.RuneCountInString(in.PickupNumber) < 10:
		errs[FieldPickupNumber] = "Phone number must be at least 10 digits"
	case !phonePattern.MatchString(in.PickupNumber):
		errs[FieldPickupNumber] = "Invalid phone number format"
	}

	if msg := checkPickupDate(in.PickupDate, now); msg != "" {
		errs[FieldPickupDate] = msg
	}

	if in.PickupTimeSlot == "" {
		errs[FieldPickupTimeSlot] = "Please select a time slot"
	}

	if len(errs) > 0 {
		return ClaimForm{}, errs
	}

	return ClaimForm{
		UserName:       in.UserName,
		PickupLocation: in.PickupLocation,
		PickupNumber:   in.PickupNumber,
		PickupDate:     in.PickupDate,
		PickupTimeSlot: TimeSlotID(in.PickupTimeSlot),
	}, nil
}

func checkPickupDate(s string, now time.Time) string {
	loc := now.Location()
	date, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return "Invalid date"
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if date.Before(today) {
		return "Date cannot be in the past"
	}
	return ""
}
