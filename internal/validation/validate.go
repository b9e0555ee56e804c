package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ReportFields are the resource counters carried by a report payload, in
// the order their validation messages are emitted.
var ReportFields = []string{"icu_beds_available", "ventilators_available", "staff_on_duty"}

// ValidateUserPayload checks a registration or user-creation payload and
// returns every applicable error message in order. An empty slice means the
// payload is valid.
func ValidateUserPayload(data map[string]any, requirePassword bool) []string {
	var errs []string

	email := SanitizeEmail(data["email"])
	switch {
	case email == "":
		errs = append(errs, "Email is required.")
	case !IsValidEmail(email):
		errs = append(errs, "Invalid email format.")
	case utf8.RuneCountInString(email) > 255:
		errs = append(errs, "Email is too long (max 255 characters).")
	}

	password, _ := data["password"].(string)
	if requirePassword && password == "" {
		errs = append(errs, "Password is required.")
	} else if password != "" {
		// Character counts, so multi-byte passwords are bounded the same
		// way the client sees them.
		if utf8.RuneCountInString(password) < 8 {
			errs = append(errs, "Password must be at least 8 characters.")
		} else if utf8.RuneCountInString(password) > 128 {
			errs = append(errs, "Password is too long (max 128 characters).")
		}
	}

	return errs
}

// ValidateReportPayload checks a resource report payload, distinguishing
// missing fields from out-of-range values.
func ValidateReportPayload(data map[string]any) []string {
	var errs []string

	if _, ok := SanitizeInteger(data["facility_id"], IntPtr(1), nil); !ok {
		if data["facility_id"] == nil {
			errs = append(errs, "facility_id is required.")
		} else {
			errs = append(errs, "facility_id must be a positive integer.")
		}
	}

	for _, field := range ReportFields {
		value, present := data[field]
		if !present || value == nil {
			errs = append(errs, fmt.Sprintf("%s is required.", field))
			continue
		}

		if _, ok := SanitizeInteger(value, IntPtr(0), IntPtr(10000)); !ok {
			if strings.TrimSpace(SanitizeString(value, 64)) == "" {
				errs = append(errs, fmt.Sprintf("%s is required.", field))
			} else {
				errs = append(errs, fmt.Sprintf("%s must be a non-negative integer (max 10000).", field))
			}
		}
	}

	return errs
}

// ValidateFacilityPayload checks a facility creation payload.
func ValidateFacilityPayload(data map[string]any) []string {
	var errs []string

	name := SanitizeString(data["name"], 150)
	if name == "" {
		errs = append(errs, "Facility name is required.")
	} else if utf8.RuneCountInString(name) < 2 {
		errs = append(errs, "Facility name must be at least 2 characters.")
	}

	if data["country"] != nil {
		if utf8.RuneCountInString(SanitizeString(data["country"], 1024)) > 120 {
			errs = append(errs, "Country name is too long (max 120 characters).")
		}
	}
	if data["city"] != nil {
		if utf8.RuneCountInString(SanitizeString(data["city"], 1024)) > 120 {
			errs = append(errs, "City name is too long (max 120 characters).")
		}
	}

	return errs
}
