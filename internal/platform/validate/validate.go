// Package validate checks clinical form fields captured during obstetric
// admissions. Inputs are raw form strings; failures are coded errors whose
// metadata feeds the localized error catalog.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	apperrors "github.com/louisbranch/obstetriccare/internal/platform/errors"
)

const (
	MinAge = 12
	MaxAge = 60

	MinSystolic  = 60
	MaxSystolic  = 220
	MinDiastolic = 40
	MaxDiastolic = 140

	MinGlucose       = 0
	MaxGlucose       = 500
	MinNormalGlucose = 70
	MaxNormalGlucose = 150

	MinWeightKg = 30
	MaxWeightKg = 200

	MinGestationWeeks = 1
	MaxGestationWeeks = 42

	DefaultDescriptionMin = 5
	DefaultDescriptionMax = 500
)

var (
	mobileWithCountryCode = regexp.MustCompile(`^\+569\d{8}$`)
	mobileLocal           = regexp.MustCompile(`^9\d{8}$`)
	emailPattern          = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Age parses and checks a patient age in years.
func Age(s string) (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeAgeNotANumber, "age is not an integer", err)
	}
	if age < MinAge {
		return age, apperrors.WithMetadata(apperrors.CodeAgeBelowMinimum, "age below minimum", bounds(MinAge, MaxAge))
	}
	if age > MaxAge {
		return age, apperrors.WithMetadata(apperrors.CodeAgeAboveMaximum, "age above maximum", bounds(MinAge, MaxAge))
	}
	return age, nil
}

// Phone accepts Chilean mobile numbers as +569XXXXXXXX or 9XXXXXXXX,
// ignoring spaces.
func Phone(s string) error {
	cleaned := strings.ReplaceAll(s, " ", "")
	if mobileWithCountryCode.MatchString(cleaned) || mobileLocal.MatchString(cleaned) {
		return nil
	}
	return apperrors.New(apperrors.CodePhoneInvalidFormat, "phone does not match a chilean mobile format")
}

// NormalizePhone returns a valid phone in +56 form.
func NormalizePhone(s string) (string, bool) {
	if Phone(s) != nil {
		return "", false
	}
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(s)
	switch {
	case strings.HasPrefix(cleaned, "+56"):
		return cleaned, true
	case strings.HasPrefix(cleaned, "9"):
		return "+56" + cleaned, true
	default:
		return "", false
	}
}

// Email checks a basic address shape.
func Email(s string) error {
	if !emailPattern.MatchString(s) {
		return apperrors.New(apperrors.CodeEmailInvalid, "email does not match the expected format")
	}
	return nil
}

// BloodPressure checks systolic and diastolic readings in mmHg.
func BloodPressure(systolic, diastolic string) error {
	sys, err := strconv.Atoi(strings.TrimSpace(systolic))
	if err != nil {
		return apperrors.Wrap(apperrors.CodePressureNotANumber, "systolic pressure is not an integer", err)
	}
	dia, err := strconv.Atoi(strings.TrimSpace(diastolic))
	if err != nil {
		return apperrors.Wrap(apperrors.CodePressureNotANumber, "diastolic pressure is not an integer", err)
	}
	if sys < MinSystolic || sys > MaxSystolic {
		return apperrors.WithMetadata(apperrors.CodePressureSystolicOutOfRange, "systolic pressure out of range", bounds(MinSystolic, MaxSystolic))
	}
	if dia < MinDiastolic || dia > MaxDiastolic {
		return apperrors.WithMetadata(apperrors.CodePressureDiastolicOutOfRange, "diastolic pressure out of range", bounds(MinDiastolic, MaxDiastolic))
	}
	if dia >= sys {
		return apperrors.New(apperrors.CodePressureDiastolicNotBelowSystolic, "diastolic pressure must be below systolic")
	}
	return nil
}

// Glucose checks a blood glucose reading in mg/dL. warn is true for
// acceptable readings outside the normal band.
func Glucose(s string) (warn bool, err error) {
	value, parseErr := parseNumber(s)
	if parseErr != nil {
		return false, apperrors.Wrap(apperrors.CodeGlucoseNotANumber, "glucose is not a number", parseErr)
	}
	if value < MinGlucose || value > MaxGlucose {
		return false, apperrors.WithMetadata(apperrors.CodeGlucoseOutOfRange, "glucose out of range", bounds(MinGlucose, MaxGlucose))
	}
	return value < MinNormalGlucose || value > MaxNormalGlucose, nil
}

// Weight checks a body weight in kilograms.
func Weight(s string) error {
	value, err := parseNumber(s)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeWeightNotANumber, "weight is not a number", err)
	}
	if value < MinWeightKg || value > MaxWeightKg {
		return apperrors.WithMetadata(apperrors.CodeWeightOutOfRange, "weight out of range", bounds(MinWeightKg, MaxWeightKg))
	}
	return nil
}

// GestationWeeks checks a gestational age in whole weeks.
func GestationWeeks(s string) error {
	weeks, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return apperrors.Wrap(apperrors.CodeGestationWeeksNotANumber, "gestation weeks is not an integer", err)
	}
	if weeks < MinGestationWeeks || weeks > MaxGestationWeeks {
		return apperrors.WithMetadata(apperrors.CodeGestationWeeksOutOfRange, "gestation weeks out of range", bounds(MinGestationWeeks, MaxGestationWeeks))
	}
	return nil
}

// Range checks that s is a number within [min, max]. field names the input in
// the error metadata.
func Range(s string, min, max float64, field string) error {
	metadata := map[string]string{
		"Field": field,
		"Min":   formatFloat(min),
		"Max":   formatFloat(max),
	}
	value, err := parseNumber(s)
	if err != nil {
		return apperrors.WrapWithMetadata(apperrors.CodeRangeNotANumber, field+" is not a number", metadata, err)
	}
	if value < min || value > max {
		return apperrors.WithMetadata(apperrors.CodeRangeOutOfBounds, field+" out of range", metadata)
	}
	return nil
}

// Description checks free text length after trimming surrounding space.
func Description(s string, min, max int) error {
	if s == "" {
		return apperrors.New(apperrors.CodeDescriptionRequired, "description is required")
	}
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	if length < min {
		return apperrors.WithMetadata(apperrors.CodeDescriptionTooShort, "description too short", bounds(min, max))
	}
	if length > max {
		return apperrors.WithMetadata(apperrors.CodeDescriptionTooLong, "description too long", bounds(min, max))
	}
	return nil
}

// DefaultDescription applies Description with the default bounds.
func DefaultDescription(s string) error {
	return Description(s, DefaultDescriptionMin, DefaultDescriptionMax)
}

func bounds(min, max int) map[string]string {
	return map[string]string{
		"Min": strconv.Itoa(min),
		"Max": strconv.Itoa(max),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseNumber parses a finite decimal number.
func parseNumber(s string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("parse number %q: not finite", s)
	}
	return value, nil
}
