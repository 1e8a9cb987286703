// Package errors provides structured error handling with i18n support.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// RUT errors
	CodeRutInvalidFormat      Code = "RUT_INVALID_FORMAT"
	CodeRutCheckDigitMismatch Code = "RUT_CHECK_DIGIT_MISMATCH"
	CodeRutTooShortToFormat   Code = "RUT_TOO_SHORT_TO_FORMAT"
	CodeRutRequired           Code = "RUT_REQUIRED"

	// Patient field errors
	CodeAgeNotANumber                     Code = "AGE_NOT_A_NUMBER"
	CodeAgeBelowMinimum                   Code = "AGE_BELOW_MINIMUM"
	CodeAgeAboveMaximum                   Code = "AGE_ABOVE_MAXIMUM"
	CodePhoneInvalidFormat                Code = "PHONE_INVALID_FORMAT"
	CodeEmailInvalid                      Code = "EMAIL_INVALID"
	CodePressureNotANumber                Code = "PRESSURE_NOT_A_NUMBER"
	CodePressureSystolicOutOfRange        Code = "PRESSURE_SYSTOLIC_OUT_OF_RANGE"
	CodePressureDiastolicOutOfRange       Code = "PRESSURE_DIASTOLIC_OUT_OF_RANGE"
	CodePressureDiastolicNotBelowSystolic Code = "PRESSURE_DIASTOLIC_NOT_BELOW_SYSTOLIC"
	CodeGlucoseNotANumber                 Code = "GLUCOSE_NOT_A_NUMBER"
	CodeGlucoseOutOfRange                 Code = "GLUCOSE_OUT_OF_RANGE"
	CodeWeightNotANumber                  Code = "WEIGHT_NOT_A_NUMBER"
	CodeWeightOutOfRange                  Code = "WEIGHT_OUT_OF_RANGE"
	CodeGestationWeeksNotANumber          Code = "GESTATION_WEEKS_NOT_A_NUMBER"
	CodeGestationWeeksOutOfRange          Code = "GESTATION_WEEKS_OUT_OF_RANGE"
	CodeRangeNotANumber                   Code = "RANGE_NOT_A_NUMBER"
	CodeRangeOutOfBounds                  Code = "RANGE_OUT_OF_BOUNDS"
	CodeDescriptionRequired               Code = "DESCRIPTION_REQUIRED"
	CodeDescriptionTooShort               Code = "DESCRIPTION_TOO_SHORT"
	CodeDescriptionTooLong                Code = "DESCRIPTION_TOO_LONG"
	CodeValidationMalformedRequest        Code = "VALIDATION_MALFORMED_REQUEST"

	// Dashboard errors
	CodeDashboardRoleIDEmpty      Code = "DASHBOARD_ROLE_ID_EMPTY"
	CodeDashboardDuplicateRole    Code = "DASHBOARD_DUPLICATE_ROLE"
	CodeDashboardStatKeyEmpty     Code = "DASHBOARD_STAT_KEY_EMPTY"
	CodeDashboardDuplicateStatKey Code = "DASHBOARD_DUPLICATE_STAT_KEY"
	CodeDashboardInvalidValue     Code = "DASHBOARD_INVALID_VALUE"
	CodeDashboardMalformedUpdate  Code = "DASHBOARD_MALFORMED_UPDATE"

	// Generic errors
	CodeNotFound Code = "NOT_FOUND"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeRutInvalidFormat,
		CodeRutCheckDigitMismatch,
		CodeRutTooShortToFormat,
		CodeRutRequired,
		CodeAgeNotANumber,
		CodeAgeBelowMinimum,
		CodeAgeAboveMaximum,
		CodePhoneInvalidFormat,
		CodeEmailInvalid,
		CodePressureNotANumber,
		CodePressureSystolicOutOfRange,
		CodePressureDiastolicOutOfRange,
		CodePressureDiastolicNotBelowSystolic,
		CodeGlucoseNotANumber,
		CodeGlucoseOutOfRange,
		CodeWeightNotANumber,
		CodeWeightOutOfRange,
		CodeGestationWeeksNotANumber,
		CodeGestationWeeksOutOfRange,
		CodeRangeNotANumber,
		CodeRangeOutOfBounds,
		CodeDescriptionRequired,
		CodeDescriptionTooShort,
		CodeDescriptionTooLong,
		CodeValidationMalformedRequest,
		CodeDashboardInvalidValue,
		CodeDashboardMalformedUpdate:
		return http.StatusBadRequest

	// Configuration problems surface at startup, never from a request.
	case CodeDashboardRoleIDEmpty,
		CodeDashboardDuplicateRole,
		CodeDashboardStatKeyEmpty,
		CodeDashboardDuplicateStatKey:
		return http.StatusInternalServerError

	case CodeNotFound:
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}
