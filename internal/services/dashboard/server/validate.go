package server

import (
	errori18n "github.com/louisbranch/obstetriccare/internal/platform/errors/i18n"
	"github.com/louisbranch/obstetriccare/internal/platform/validate"
	"github.com/louisbranch/obstetriccare/internal/services/shared/i18nhttp"
)

// fieldsRequest is the JSON body accepted by the field validation endpoint.
// Absent fields are not checked.
type fieldsRequest struct {
	Age            *string `json:"age"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	Systolic       *string `json:"systolic"`
	Diastolic      *string `json:"diastolic"`
	Glucose        *string `json:"glucose"`
	Weight         *string `json:"weight"`
	GestationWeeks *string `json:"gestation_weeks"`
	Description    *string `json:"description"`
}

// fieldsResponse maps each rejected field to a localized message. Warnings
// flag accepted values that deserve attention.
type fieldsResponse struct {
	Valid    bool              `json:"valid"`
	Errors   map[string]string `json:"errors"`
	Warnings map[string]string `json:"warnings"`
	Phone    *string           `json:"phone,omitempty"`
}

// checkFields runs the clinical validators over every field present in req.
// Systolic and diastolic are checked together as blood_pressure.
func checkFields(req fieldsRequest, lang i18nhttp.Language) fieldsResponse {
	resp := fieldsResponse{Errors: map[string]string{}, Warnings: map[string]string{}}
	reject := func(field string, err error) {
		if err != nil {
			resp.Errors[field] = errori18n.Localize(lang.Locale(), err)
		}
	}

	if req.Age != nil {
		_, err := validate.Age(*req.Age)
		reject("age", err)
	}
	if req.Phone != nil {
		if normalized, ok := validate.NormalizePhone(*req.Phone); ok {
			resp.Phone = &normalized
		} else {
			reject("phone", validate.Phone(*req.Phone))
		}
	}
	if req.Email != nil {
		reject("email", validate.Email(*req.Email))
	}
	if req.Systolic != nil || req.Diastolic != nil {
		reject("blood_pressure", validate.BloodPressure(deref(req.Systolic), deref(req.Diastolic)))
	}
	if req.Glucose != nil {
		warn, err := validate.Glucose(*req.Glucose)
		reject("glucose", err)
		if warn {
			resp.Warnings["glucose"] = lang.Printer.Sprintf("validate.glucose_outside_normal",
				validate.MinNormalGlucose, validate.MaxNormalGlucose)
		}
	}
	if req.Weight != nil {
		reject("weight", validate.Weight(*req.Weight))
	}
	if req.GestationWeeks != nil {
		reject("gestation_weeks", validate.GestationWeeks(*req.GestationWeeks))
	}
	if req.Description != nil {
		reject("description", validate.DefaultDescription(*req.Description))
	}

	resp.Valid = len(resp.Errors) == 0
	return resp
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
