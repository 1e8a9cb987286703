package server

import (
	errori18n "github.com/louisbranch/obstetriccare/internal/platform/errors/i18n"
	"github.com/louisbranch/obstetriccare/internal/platform/rut"
	"github.com/louisbranch/obstetriccare/internal/services/shared/i18nhttp"
)

// checkRut validates and formats input. Formatted is nil when the input is
// too short to format; it is set even for invalid check digits.
func checkRut(input string, lang i18nhttp.Language) rutResponse {
	resp := rutResponse{Rut: input}
	if formatted, ok := rut.Format(input); ok {
		resp.Formatted = &formatted
	}
	if err := rut.Check(input); err != nil {
		resp.Message = errori18n.Localize(lang.Locale(), err)
		return resp
	}
	resp.Valid = true
	resp.Message = lang.Printer.Sprintf("rut.valid")
	return resp
}
