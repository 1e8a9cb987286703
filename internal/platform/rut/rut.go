// Package rut validates and formats Chilean RUT identifiers using the
// weighted modulo-11 check digit.
package rut

import (
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/obstetriccare/internal/platform/errors"
)

const (
	// formattedBodyLen is the body width after zero padding.
	formattedBodyLen = 8
	// minFormatLen is the shortest normalized input Format accepts.
	minFormatLen = 8
)

var (
	normalizedPattern = regexp.MustCompile(`^\d{7,8}[0-9K]$`)
	stripper          = strings.NewReplacer(".", "", "-", "")
	weights           = [...]int{2, 3, 4, 5, 6, 7}
)

// Normalize removes dots and hyphens and uppercases the result.
func Normalize(s string) string {
	return strings.ToUpper(stripper.Replace(s))
}

// CheckDigit computes the check digit for a numeric body.
func CheckDigit(body int) string {
	if body < 0 {
		body = -body
	}
	sum := 0
	for i := 0; body > 0; i++ {
		sum += (body % 10) * weights[i%len(weights)]
		body /= 10
	}
	switch r := 11 - sum%11; r {
	case 11:
		return "0"
	case 10:
		return "K"
	default:
		return strconv.Itoa(r)
	}
}

// Validate reports whether s is a well-formed RUT with a matching check digit.
func Validate(s string) bool {
	return Check(s) == nil
}

// Check is Validate with a reason: it returns nil, or an error coded
// RUT_INVALID_FORMAT or RUT_CHECK_DIGIT_MISMATCH.
func Check(s string) error {
	normalized := Normalize(s)
	if !normalizedPattern.MatchString(normalized) {
		return apperrors.New(apperrors.CodeRutInvalidFormat, "rut does not match the expected format")
	}

	split := len(normalized) - 1
	body, err := strconv.Atoi(normalized[:split])
	if err != nil {
		return apperrors.Wrap(apperrors.CodeRutInvalidFormat, "rut body is not numeric", err)
	}
	// Leading zeros are dropped here; they carry no weight in the sum.
	body, err = strconv.Atoi(strconv.Itoa(body))
	if err != nil {
		return apperrors.Wrap(apperrors.CodeRutInvalidFormat, "rut body is not numeric", err)
	}

	expected := CheckDigit(body)
	if normalized[split:] != expected {
		return apperrors.WithMetadata(apperrors.CodeRutCheckDigitMismatch, "rut check digit mismatch", map[string]string{
			"Expected": expected,
		})
	}
	return nil
}

// Format renders s as XX.XXX.XXX-C. It reports false when the normalized
// input has fewer than eight characters. The check digit is not validated and
// bodies longer than eight characters keep only their first eight.
func Format(s string) (string, bool) {
	runes := []rune(Normalize(s))
	if len(runes) < minFormatLen {
		return "", false
	}

	body := runes[:len(runes)-1]
	check := runes[len(runes)-1]

	padded := make([]rune, 0, formattedBodyLen)
	for i := len(body); i < formattedBodyLen; i++ {
		padded = append(padded, '0')
	}
	padded = append(padded, body...)
	padded = padded[:formattedBodyLen]

	var b strings.Builder
	b.WriteString(string(padded[0:2]))
	b.WriteByte('.')
	b.WriteString(string(padded[2:5]))
	b.WriteByte('.')
	b.WriteString(string(padded[5:8]))
	b.WriteByte('-')
	b.WriteRune(check)
	return b.String(), true
}
