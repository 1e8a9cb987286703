package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	apperrors "github.com/louisbranch/obstetriccare/internal/platform/errors"
)

// Value is a displayed stat value: either a number or a string.
// The zero Value is the number 0.
type Value struct {
	num    float64
	text   string
	isText bool
}

// Number returns a numeric value.
func Number(v float64) Value {
	return Value{num: v}
}

// Int returns a numeric value from an integer.
func Int(v int64) Value {
	return Value{num: float64(v)}
}

// Text returns a string value.
func Text(v string) Value {
	return Value{text: v, isText: true}
}

// IsText reports whether the value holds a string.
func (v Value) IsText() bool {
	return v.isText
}

// Float returns the numeric value and whether v is numeric.
func (v Value) Float() (float64, bool) {
	if v.isText {
		return 0, false
	}
	return v.num, true
}

// String renders the value for display. Numbers drop trailing zeros.
func (v Value) String() string {
	if v.isText {
		return v.text
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

// Equal reports whether both values hold the same kind and content.
func (v Value) Equal(other Value) bool {
	if v.isText != other.isText {
		return false
	}
	if v.isText {
		return v.text == other.text
	}
	return v.num == other.num
}

// MarshalJSON encodes numbers as JSON numbers and text as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isText {
		return json.Marshal(v.text)
	}
	if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
		return nil, fmt.Errorf("marshal stat value: %v is not finite", v.num)
	}
	return strconv.AppendFloat(nil, v.num, 'f', -1, 64), nil
}

// UnmarshalJSON accepts a JSON number or string.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return invalidValue(data)
	}
	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return apperrors.Wrap(apperrors.CodeDashboardInvalidValue, "stat value is not a valid string", err)
		}
		*v = Text(text)
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var num float64
		if err := json.Unmarshal(data, &num); err != nil {
			return apperrors.Wrap(apperrors.CodeDashboardInvalidValue, "stat value is not a valid number", err)
		}
		*v = Number(num)
		return nil
	default:
		return invalidValue(data)
	}
}

func invalidValue(data []byte) error {
	return apperrors.WithMetadata(apperrors.CodeDashboardInvalidValue, "stat value must be a number or a string", map[string]string{
		"Value": string(data),
	})
}
