// Package field implements the closed set of value-shape checks applied to
// request fields.
package field

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/scoring/internal/domain/model"
)

// Kind identifies one of the field validators.
type Kind int

// Field kinds.
const (
	Char Kind = iota
	Arguments
	Email
	Phone
	Date
	BirthDay
	Gender
	ClientIDs
)

// DateLayout is the accepted date format (DD.MM.YYYY).
const DateLayout = "02.01.2006"

// MaxAgeYears bounds how far back a birthday may be.
const MaxAgeYears = 70

// Gender values.
const (
	GenderUnknown = 0
	GenderMale    = 1
	GenderFemale  = 2
)

var kindNames = [...]string{
	Char:      "char",
	Arguments: "arguments",
	Email:     "email",
	Phone:     "phone",
	Date:      "date",
	BirthDay:  "birthday",
	Gender:    "gender",
	ClientIDs: "client_ids",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Check runs the validator for kind against value. now anchors the birthday bound.
// A nil return means the value is valid.
func Check(name string, kind Kind, value any, now time.Time) error {
	reason := kind.reason(value, now)
	if reason == "" {
		return nil
	}
	return &Error{Field: name, Reason: reason}
}

func (k Kind) reason(value any, now time.Time) string {
	switch k {
	case Char:
		return checkChar(value)
	case Arguments:
		return checkArguments(value)
	case Email:
		return checkEmail(value)
	case Phone:
		return checkPhone(value)
	case Date:
		_, reason := parseDate(value, now.Location())
		return reason
	case BirthDay:
		return checkBirthDay(value, now)
	case Gender:
		return checkGender(value)
	case ClientIDs:
		return checkClientIDs(value)
	default:
		return "unknown field kind " + k.String()
	}
}

func checkChar(value any) string {
	if _, ok := value.(string); !ok {
		return "value must be string"
	}
	return ""
}

func checkArguments(value any) string {
	switch v := value.(type) {
	case *model.Object:
		if v != nil {
			return ""
		}
	case map[string]any:
		return ""
	}
	return "value must be a mapping"
}

func checkEmail(value any) string {
	s, ok := value.(string)
	if !ok {
		return "value must be string"
	}
	if !strings.Contains(s, "@") {
		return "value must contain @"
	}
	return ""
}

func checkPhone(value any) string {
	if IsEmpty(value) {
		return ""
	}
	var text string
	switch v := value.(type) {
	case string:
		text = v
	default:
		i, ok := AsInteger(v)
		if !ok {
			return "value must be string or integer"
		}
		if i == 0 {
			return ""
		}
		text = strconv.FormatInt(i, 10)
	}
	if len(text) != 11 {
		return "the length of value should be equal to 11"
	}
	if text[0] != '7' {
		return "first digit should be 7"
	}
	return ""
}

func parseDate(value any, loc *time.Location) (time.Time, string) {
	s, ok := value.(string)
	if !ok {
		return time.Time{}, "value must be string"
	}
	if s == "" {
		return time.Time{}, ""
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, "wrong date format, expected DD.MM.YYYY"
	}
	return t, ""
}

func checkBirthDay(value any, now time.Time) string {
	t, reason := parseDate(value, now.Location())
	if reason != "" || t.IsZero() {
		return reason
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	if t.Before(addYears(today, -MaxAgeYears)) {
		return "can't be earlier than 70 years ago"
	}
	if t.After(today) {
		return "can't be in the future"
	}
	return ""
}

// addYears shifts t by n years, clamping Feb 29 to Feb 28 in non-leap targets.
func addYears(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	target := y + n
	if m == time.February && d == 29 && !isLeap(target) {
		d = 28
	}
	return time.Date(target, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func isLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

func checkGender(value any) string {
	g, ok := AsInteger(value)
	if !ok {
		return "value must be integer"
	}
	if g < GenderUnknown || g > GenderFemale {
		return "value is out of correct set (0, 1, 2)"
	}
	return ""
}

func checkClientIDs(value any) string {
	switch ids := value.(type) {
	case []int:
		if len(ids) == 0 {
			return "list can not be empty"
		}
		return ""
	case []int64:
		if len(ids) == 0 {
			return "list can not be empty"
		}
		return ""
	case []any:
		if len(ids) == 0 {
			return "list can not be empty"
		}
		for _, id := range ids {
			if _, ok := AsInteger(id); !ok {
				return "ID must be int"
			}
		}
		return ""
	default:
		return "value must be a list"
	}
}

// AsInteger reports whether v is an integer value and returns it. Strings and
// booleans are never integers; floats count only when integral.
func AsInteger(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || n > math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

// IsEmpty reports whether v is null or an empty string, list or mapping.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []any:
		return len(x) == 0
	case []int:
		return len(x) == 0
	case []int64:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	case *model.Object:
		return x.Len() == 0
	}
	return false
}
