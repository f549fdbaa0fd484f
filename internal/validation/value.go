package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Submission is the raw, decoded input of one validation pass.
type Submission map[string]interface{}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}

func isBlank(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	default:
		return false
	}
}

func isNumber(v interface{}) bool {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return true
	}
	return false
}

func asFloat(v interface{}) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int8:
		f = float64(val)
	case int16:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint8:
		f = float64(val)
	case uint16:
		f = float64(val)
	case uint32:
		f = float64(val)
	case uint64:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isInteger(v interface{}) bool {
	f, ok := asFloat(v)
	return ok && f == math.Trunc(f)
}

func isBoolean(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return true
	case string:
		switch val {
		case "0", "1", "true", "false":
			return true
		}
		return false
	}
	if isNumber(v) {
		f, _ := asFloat(v)
		return f == 0 || f == 1
	}
	return false
}

// asDate parses the value as a calendar date, discarding any time of day.
func asDate(v interface{}) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return truncateDate(val), true
	case string:
		raw := strings.TrimSpace(val)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return truncateDate(t), true
			}
		}
	}
	return time.Time{}, false
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func asList(v interface{}) ([]interface{}, bool) {
	switch val := v.(type) {
	case []interface{}:
		return val, true
	case nil, string:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	list := make([]interface{}, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}
	return list, true
}

func asRow(v interface{}) (Submission, bool) {
	switch val := v.(type) {
	case Submission:
		return val, true
	case map[string]interface{}:
		return Submission(val), true
	}
	return nil, false
}

// measure returns the size min/max rules compare against and its unit.
func measure(v interface{}) (float64, string, bool) {
	if isNumber(v) {
		f, ok := asFloat(v)
		return f, "", ok
	}
	if s, ok := v.(string); ok {
		return float64(utf8.RuneCountInString(s)), " characters", true
	}
	if list, ok := asList(v); ok {
		return float64(len(list)), " items", true
	}
	return 0, "", false
}

// Number reads v as a finite number, accepting numeric strings.
func Number(v interface{}) (float64, bool) {
	return asFloat(v)
}

// List reads v as a list of values.
func List(v interface{}) ([]interface{}, bool) {
	return asList(v)
}

// Row reads v as a nested object.
func Row(v interface{}) (Submission, bool) {
	return asRow(v)
}

// Canonical renders a scalar value the way lookups, caches and enum checks compare it.
func Canonical(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	case time.Time:
		return val.Format(time.RFC3339)
	}
	if isNumber(v) {
		f, _ := asFloat(v)
		return formatNumber(f)
	}
	return fmt.Sprint(v)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func label(path string) string {
	return strings.ReplaceAll(path, "_", " ")
}
