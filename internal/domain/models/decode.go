package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedRecord is returned when a stored entry is not a JSON object.
var ErrMalformedRecord = errors.New("malformed record")

// Quantity is a record count decoded leniently from the store: JSON numbers
// are truncated toward zero, numeric strings are parsed, anything else is 0.
// Fractional counts therefore lose their fraction, so a row's TotalSum can
// differ from the raw sum of the stored values.
type Quantity int

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	n, _ := parseQuantity(data)
	*q = Quantity(n)
	return nil
}

func parseQuantity(data []byte) (int, bool) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, false
	}

	switch v := raw.(type) {
	case nil:
		return 0, true
	case float64:
		return truncate(v)
	case string:
		str := strings.TrimSpace(v)
		if n, err := strconv.Atoi(str); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(str, 64); err == nil {
			return truncate(f)
		}
	}
	return 0, false
}

// truncate drops the fraction of v. Values outside the int range are not
// representable and map to 0.
func truncate(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v >= math.MaxInt || v < math.MinInt {
		return 0, false
	}
	return int(math.Trunc(v)), true
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseMillis(data []byte) (int64, bool) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, false
	}

	switch v := raw.(type) {
	case nil:
		return 0, true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v >= math.MaxInt64 || v < math.MinInt64 {
			return 0, false
		}
		return int64(v), true
	case string:
		str := strings.TrimSpace(v)
		if n, err := strconv.ParseInt(str, 10, 64); err == nil {
			return n, true
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, str); err == nil {
				return t.UnixMilli(), true
			}
		}
	}
	return 0, false
}

// parseText renders strings as-is and numbers or booleans as their literal
// text. Anything else is unreadable.
func parseText(data []byte) (string, bool) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", false
	}

	switch v := raw.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

// UnmarshalJSON decodes a stored record without failing on a single badly
// typed field. Such fields are zeroed and named in Unreadable. Only an entry
// that is not a JSON object is rejected, with ErrMalformedRecord.
func (r *InventoryRecord) UnmarshalJSON(data []byte) error {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return ErrMalformedRecord
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return ErrMalformedRecord
	}

	var decoded InventoryRecord
	text := func(name string, dst *string) {
		raw, ok := fields[name]
		if !ok {
			return
		}
		value, ok := parseText(raw)
		if !ok {
			decoded.Unreadable = append(decoded.Unreadable, name)
		}
		*dst = value
	}

	text("id", &decoded.ID)
	text("itemName", &decoded.ItemName)
	text("brand", &decoded.Brand)
	text("mainType", &decoded.MainType)
	text("subType", &decoded.SubType)
	text("mainCode", &decoded.MainCode)
	text("subCode", &decoded.SubCode)
	text("description", &decoded.Description)

	var status string
	text("status", &status)
	decoded.Status = StockStatus(status)

	if raw, ok := fields["count"]; ok {
		n, ok := parseQuantity(raw)
		if !ok {
			decoded.Unreadable = append(decoded.Unreadable, "count")
		}
		decoded.Count = Quantity(n)
	}

	if raw, ok := fields["createdAt"]; ok {
		millis, ok := parseMillis(raw)
		if !ok {
			decoded.Unreadable = append(decoded.Unreadable, "createdAt")
		}
		decoded.CreatedAt = millis
	}

	*r = decoded
	return nil
}
