package app

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

/********** alias registries (single source of truth) **********/

// Paths are tried in order; the first usable value wins.
var customerAliases = map[string][]string{
	"fullName": {"user.fullName", "fullName"},
	"email":    {"user.email", "email"},
	"phone":    {"user.phone", "phone"},
	"country":  {"user.country", "country"},
	"message":  {"user.message", "message"},
}

var stayAliases = map[string][]string{
	"checkIn":    {"booking_data.checkIn", "checkIn"},
	"checkOut":   {"booking_data.checkOut", "checkOut"},
	"adultCount": {"booking_data.adultCount", "adultCount"},
	"childCount": {"booking_data.childCount", "childCount"},
	"nights":     {"booking_data.nights", "nights"},
	"total":      {"booking_data.totalPrice", "booking_data.totalAmount", "totalPrice", "totalAmount"},
	"currency":   {"booking_data.currency", "currency"},
}

var mailboxAliases = map[string][]string{
	"booking": {"booking_data.hotelEmail", "hotelEmail", "booking_data.hotelMail", "hotelMail"},
	"contact": {"hotelEmail", "hotelMail"},
	"hotelId": {"booking_data.hotelId", "hotelId", "booking_data.hotel_id", "hotel_id"},
}

var roomAliases = map[string][]string{
	"name":          {"name", "roomName", "type", "roomType"},
	"quantity":      {"quantity", "roomCount"},
	"pricePerNight": {"pricePerNight", "price"},
	"nights":        {"nights"},
	"currency":      {"currency", "currencyCode"},
}

// flat scalar room fields on the top level of a booking submission
var flatRoomAliases = map[string][]string{
	"name":          {"roomName", "roomType"},
	"quantity":      {"roomCount"},
	"pricePerNight": {"pricePerNight"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// scalarString renders strings, numbers and booleans as text; anything else is "".
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// firstNonEmpty returns the first path whose value renders to non-empty text.
func firstNonEmpty(m map[string]any, paths ...string) string {
	for _, p := range paths {
		if s := scalarString(lookupAny(m, p)); s != "" {
			return s
		}
	}
	return ""
}

// firstPresent returns the first value that is neither missing, null nor blank.
// Coercion is left to the caller so a present-but-garbled value still shadows
// later aliases.
func firstPresent(m map[string]any, paths ...string) any {
	for _, p := range paths {
		switch v := lookupAny(m, p).(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(v) == "" {
				continue
			}
			return v
		default:
			return v
		}
	}
	return nil
}

// truthy reports whether v would count as set in a loosely typed form:
// non-blank text, non-zero numbers, true.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case bool:
		return t
	}
	if f, ok := toFloat(v); ok {
		return f != 0
	}
	return true
}

func firstObject(m map[string]any, paths ...string) (map[string]any, bool) {
	for _, p := range paths {
		if obj, ok := lookupAny(m, p).(map[string]any); ok {
			return obj, true
		}
	}
	return nil, false
}

// toFloat accepts float64/int/json.Number/numeric strings. Non-finite values are rejected.
func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		x, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = x
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = x
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// positiveInt rounds v to an int >= 1, or returns def.
func positiveInt(v any, def int) int {
	f, ok := toFloat(v)
	if !ok || f > math.MaxInt32 {
		return def
	}
	n := int(math.Round(f))
	if n < 1 {
		return def
	}
	return n
}

// nonNegative returns v when it is a finite number >= 0, else def.
func nonNegative(v any, def float64) float64 {
	f, ok := toFloat(v)
	if !ok || f < 0 {
		return def
	}
	return f
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// parseDate is lenient: unknown formats yield nil. All-digit input is taken
// as epoch milliseconds.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil && len(s) > 8 {
		t := time.UnixMilli(ms).UTC()
		return &t
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &t
		}
	}
	return nil
}

// nightsBetween is max(1, round(days)) when both ends are known.
func nightsBetween(in, out *time.Time) *int {
	if in == nil || out == nil {
		return nil
	}
	n := int(math.Round(out.Sub(*in).Hours() / 24))
	if n < 1 {
		n = 1
	}
	return &n
}
