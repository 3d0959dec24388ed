// internal/adapters/pms/extract.go
//
// Shared normalization helpers. Upstream payloads disagree on where the
// result array lives, how guests are named, and whether amounts carry a
// currency; every adapter funnels through these instead of parsing ad
// hoc.
package pms

import (
	"strconv"
	"strings"
)

// genericKeys are probed after any provider-specific named keys.
var genericKeys = []string{"items", "data", "results"}

/********** alias registries (single source of truth) **********/

var guestAliases = map[string][]string{
	"full":  {"guestName", "guest_name", "name", "guest.name", "customer.name"},
	"title": {"guest.title", "customer.title", "title"},
	"first": {"firstName", "first_name", "guest.firstName", "guest.first_name", "customer.firstName", "customer.first_name"},
	"last":  {"lastName", "last_name", "guest.lastName", "guest.last_name", "customer.lastName", "customer.last_name"},
}

var addressAliases = [][]string{
	{"address.street", "address.addressLine1", "address.address_line1", "street", "address1"},
	{"address.city", "city", "locality", "town"},
	{"address.state", "address.region", "state", "region"},
	{"address.postalCode", "address.postal_code", "address.zip", "postalCode", "postal_code", "zip", "postcode"},
	{"address.country", "address.countryCode", "country", "countryCode", "country_code"},
}

var currencyAliases = []string{"currency", "currencyCode", "currency_code", "currency.code"}

/********** lookups **********/

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

func lookupStr(m map[string]any, path string) string {
	if s, ok := lookupAny(m, path).(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// firstStr: first non-empty string across paths.
func firstStr(m map[string]any, paths ...string) string {
	for _, p := range paths {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// firstID: identifiers arrive as strings or JSON numbers.
func firstID(m map[string]any, paths ...string) string {
	for _, p := range paths {
		switch v := lookupAny(m, p).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			if v == float64(int64(v)) {
				return strconv.FormatInt(int64(v), 10)
			}
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// firstFloat: number from several paths (float64/int/string like "8,0").
func firstFloat(m map[string]any, paths ...string) (float64, bool) {
	for _, p := range paths {
		switch v := lookupAny(m, p).(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func firstInt(m map[string]any, paths ...string) (int, bool) {
	if f, ok := firstFloat(m, paths...); ok {
		return int(f), true
	}
	return 0, false
}

/********** collection extraction **********/

// collection resolves the result array of a payload: the payload itself
// if it is already an array, else the named keys in order, then the
// generic keys, each accepting either an array or a one-level envelope
// holding the array under the same key set. Shape mismatch never
// errors; it yields an empty collection.
func collection(payload any, named ...string) []map[string]any {
	switch v := payload.(type) {
	case []any:
		return asMaps(v)
	case map[string]any:
		keys := append(append([]string{}, named...), genericKeys...)
		for _, k := range keys {
			child, ok := v[k]
			if !ok {
				continue
			}
			switch cv := child.(type) {
			case []any:
				return asMaps(cv)
			case map[string]any:
				for _, k2 := range keys {
					if arr, ok := cv[k2].([]any); ok {
						return asMaps(arr)
					}
				}
			}
		}
	}
	return nil
}

func asMaps(in []any) []map[string]any {
	out := make([]map[string]any, 0, len(in))
	for _, it := range in {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// envelope returns the object nested under the first matching key, or
// the payload itself when none match (flat responses).
func envelope(m map[string]any, keys ...string) map[string]any {
	for _, k := range keys {
		if child, ok := m[k].(map[string]any); ok {
			return child
		}
	}
	return m
}

/********** composition **********/

// guestName joins whichever of title/first/last/full-name fields are
// present, defaulting to "Guest" when none are.
func guestName(m map[string]any) string {
	if full := firstStr(m, guestAliases["full"]...); full != "" {
		return full
	}
	parts := []string{
		firstStr(m, guestAliases["title"]...),
		firstStr(m, guestAliases["first"]...),
		firstStr(m, guestAliases["last"]...),
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return "Guest"
	}
	return strings.Join(out, " ")
}

// composeAddress joins whichever address components are present with
// commas. No components at all yields nil, not an empty string.
func composeAddress(m map[string]any) *string {
	out := make([]string, 0, len(addressAliases))
	for _, group := range addressAliases {
		if s := firstStr(m, group...); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	s := strings.Join(out, ", ")
	return &s
}

// currencyOr probes the conventional currency keys (any extra paths
// first), falling back to the provider's documented default.
func currencyOr(m map[string]any, def string, paths ...string) string {
	if s := firstStr(m, append(paths, currencyAliases...)...); s != "" {
		return strings.ToUpper(s)
	}
	return def
}

// dateStr trims timestamp-shaped values down to a civil date.
func dateStr(m map[string]any, paths ...string) string {
	s := firstStr(m, paths...)
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

func strOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
