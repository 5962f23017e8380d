package base

import (
	"net/url"
	"strconv"
	"strings"
)

// ParsePrice reads a price that may arrive as a JSON number or a formatted
// string such as "Rs. 1,299" or "1.299,00".
func ParsePrice(v any) (float64, bool) {
	switch p := v.(type) {
	case float64:
		return p, p > 0
	case int:
		return float64(p), p > 0
	case string:
		var b strings.Builder
		for _, r := range p {
			if (r >= '0' && r <= '9') || r == '.' || r == ',' {
				b.WriteRune(r)
			}
		}
		s := strings.Trim(b.String(), ".,")
		// A trailing ",dd" is a decimal comma.
		if i := strings.LastIndex(s, ","); i >= 0 && len(s)-i == 3 && !strings.Contains(s[i:], ".") {
			s = strings.ReplaceAll(s[:i], ".", "") + "." + s[i+1:]
		}
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, f > 0
	}
	return 0, false
}

// NameOf returns v when it is a string, or v["name"] when it is an object.
func NameOf(v any) string {
	switch n := v.(type) {
	case string:
		return strings.TrimSpace(n)
	case map[string]any:
		return NameOf(n["name"])
	case []any:
		if len(n) > 0 {
			return NameOf(n[0])
		}
	}
	return ""
}

// AbsoluteURL resolves ref against the page URL. Unparseable refs are returned unchanged.
func AbsoluteURL(pageURL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "//") {
		return "https:" + ref
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}

// AppendUnique appends s to list unless it is empty or already present.
func AppendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
