package handlers

import (
	"fmt"
	"strconv"
	"strings"
)

// payload is the loosely typed body sent by the automation integration.
// Every field may arrive under a Portuguese or an English name.
type payload map[string]any

// lookup returns the first key present with a scalar value, even if empty.
func (p payload) lookup(keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := p[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			return t, true
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64), true
		case bool:
			return strconv.FormatBool(t), true
		default:
			return fmt.Sprint(t), true
		}
	}
	return "", false
}

// str returns the first non-empty value among keys.
func (p payload) str(keys ...string) string {
	for _, k := range keys {
		if v, ok := p.lookup(k); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// opt is str as a pointer; nil when every key is absent or blank.
func (p payload) opt(keys ...string) *string {
	v := p.str(keys...)
	if v == "" {
		return nil
	}
	return &v
}

// present is lookup as a pointer; an explicit empty string is kept.
func (p payload) present(keys ...string) *string {
	v, ok := p.lookup(keys...)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	return &v
}

func (p payload) flag(keys ...string) bool {
	v, _ := p.lookup(keys...)
	return v == "true"
}
