// Package jsonpath reads dotted paths such as "request.payload.login.userName"
// out of decoded JSON documents (map[string]interface{} trees).
package jsonpath

import (
	"strings"
)

// GetPath returns the value at path, or nil when any component is missing.
func GetPath(doc interface{}, path string) interface{} {
	v, _ := lookup(doc, path)
	return v
}

// GetString returns the value at path when it is a string.
func GetString(doc interface{}, path string) (string, bool) {
	s, ok := GetPath(doc, path).(string)
	return s, ok
}

// IsBlank is true for nil and for strings that are empty after trimming
// whitespace. Values of any other type are never blank.
func IsBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// IsPresent is the negation used by every validator: the path exists and its
// value is not blank.
func IsPresent(doc interface{}, path string) bool {
	v, ok := lookup(doc, path)
	return ok && !IsBlank(v)
}

func lookup(doc interface{}, path string) (interface{}, bool) {
	if doc == nil {
		return nil, false
	}
	cur := doc
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		next, exists := obj[key]
		if !exists || next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}
