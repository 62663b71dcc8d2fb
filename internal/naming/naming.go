// Package naming holds the identifier conventions shared by the reflector
// and the mutator synthesizer.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// LowerFirst lowers the leading upper-case run of s, keeping the last
// capital of an acronym when it starts a new word ("URLPath" -> "urlPath",
// "ID" -> "id", "Counter" -> "counter").
func LowerFirst(s string) string {
	r := []rune(s)
	for i := 0; i < len(r) && unicode.IsUpper(r[i]); i++ {
		if i > 0 && i+1 < len(r) && unicode.IsLower(r[i+1]) {
			break
		}
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}

// UpperFirst capitalizes the first rune of s.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + s[size:]
}

// MethodName joins an operation prefix and a field key into an action name:
// MethodName("set", "counter") == "setCounter". An empty key yields the
// prefix alone.
func MethodName(prefix, key string) string {
	if key == "" {
		return prefix
	}
	return prefix + UpperFirst(key)
}

// TagName returns the name part of a struct tag value ("name,omitempty" -> "name").
func TagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	return name
}
