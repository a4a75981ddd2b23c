// Package expr expands ${env.KEY} references in configuration documents.
package expr

import (
	"os"
	"strings"
	"unicode"
)

const envPrefix = "${env."

// Lookup resolves a variable name; ok is false when it is not defined.
type Lookup func(key string) (value string, ok bool)

// ExpandEnv replaces ${env.KEY} and ${env.KEY:-fallback} with values taken
// from the process environment.
func ExpandEnv(value string) string {
	return Expand(value, os.LookupEnv)
}

// Expand replaces ${env.KEY} and ${env.KEY:-fallback} using lookup. Undefined
// keys without a fallback expand to "". Malformed expressions are kept as is.
func Expand(value string, lookup Lookup) string {
	if !strings.Contains(value, envPrefix) {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	rest := value
	for {
		idx := strings.Index(rest, envPrefix)
		if idx < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:idx])
		body := rest[idx+len(envPrefix):]
		end := strings.IndexByte(body, '}')
		if end < 0 {
			b.WriteString(rest[idx:])
			return b.String()
		}
		key, fallback, hasFallback := strings.Cut(body[:end], ":-")
		if !validKey(key) {
			// keep the prefix literal and rescan what follows it
			b.WriteString(envPrefix)
			rest = body
			continue
		}
		if v, ok := lookup(key); ok && (v != "" || !hasFallback) {
			b.WriteString(v)
		} else if hasFallback {
			b.WriteString(fallback)
		}
		rest = body[end+1:]
	}
}

func validKey(key string) bool {
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}
