// Package envvar expands ${VAR} references in configuration values.
package envvar

import (
	"os"
	"regexp"
)

var pattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Expand replaces ${VAR} with the value of VAR from the process environment.
// Unset variables expand to the empty string. A bare $VAR is left alone so
// shell snippets in config values survive.
func Expand(value string) string {
	return ExpandWith(value, os.Getenv)
}

// ExpandWith is Expand with a custom lookup.
func ExpandWith(value string, lookup func(string) string) string {
	if value == "" {
		return value
	}

	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		return lookup(match[2 : len(match)-1])
	})
}
