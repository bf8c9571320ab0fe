// Package jsonextract pulls JSON objects out of prose-wrapped model output.
// Chat models routinely wrap their JSON in pleasantries ("Sure! {...} Hope
// that helps"), so providers cannot hand the raw body to encoding/json.
package jsonextract

import "errors"

// ErrNoObject is returned when the input contains no balanced JSON object.
var ErrNoObject = errors.New("no balanced JSON object found in text")

// FirstObject returns the first balanced {...} object in text. Braces inside
// JSON string literals are ignored, so trailing prose and nested objects are
// both handled.
func FirstObject(text string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if start >= 0 {
				inString = true
			}
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", ErrNoObject
}
