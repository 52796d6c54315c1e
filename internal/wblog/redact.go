package wblog

import (
	"regexp"
)

// secretPatterns catches the key=value/key:value shapes credentials tend to
// leak through when a lookup failure or template render error echoes part of
// its input back into a log message.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(api[_-]?key|apikey)["']?\s*[:=]\s*["']?([^"'\s,}]+)["']?`),
	regexp.MustCompile(`(?i)(secret|token|auth)["']?\s*[:=]\s*["']?([^"'\s,}]+)["']?`),
	regexp.MustCompile(`(?i)(Bearer)\s+[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`),
	regexp.MustCompile(`(?i)(password)["']?\s*[:=]\s*["']?([^"'\s,}]+)["']?`),
	regexp.MustCompile(`(?i)(private[_-]?key|privkey)["']?\s*[:=]\s*["']?([^"'\s,}]+)["']?`),
}

const redactionText = "***REDACTED***"

// Redact scrubs substrings in s that look like a credential assignment or
// bearer token, the way the _logs funnel's sink must before a rendered
// template error (which may echo a lookup's raw input) reaches STDOUT or
// syslog.
func Redact(s string) string {
	result := s
	for _, pattern := range secretPatterns {
		result = pattern.ReplaceAllString(result, "${1}: "+redactionText)
	}
	return result
}
