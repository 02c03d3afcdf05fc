package ratelimit

import "regexp"

// limitPattern names one rate-limit phrase so the matched pattern can be
// surfaced in diagnostics.
type limitPattern struct {
	name string
	re   *regexp.Regexp
}

// limitPatterns is the ordered disjunction of known rate-limit signals in
// assistant responses.
var limitPatterns = []limitPattern{
	{"rate limit", regexp.MustCompile(`(?i)rate[\s-]?limit`)},
	{"quota exceeded", regexp.MustCompile(`(?i)quota\s+exceeded`)},
	{"too many requests", regexp.MustCompile(`(?i)too\s+many\s+requests`)},
	{"overloaded", regexp.MustCompile(`(?i)\boverloaded\b`)},
	{"usage limit", regexp.MustCompile(`(?i)usage\s+limit`)},
	{"hit your limit", regexp.MustCompile(`(?i)hit\s+your\s+limit`)},
	{"try again later", regexp.MustCompile(`(?i)try\s+again\s+(?:in|later)`)},
	{"capacity", regexp.MustCompile(`(?i)at\s+capacity`)},
	{"http 429", regexp.MustCompile(`\b429\b`)},
}

// Detect scans text for a rate-limit signal and returns the name of the
// first matching pattern.
func Detect(text string) (pattern string, detected bool) {
	for _, p := range limitPatterns {
		if p.re.MatchString(text) {
			return p.name, true
		}
	}
	return "", false
}

// IsRateLimited reports whether text carries any rate-limit signal.
func IsRateLimited(text string) bool {
	_, detected := Detect(text)
	return detected
}
