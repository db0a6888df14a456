package redact

// Token shape checks that cut false positives on the broad patterns before
// a match is counted and replaced.

// looksHighEntropyToken filters the 40-char AWS secret candidate pattern.
// A real secret access key mixes case and digits; a plain English word or
// an all-lowercase identifier of the right length does not.
func looksHighEntropyToken(s string) bool {
	var lower, upper, digit int
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
			lower++
		case c >= 'A' && c <= 'Z':
			upper++
		case c >= '0' && c <= '9':
			digit++
		}
	}
	classes := 0
	if lower > 0 {
		classes++
	}
	if upper > 0 {
		classes++
	}
	if digit > 0 {
		classes++
	}
	return classes >= 2
}
