package classify

import (
	"regexp"
	"strings"
)

// datePatterns match whole-string date and time shapes. Month names are
// English; numeric forms are locale-agnostic.
var datePatterns = []*regexp.Regexp{
	// Numeric dates: 12/25/2023, 25-12-2023, 1/5/23.
	regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}[/-]\d{2,4}$`),
	// Year-first numeric dates: 2023/12/25.
	regexp.MustCompile(`^\d{4}[/-]\d{1,2}[/-]\d{1,2}$`),
	// ISO date: 2023-12-25.
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
	// ISO datetime with optional seconds and zone: 2023-12-25T14:30:00Z.
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}(:\d{2})?(Z|[+-]\d{2}:\d{2})?$`),
	// Dotted European dates: 25.12.2023.
	regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{2,4}$`),
	// Date with trailing time: 12/25/2023 14:30.
	regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\s+\d{1,2}:\d{2}(:\d{2})?$`),
	// Month-name dates: Dec 25, 2023 or December 25 2023.
	regexp.MustCompile(`^(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},?\s+\d{2,4}$`),
	// Day-first month-name dates: 25 Dec 2023.
	regexp.MustCompile(`^\d{1,2}\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{2,4}$`),
	// Time of day: 14:30, 2:30:15, 9:05 AM.
	regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?(\s*(AM|PM))?$`),
}

// relativeDateTerms are matched as substrings of the lowercased text.
var relativeDateTerms = []string{
	"today", "tomorrow", "yesterday", "now",
	"今天", "明天", "昨天", "现在",
	"aujourd'hui", "demain", "hier",
	"сегодня", "завтра", "вчера",
}

// relativeDatePatterns match relative expressions anywhere in the text,
// such as "5 days ago" or "next month".
var relativeDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+\s+(day|week|month|year)s?\s+(ago|from now)`),
	regexp.MustCompile(`(last|next)\s+(week|month|year)`),
	regexp.MustCompile(`(this|past)\s+(week|month|year)`),
}

func isDate(text string) bool {
	for _, pattern := range datePatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return isRelativeDate(text)
}

func isRelativeDate(text string) bool {
	lower := strings.ToLower(text)

	for _, term := range relativeDateTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}

	for _, pattern := range relativeDatePatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}

	return false
}
