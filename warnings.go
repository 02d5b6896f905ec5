package tablesense

import "strings"

// Warning codes reported by terminal operations.
const (
	// WarnTruncated indicates rows beyond the MaxRows limit were dropped.
	WarnTruncated = "truncated"
	// WarnRaggedRows indicates the source rows had differing cell counts.
	WarnRaggedRows = "ragged_rows"
	// WarnHeaderMargin indicates the header decision landed close enough to
	// the confidence threshold that similar data could go the other way.
	WarnHeaderMargin = "header_margin"
)

// Warning describes a non-fatal issue encountered during extraction.
// Extraction succeeded, but the result may be imperfect.
type Warning struct {
	// Code identifies the warning category (see the Warn constants).
	Code string
	// Message is a human-readable description.
	Message string
}

// FormatWarnings joins warning messages into a single string suitable for
// logging. Returns an empty string when there are no warnings.
//
// Example:
//
//	table, warnings, err := tablesense.Open("report.xlsx").Table()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", tablesense.FormatWarnings(warnings))
//	}
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	msgs := make([]string, len(warnings))
	for i, w := range warnings {
		msgs[i] = w.Message
	}
	return strings.Join(msgs, "; ")
}
