package columns

import (
	"regexp"
	"strings"
)

// Long-form question strings used by the current form revision. Exact phrase
// matching is precise but brittle to wording edits, so resolution falls back
// to keyword patterns when the phrase is absent.
const (
	UrgentQuestion     = "Is there anything urgent on campus that needs immediate attention?"
	EscalationQuestion = "Is there an escalation that requires support from a senior team member?"
)

var (
	urgentPattern = regexp.MustCompile(`(?i)(urgent|pressing|immediate attention)`)
	// "leadership" alone would also match the Leadership competency column,
	// so the fallback keys on escalation wording only.
	escalationPattern = regexp.MustCompile(`(?i)(escalat|senior leadership|senior team)`)
)

// ResolveUrgent extracts the urgent-issue free-text answer from a row.
func ResolveUrgent(row map[string]string) string {
	return resolveIssue(row, UrgentQuestion, urgentPattern)
}

// ResolveEscalation extracts the escalation free-text answer from a row.
func ResolveEscalation(row map[string]string) string {
	return resolveIssue(row, EscalationQuestion, escalationPattern)
}

// resolveIssue tries the exact question phrase first, then falls back to a
// keyword pattern scan over all headers.
func resolveIssue(row map[string]string, question string, fuzzy *regexp.Regexp) string {
	headers := sortedHeaders(row)

	for _, h := range headers {
		if strings.Contains(h, question) {
			return strings.TrimSpace(row[h])
		}
	}

	for _, h := range headers {
		if fuzzy.MatchString(h) {
			if v := strings.TrimSpace(row[h]); v != "" {
				return v
			}
		}
	}
	return ""
}
