// Package columns locates logical fields among the varying raw header
// spellings produced by different spreadsheet revisions.
package columns

import (
	"sort"
	"strings"
)

// Field identifies a logical column of the evaluation form.
type Field string

// Logical fields resolved from raw rows.
const (
	FieldCampusName      Field = "campus_name"
	FieldCampusLocation  Field = "campus_location"
	FieldResolverName    Field = "resolver_name"
	FieldResolverEmail   Field = "resolver_email"
	FieldTimestamp       Field = "timestamp"
	FieldGeneralFeedback Field = "general_feedback"
)

// Table maps logical fields to ordered candidate header patterns.
// Candidate order defines precedence when multiple headers match.
type Table map[Field][]string

// DefaultTable returns the consolidated field-to-header mapping covering the
// known spreadsheet revisions. Candidates are matched exactly (post-trim)
// first, then as case-insensitive substrings.
func DefaultTable() Table {
	return Table{
		// A bare "Campus" candidate would also match "Campus Location" via the
		// substring pass, so only the qualified variants are listed.
		FieldCampusName: {
			"Campus Name",
			"Which campus are you evaluating?",
		},
		FieldCampusLocation: {
			"Campus Location",
			"Location",
			"City",
		},
		FieldResolverName: {
			"Your Name",
			"Name of the evaluator",
			"Evaluator Name",
		},
		FieldResolverEmail: {
			"Email Address",
			"Your Email",
			"Email",
		},
		FieldTimestamp: {
			"Timestamp",
			"Date of visit",
			"Date",
		},
		FieldGeneralFeedback: {
			"Anything else you would like to share?",
			"Additional Feedback",
			"General Feedback",
		},
	}
}

// Lookup resolves a logical field using the table's candidate list.
func (t Table) Lookup(row map[string]string, field Field, def string) string {
	return Resolve(row, t[field], def)
}

// Resolve returns the first non-empty cell whose header matches a candidate,
// else def. For each candidate, an exact post-trim match wins over a
// case-insensitive substring match. Headers are scanned in sorted order so
// resolution is deterministic regardless of map iteration order.
func Resolve(row map[string]string, candidates []string, def string) string {
	headers := sortedHeaders(row)

	for _, candidate := range candidates {
		want := strings.TrimSpace(candidate)
		wantLower := strings.ToLower(want)

		// Exact match first (tolerating trailing whitespace in the header).
		for _, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), want) {
				if v := strings.TrimSpace(row[h]); v != "" {
					return v
				}
			}
		}

		// Case-insensitive substring match second.
		for _, h := range headers {
			if strings.Contains(strings.ToLower(h), wantLower) {
				if v := strings.TrimSpace(row[h]); v != "" {
					return v
				}
			}
		}
	}
	return def
}

func sortedHeaders(row map[string]string) []string {
	headers := make([]string, 0, len(row))
	for h := range row {
		headers = append(headers, h)
	}
	sort.Strings(headers)
	return headers
}
