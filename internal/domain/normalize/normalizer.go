// Package normalize converts raw form rows into evaluation fragments.
package normalize

import (
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vidyaops/campusboard/internal/domain/columns"
	"github.com/vidyaops/campusboard/internal/domain/model"
	"github.com/vidyaops/campusboard/pkg/metrics"
)

// Default normalizer configuration constants.
const (
	defaultEmailDomain = "campusboard.org"

	// Filler score bounds for unparseable level text: [3,7).
	fillerScoreMin  = 3.0
	fillerScoreSpan = 4.0

	// Minimum length for a competency feedback cell to be kept.
	minFeedbackLength = 5
)

var levelPattern = regexp.MustCompile(`(?i)level\s*(\d+)`)

// Timestamp layouts accepted across spreadsheet revisions.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006",
}

// Normalizer turns one RawRow into a model.Fragment or a rejection.
type Normalizer struct {
	table       columns.Table
	categories  []columns.Category
	emailDomain string
	rng         *rand.Rand
}

// New creates a Normalizer with configuration options.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		table:       columns.DefaultTable(),
		categories:  columns.DefaultCategories(),
		emailDomain: defaultEmailDomain,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // filler scores are not security sensitive
	}

	// Apply all options
	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Normalize converts a raw row into an evaluation fragment. Rows whose campus
// or resolver name trims to empty are rejected with ErrMissingIdentity and
// contribute to no entity. batchTime backstops rows with unparseable dates.
func (n *Normalizer) Normalize(row model.RawRow, batchTime time.Time) (model.Fragment, error) {
	campusName := n.table.Lookup(row, columns.FieldCampusName, "")
	resolverName := n.table.Lookup(row, columns.FieldResolverName, "")
	if campusName == "" || resolverName == "" {
		return model.Fragment{}, ErrMissingIdentity
	}

	email := n.table.Lookup(row, columns.FieldResolverEmail, "")
	if email == "" {
		email = DeriveEmail(resolverName, n.emailDomain)
	}

	competencies := make([]model.Competency, 0, len(n.categories))
	for _, cat := range n.categories {
		levelText := columns.Resolve(row, cat.LevelCandidates, "")
		score, ok := ParseLevel(levelText)
		if !ok {
			score = n.fillMissingScore()
			metrics.RecordFillerScore()
		}
		competencies = append(competencies, model.Competency{
			Category:  cat.Name,
			Score:     score,
			MaxScore:  model.MaxCompetencyScore,
			LevelText: levelText,
		})
	}

	return model.Fragment{
		CampusName:         campusName,
		CampusLocation:     n.table.Lookup(row, columns.FieldCampusLocation, ""),
		ResolverName:       resolverName,
		ResolverEmail:      strings.ToLower(email),
		OverallScore:       meanScore(competencies),
		Competencies:       competencies,
		Feedback:           n.table.Lookup(row, columns.FieldGeneralFeedback, ""),
		CompetencyFeedback: n.competencyFeedback(row),
		UrgentIssue:        columns.ResolveUrgent(row),
		EscalationIssue:    columns.ResolveEscalation(row),
		DateEvaluated:      n.resolveDate(row, batchTime),
	}, nil
}

// ParseLevel parses level text like "Level 5" (or a bare integer) into a
// numeric score capped at the scale maximum.
func ParseLevel(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}

	var level int
	if m := levelPattern.FindStringSubmatch(text); m != nil {
		level, _ = strconv.Atoi(m[1])
	} else if v, err := strconv.Atoi(text); err == nil {
		level = v
	} else {
		return 0, false
	}

	score := float64(level)
	if score > model.MaxCompetencyScore {
		score = model.MaxCompetencyScore
	}
	return score, true
}

// DeriveEmail builds a fallback address from a resolver name: lowercased,
// spaces collapsed to dots, with the configured domain suffix. Two
// differently-spelled names can normalize to the same address, silently
// merging two resolvers (preserved source behavior, surfaced via metrics in
// the aggregator).
func DeriveEmail(name, domain string) string {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	return strings.Join(parts, ".") + "@" + domain
}

// fillMissingScore synthesizes a pseudo-random score in [3,7) for
// unparseable level text. Documented data-quality quirk of the source forms:
// the row is kept rather than dropped, at the cost of a fabricated score.
func (n *Normalizer) fillMissingScore() float64 {
	return fillerScoreMin + n.rng.Float64()*fillerScoreSpan
}

// competencyFeedback scans all headers for free-text commentary columns: a
// header qualifies when it carries a trigger word ("why"/"marked" or
// "anything"/"share") together with a competency keyword. Non-trivial
// matches are concatenated per competency.
func (n *Normalizer) competencyFeedback(row model.RawRow) map[string]string {
	headers := make([]string, 0, len(row))
	for h := range row {
		headers = append(headers, h)
	}
	sort.Strings(headers)

	out := make(map[string]string)
	for _, cat := range n.categories {
		var parts []string
		for _, h := range headers {
			lower := strings.ToLower(h)
			trigger := strings.Contains(lower, "why") || strings.Contains(lower, "marked") ||
				strings.Contains(lower, "anything") || strings.Contains(lower, "share")
			if !trigger || !strings.Contains(lower, cat.Keyword) {
				continue
			}
			v := strings.TrimSpace(row[h])
			if len(v) <= minFeedbackLength || strings.EqualFold(v, "na") {
				continue
			}
			parts = append(parts, v)
		}
		if len(parts) > 0 {
			out[cat.Name] = strings.Join(parts, "; ")
		}
	}
	return out
}

// resolveDate parses the row timestamp, falling back to batchTime.
func (n *Normalizer) resolveDate(row model.RawRow, batchTime time.Time) time.Time {
	raw := n.table.Lookup(row, columns.FieldTimestamp, "")
	if raw == "" {
		return batchTime
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return batchTime
}

func meanScore(competencies []model.Competency) float64 {
	if len(competencies) == 0 {
		return 0
	}
	var sum float64
	for _, c := range competencies {
		sum += c.Score
	}
	return sum / float64(len(competencies))
}

// String implements fmt.Stringer for debug logging.
func (n *Normalizer) String() string {
	return fmt.Sprintf("normalizer(domain=%s, categories=%d)", n.emailDomain, len(n.categories))
}
