// Package aggregate folds normalized evaluation fragments into the campus,
// resolver, and evaluation collections served to the dashboard.
package aggregate

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vidyaops/campusboard/internal/domain/model"
	"github.com/vidyaops/campusboard/pkg/metrics"
)

// Snapshot is the JSON-serializable output of one aggregation run.
type Snapshot struct {
	Campuses    []model.Campus     `json:"campuses"`
	Resolvers   []model.Resolver   `json:"resolvers"`
	Evaluations []model.Evaluation `json:"evaluations"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// LevelBucket discretizes an average score into a named level.
// Buckets are [Min, Max); the last bucket is closed at the scale maximum.
type LevelBucket struct {
	Name string
	Min  float64
	Max  float64
}

// DefaultLevelBuckets covers [0,7] contiguously and exhaustively.
func DefaultLevelBuckets() []LevelBucket {
	return []LevelBucket{
		{Name: "Needs Attention", Min: 0, Max: 2},
		{Name: "Developing", Min: 2, Max: 4},
		{Name: "Good", Min: 4, Max: 5.5},
		{Name: "Excellent", Min: 5.5, Max: model.MaxCompetencyScore},
	}
}

// Aggregator folds an ordered fragment stream into entity collections.
// Fragments are assumed valid (identity checks happen in the normalizer);
// degenerate scores are skipped from averaging rather than crashing.
type Aggregator struct {
	denylist    map[string]struct{}
	relocations map[string]string
	buckets     []LevelBucket
}

// New creates an Aggregator with configuration options.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		denylist:    make(map[string]struct{}),
		relocations: make(map[string]string),
		buckets:     DefaultLevelBuckets(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// campusState accumulates per-campus data during the fold.
type campusState struct {
	campus         model.Campus
	resolverEmails map[string]struct{}
	// latestDay keys the most-recent evaluation date (calendar day); only
	// scores from that day feed the campus average.
	latestDay    string
	latestScores []float64
}

// resolverState accumulates per-resolver data during the fold.
type resolverState struct {
	resolver model.Resolver
	sum      float64
	count    int
	campuses map[string]struct{}
}

// Fold consumes fragments in input order and produces the three collections.
// Returns ErrNoData for an empty batch. Campus and resolver collections are
// emitted in first-seen order; the evaluation list preserves input order.
func (a *Aggregator) Fold(fragments []model.Fragment) (*Snapshot, error) {
	if len(fragments) == 0 {
		return nil, ErrNoData
	}

	campuses := make(map[string]*campusState)
	resolvers := make(map[string]*resolverState)
	var campusOrder, resolverOrder []string
	evaluations := make([]model.Evaluation, 0, len(fragments))

	for _, f := range fragments {
		cs, ok := campuses[f.CampusName]
		if !ok {
			cs = &campusState{
				campus: model.Campus{
					ID:            fmt.Sprintf("CAM-%d", len(campusOrder)+1),
					Name:          f.CampusName,
					Location:      f.CampusLocation,
					LastEvaluated: f.DateEvaluated,
					Status:        model.CampusActive,
				},
				resolverEmails: make(map[string]struct{}),
				latestDay:      dayKey(f.DateEvaluated),
			}
			campuses[f.CampusName] = cs
			campusOrder = append(campusOrder, f.CampusName)
		}
		if cs.campus.Location == "" && f.CampusLocation != "" {
			cs.campus.Location = f.CampusLocation
		}
		cs.resolverEmails[f.ResolverEmail] = struct{}{}

		// lastEvaluated only moves forward; an equal date means this later
		// row joins the same most-recent batch.
		day := dayKey(f.DateEvaluated)
		switch {
		case day > cs.latestDay:
			cs.latestDay = day
			cs.latestScores = cs.latestScores[:0]
		case day < cs.latestDay:
			// Historical row: visible in the evaluation list but excluded
			// from the current average.
		}
		if !f.DateEvaluated.Before(cs.campus.LastEvaluated) {
			cs.campus.LastEvaluated = f.DateEvaluated
		}
		if day == cs.latestDay {
			for _, c := range f.Competencies {
				if math.IsNaN(c.Score) {
					continue
				}
				cs.latestScores = append(cs.latestScores, c.Score)
			}
		}

		rs, ok := resolvers[f.ResolverEmail]
		if !ok {
			rs = &resolverState{
				resolver: model.Resolver{
					ID:           fmt.Sprintf("RES-%d", len(resolverOrder)+1),
					Name:         f.ResolverName,
					Email:        f.ResolverEmail,
					LastActivity: f.DateEvaluated,
				},
				campuses: make(map[string]struct{}),
			}
			resolvers[f.ResolverEmail] = rs
			resolverOrder = append(resolverOrder, f.ResolverEmail)
		} else if !strings.EqualFold(rs.resolver.Name, f.ResolverName) {
			// Two spellings merged under one derived address. Preserved
			// source behavior; the longest variant wins to recover from
			// truncated form entries.
			metrics.RecordEmailCollision()
		}
		if len(f.ResolverName) > len(rs.resolver.Name) {
			rs.resolver.Name = f.ResolverName
		}
		rs.resolver.TotalEvaluations++
		rs.campuses[f.CampusName] = struct{}{}
		if !math.IsNaN(f.OverallScore) {
			rs.sum += f.OverallScore
			rs.count++
		}
		if f.DateEvaluated.After(rs.resolver.LastActivity) {
			rs.resolver.LastActivity = f.DateEvaluated
		}

		evaluations = append(evaluations, model.Evaluation{
			ID:                 fmt.Sprintf("EVAL-%d", len(evaluations)+1),
			CampusID:           cs.campus.ID,
			ResolverID:         rs.resolver.ID,
			ResolverName:       f.ResolverName,
			CampusName:         f.CampusName,
			OverallScore:       f.OverallScore,
			Competencies:       f.Competencies,
			Feedback:           f.Feedback,
			CompetencyFeedback: f.CompetencyFeedback,
			UrgentCampusIssue:  f.UrgentIssue,
			EscalationIssue:    f.EscalationIssue,
			DateEvaluated:      f.DateEvaluated,
			Status:             "Completed",
		})
	}

	snap := &Snapshot{
		Campuses:    make([]model.Campus, 0, len(campusOrder)),
		Resolvers:   make([]model.Resolver, 0, len(resolverOrder)),
		Evaluations: evaluations,
	}

	for _, name := range campusOrder {
		if _, closed := a.denylist[name]; closed {
			// Closed campuses drop out of the campus collection; their
			// evaluations stay in the list for historical lookup.
			continue
		}
		cs := campuses[name]
		cs.campus.AverageScore = mean(cs.latestScores)
		cs.campus.TotalResolvers = len(cs.resolverEmails)
		cs.campus.Level = a.level(cs.campus.AverageScore)
		if target, ok := a.relocations[name]; ok {
			cs.campus.Status = model.CampusRelocated
			cs.campus.RelocatedTo = target
		}
		snap.Campuses = append(snap.Campuses, cs.campus)
	}

	for _, email := range resolverOrder {
		rs := resolvers[email]
		if rs.count > 0 {
			rs.resolver.AverageScoreGiven = rs.sum / float64(rs.count)
		}
		rs.resolver.CampusesEvaluated = len(rs.campuses)
		snap.Resolvers = append(snap.Resolvers, rs.resolver)
	}

	return snap, nil
}

// level maps an average score to its bucket name.
func (a *Aggregator) level(score float64) string {
	for i, b := range a.buckets {
		last := i == len(a.buckets)-1
		if score >= b.Min && (score < b.Max || (last && score <= b.Max)) {
			return b.Name
		}
	}
	return ""
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
