// Package model contains domain entities passed between layers.
package model

import "time"

// RawRow is one form submission: a mapping of column header to cell value.
// Headers vary by spreadsheet revision and may carry trailing whitespace or
// bracketed sub-instructions, so nothing is resolved positionally.
type RawRow map[string]string

// CampusStatus describes the operational state of a campus.
type CampusStatus string

// Campus lifecycle states.
const (
	CampusActive    CampusStatus = "Active"
	CampusClosed    CampusStatus = "Closed"
	CampusRelocated CampusStatus = "Relocated"
)

// IssueType classifies an alert-worthy free-text answer.
type IssueType string

// Issue types surfaced to the notification stream.
const (
	IssueUrgent     IssueType = "Urgent Campus Issue"
	IssueEscalation IssueType = "Escalation Required"
)

// Competency is one scored dimension of a campus evaluation.
type Competency struct {
	Category  string  `json:"category"`
	Score     float64 `json:"score"`
	MaxScore  float64 `json:"max_score"`
	LevelText string  `json:"level_text"`
}

// MaxCompetencyScore is the upper bound of the 0-7 scoring scale.
const MaxCompetencyScore = 7.0

// Fragment is a normalized row: the output of the row normalizer and the
// input of the aggregator. Entity ids are assigned later by the aggregator.
type Fragment struct {
	CampusName         string
	CampusLocation     string
	ResolverName       string
	ResolverEmail      string
	OverallScore       float64
	Competencies       []Competency
	Feedback           string
	CompetencyFeedback map[string]string
	UrgentIssue        string
	EscalationIssue    string
	DateEvaluated      time.Time
}

// Campus aggregates all evaluations referencing one campus name.
type Campus struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Location       string       `json:"location"`
	AverageScore   float64      `json:"average_score"`
	TotalResolvers int          `json:"total_resolvers"`
	Level          string       `json:"level"`
	LastEvaluated  time.Time    `json:"last_evaluated"`
	Status         CampusStatus `json:"status"`
	RelocatedTo    string       `json:"relocated_to,omitempty"`
}

// Resolver is the person submitting evaluations, keyed by (possibly derived) email.
type Resolver struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	CampusesEvaluated int       `json:"campuses_evaluated"`
	TotalEvaluations  int       `json:"total_evaluations"`
	AverageScoreGiven float64   `json:"average_score_given"`
	LastActivity      time.Time `json:"last_activity"`
}

// Evaluation is one accepted form submission. Immutable after creation.
type Evaluation struct {
	ID                 string            `json:"id"`
	CampusID           string            `json:"campus_id"`
	ResolverID         string            `json:"resolver_id"`
	ResolverName       string            `json:"resolver_name"`
	CampusName         string            `json:"campus_name"`
	OverallScore       float64           `json:"overall_score"`
	Competencies       []Competency      `json:"competencies"`
	Feedback           string            `json:"feedback,omitempty"`
	CompetencyFeedback map[string]string `json:"competency_feedback,omitempty"`
	UrgentCampusIssue  string            `json:"urgent_campus_issue,omitempty"`
	EscalationIssue    string            `json:"escalation_issue,omitempty"`
	DateEvaluated      time.Time         `json:"date_evaluated"`
	Status             string            `json:"status"`
}

// Notification is one alert request emitted for a meaningful urgent or
// escalation answer, gated by the fingerprint log before delivery.
type Notification struct {
	ID           string    `json:"id"`
	CampusName   string    `json:"campus_name"`
	ResolverName string    `json:"resolver_name"`
	Timestamp    time.Time `json:"timestamp"`
	Field        string    `json:"field"`
	Content      string    `json:"content"`
	Type         IssueType `json:"type"`
}
