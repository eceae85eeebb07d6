package columns

// Category describes one scored competency dimension: how its level cell and
// free-text commentary are located among the raw headers.
type Category struct {
	// Name is the canonical competency name used in the output.
	Name string
	// Keyword identifies this competency in feedback headers (lowercase).
	Keyword string
	// LevelCandidates are the header variants carrying the level text.
	LevelCandidates []string
}

// DefaultCategories returns the fixed ordered competency list of the
// evaluation form.
func DefaultCategories() []Category {
	return []Category{
		{
			Name:            "Gratitude",
			Keyword:         "gratitude",
			LevelCandidates: []string{"Gratitude [Level]", "Gratitude Level", "Gratitude"},
		},
		{
			Name:            "Leadership",
			Keyword:         "leadership",
			LevelCandidates: []string{"Leadership [Level]", "Leadership Level", "Leadership"},
		},
		{
			Name:            "Problem Solving",
			Keyword:         "problem solving",
			LevelCandidates: []string{"Problem Solving [Level]", "Problem Solving Level", "Problem Solving"},
		},
		{
			Name:            "Communication",
			Keyword:         "communication",
			LevelCandidates: []string{"Communication [Level]", "Communication Level", "Communication"},
		},
		{
			Name:            "Teamwork",
			Keyword:         "teamwork",
			LevelCandidates: []string{"Teamwork [Level]", "Teamwork Level", "Teamwork"},
		},
		{
			Name:            "Ownership",
			Keyword:         "ownership",
			LevelCandidates: []string{"Ownership [Level]", "Ownership Level", "Ownership"},
		},
	}
}
