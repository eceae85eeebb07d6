package aggregate

import (
	"math"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/vidyaops/campusboard/internal/domain/model"
)

func fragment(campus, resolver, email string, score float64, day time.Time) model.Fragment {
	return model.Fragment{
		CampusName:    campus,
		CampusLocation: campus + " City",
		ResolverName:  resolver,
		ResolverEmail: email,
		OverallScore:  score,
		Competencies: []model.Competency{
			{Category: "Gratitude", Score: score, MaxScore: model.MaxCompetencyScore},
		},
		DateEvaluated: day,
	}
}

func TestFold(t *testing.T) {
	day1 := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)

	Convey("Given an empty batch", t, func() {
		_, err := New().Fold(nil)

		Convey("Fold reports no data", func() {
			So(err, ShouldEqual, ErrNoData)
		})
	})

	Convey("Given fragments for two campuses", t, func() {
		frags := []model.Fragment{
			fragment("Pune Central", "Asha Patil", "asha@x.org", 5, day1),
			fragment("Dharavi", "Ravi Kumar", "ravi@x.org", 3, day1),
			fragment("Pune Central", "Ravi Kumar", "ravi@x.org", 6, day1),
		}
		snap, err := New().Fold(frags)
		So(err, ShouldBeNil)

		Convey("campuses appear once, in first-seen order, with sequential ids", func() {
			So(len(snap.Campuses), ShouldEqual, 2)
			So(snap.Campuses[0].ID, ShouldEqual, "CAM-1")
			So(snap.Campuses[0].Name, ShouldEqual, "Pune Central")
			So(snap.Campuses[1].ID, ShouldEqual, "CAM-2")
			So(snap.Campuses[1].Name, ShouldEqual, "Dharavi")
		})

		Convey("resolvers are keyed by email with sequential ids", func() {
			So(len(snap.Resolvers), ShouldEqual, 2)
			So(snap.Resolvers[0].ID, ShouldEqual, "RES-1")
			So(snap.Resolvers[1].ID, ShouldEqual, "RES-2")
			So(snap.Resolvers[1].TotalEvaluations, ShouldEqual, 2)
			So(snap.Resolvers[1].CampusesEvaluated, ShouldEqual, 2)
		})

		Convey("evaluations preserve input order", func() {
			So(len(snap.Evaluations), ShouldEqual, 3)
			So(snap.Evaluations[0].ID, ShouldEqual, "EVAL-1")
			So(snap.Evaluations[2].ID, ShouldEqual, "EVAL-3")
			So(snap.Evaluations[2].CampusID, ShouldEqual, "CAM-1")
			So(snap.Evaluations[2].ResolverID, ShouldEqual, "RES-2")
			So(snap.Evaluations[0].Status, ShouldEqual, "Completed")
		})

		Convey("campus average covers same-day scores", func() {
			So(snap.Campuses[0].AverageScore, ShouldAlmostEqual, 5.5)
			So(snap.Campuses[0].TotalResolvers, ShouldEqual, 2)
		})

		Convey("resolver averages cover their own scores", func() {
			So(snap.Resolvers[1].AverageScoreGiven, ShouldAlmostEqual, 4.5)
		})
	})

	Convey("Given evaluations spanning multiple days", t, func() {
		frags := []model.Fragment{
			fragment("Pune Central", "Asha Patil", "asha@x.org", 2, day1),
			fragment("Pune Central", "Ravi Kumar", "ravi@x.org", 6, day2),
		}
		snap, err := New().Fold(frags)
		So(err, ShouldBeNil)

		Convey("only the most recent day feeds the campus average", func() {
			So(snap.Campuses[0].AverageScore, ShouldAlmostEqual, 6.0)
		})

		Convey("last evaluated reflects the newest date", func() {
			So(snap.Campuses[0].LastEvaluated.Equal(day2), ShouldBeTrue)
		})

		Convey("historical evaluations remain listed", func() {
			So(len(snap.Evaluations), ShouldEqual, 2)
		})

		Convey("a newer day arriving later resets the window even out of order", func() {
			reordered := []model.Fragment{frags[1], frags[0]}
			snap2, err := New().Fold(reordered)
			So(err, ShouldBeNil)
			So(snap2.Campuses[0].AverageScore, ShouldAlmostEqual, 6.0)
		})
	})

	Convey("Given NaN scores from degenerate rows", t, func() {
		frags := []model.Fragment{
			fragment("Pune Central", "Asha Patil", "asha@x.org", math.NaN(), day1),
			fragment("Pune Central", "Ravi Kumar", "ravi@x.org", 4, day1),
		}
		frags[0].Competencies[0].Score = math.NaN()
		snap, err := New().Fold(frags)
		So(err, ShouldBeNil)

		Convey("NaN values are skipped rather than poisoning the averages", func() {
			So(snap.Campuses[0].AverageScore, ShouldAlmostEqual, 4.0)
			So(snap.Resolvers[0].AverageScoreGiven, ShouldEqual, 0)
		})
	})

	Convey("Given a closed campus denylist", t, func() {
		agg := New(WithDenylist([]string{"Dharavi"}))
		frags := []model.Fragment{
			fragment("Pune Central", "Asha Patil", "asha@x.org", 5, day1),
			fragment("Dharavi", "Ravi Kumar", "ravi@x.org", 3, day1),
		}
		snap, err := agg.Fold(frags)
		So(err, ShouldBeNil)

		Convey("the closed campus is excluded from the campus collection", func() {
			So(len(snap.Campuses), ShouldEqual, 1)
			So(snap.Campuses[0].Name, ShouldEqual, "Pune Central")
		})

		Convey("its evaluations remain for historical lookup", func() {
			So(len(snap.Evaluations), ShouldEqual, 2)
		})
	})

	Convey("Given a relocated campus", t, func() {
		agg := New(WithRelocations(map[string]string{"Dharavi": "Sion"}))
		snap, err := agg.Fold([]model.Fragment{
			fragment("Dharavi", "Ravi Kumar", "ravi@x.org", 3, day1),
		})
		So(err, ShouldBeNil)

		Convey("the campus is marked relocated with its target", func() {
			So(snap.Campuses[0].Status, ShouldEqual, model.CampusRelocated)
			So(snap.Campuses[0].RelocatedTo, ShouldEqual, "Sion")
		})
	})

	Convey("Given two name spellings behind one derived email", t, func() {
		frags := []model.Fragment{
			fragment("Pune Central", "J Souza", "j.souza@x.org", 5, day1),
			fragment("Pune Central", "John D Souza", "j.souza@x.org", 6, day1),
		}
		snap, err := New().Fold(frags)
		So(err, ShouldBeNil)

		Convey("the resolvers merge and the longest spelling wins", func() {
			So(len(snap.Resolvers), ShouldEqual, 1)
			So(snap.Resolvers[0].Name, ShouldEqual, "John D Souza")
			So(snap.Resolvers[0].TotalEvaluations, ShouldEqual, 2)
		})
	})
}

func TestLevelBuckets(t *testing.T) {
	Convey("Given the default level buckets", t, func() {
		agg := New()

		Convey("scores map to their bucket names", func() {
			So(agg.level(1.0), ShouldEqual, "Needs Attention")
			So(agg.level(2.0), ShouldEqual, "Developing")
			So(agg.level(4.0), ShouldEqual, "Good")
			So(agg.level(5.5), ShouldEqual, "Excellent")
		})

		Convey("the scale maximum falls in the last bucket", func() {
			So(agg.level(model.MaxCompetencyScore), ShouldEqual, "Excellent")
		})

		Convey("bucket edges are half-open", func() {
			So(agg.level(3.999), ShouldEqual, "Developing")
			So(agg.level(5.499), ShouldEqual, "Good")
		})
	})
}
