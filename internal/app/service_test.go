package service

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/vidyaops/campusboard/internal/domain/model"
	"github.com/vidyaops/campusboard/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// captureNotifier records every notification and can simulate delivery failure.
type captureNotifier struct {
	mu   sync.Mutex
	sent []model.Notification
	fail bool
}

func (c *captureNotifier) Send(_ context.Context, n model.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("delivery failed")
	}
	c.sent = append(c.sent, n)
	return nil
}

func (c *captureNotifier) notifications() []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Notification, len(c.sent))
	copy(out, c.sent)
	return out
}

func evaluationRow(campus, resolver, level, urgent string) model.RawRow {
	return model.RawRow{
		"Timestamp":               "2026-03-14 09:30:00",
		"Campus Name":             campus,
		"Campus Location":         "Pune",
		"Your Name":               resolver,
		"Gratitude [Level]":       level,
		"Leadership [Level]":      level,
		"Problem Solving [Level]": level,
		"Communication [Level]":   level,
		"Teamwork [Level]":        level,
		"Ownership [Level]":       level,
		"Is there anything urgent on campus that needs immediate attention?": urgent,
	}
}

func startTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	svc := New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestIngest(t *testing.T) {
	ctx := context.Background()

	Convey("Given a batch with two evaluations of one campus", t, func() {
		notifier := &captureNotifier{}
		svc := startTestService(t, WithNotifier(notifier))

		rows := []model.RawRow{
			evaluationRow("Pune Central", "Asha Patil", "Level 5", "Water pump is broken"),
			evaluationRow("Pune Central", "Ravi Kumar", "Level 6", "no"),
		}
		res, err := svc.Ingest(ctx, rows)
		So(err, ShouldBeNil)

		Convey("both rows are accepted", func() {
			So(res.Accepted, ShouldEqual, 2)
			So(res.Rejected, ShouldEqual, 0)
			So(res.NoData, ShouldBeFalse)
		})

		Convey("the campus average covers both same-day evaluations", func() {
			campuses := svc.Campuses(ctx, false)
			So(len(campuses), ShouldEqual, 1)
			So(campuses[0].AverageScore, ShouldAlmostEqual, 5.5)
			So(campuses[0].Level, ShouldEqual, "Excellent")
			So(campuses[0].TotalResolvers, ShouldEqual, 2)
		})

		Convey("one meaningful urgent issue produced one alert", func() {
			So(res.AlertsSent, ShouldEqual, 1)
			sent := notifier.notifications()
			So(len(sent), ShouldEqual, 1)
			So(sent[0].CampusName, ShouldEqual, "Pune Central")
			So(sent[0].Type, ShouldEqual, model.IssueUrgent)
			So(sent[0].Content, ShouldEqual, "Water pump is broken")
		})

		Convey("re-ingesting the same batch suppresses the duplicate alert", func() {
			res2, err := svc.Ingest(ctx, rows)
			So(err, ShouldBeNil)
			So(res2.AlertsSent, ShouldEqual, 0)
			So(res2.AlertsSuppressed, ShouldEqual, 1)
			So(len(notifier.notifications()), ShouldEqual, 1)
		})

		Convey("derived resolver emails use the configured domain", func() {
			resolvers := svc.Resolvers(ctx)
			So(len(resolvers), ShouldEqual, 2)
			So(resolvers[0].Email, ShouldEqual, "asha.patil@campusboard.org")
		})

		Convey("evaluations are listed in ingestion order", func() {
			evals := svc.Evaluations(ctx)
			So(len(evals), ShouldEqual, 2)
			So(evals[0].ID, ShouldEqual, "EVAL-1")
			So(evals[0].ResolverName, ShouldEqual, "Asha Patil")
		})
	})

	Convey("Given a batch with an unusable row", t, func() {
		svc := startTestService(t)

		rows := []model.RawRow{
			{"Your Name": "Asha Patil"}, // no campus
			evaluationRow("Pune Central", "Ravi Kumar", "Level 4", ""),
		}
		res, err := svc.Ingest(ctx, rows)
		So(err, ShouldBeNil)

		Convey("the bad row is rejected without aborting the batch", func() {
			So(res.Accepted, ShouldEqual, 1)
			So(res.Rejected, ShouldEqual, 1)
			So(len(svc.Campuses(ctx, false)), ShouldEqual, 1)
		})
	})

	Convey("Given a batch with no usable rows", t, func() {
		notifier := &captureNotifier{}
		svc := startTestService(t, WithNotifier(notifier))

		// Seed a snapshot first
		_, err := svc.Ingest(ctx, []model.RawRow{
			evaluationRow("Pune Central", "Asha Patil", "Level 5", ""),
		})
		So(err, ShouldBeNil)

		res, err := svc.Ingest(ctx, []model.RawRow{{"Your Name": "nobody"}})
		So(err, ShouldBeNil)

		Convey("the result reports no data", func() {
			So(res.NoData, ShouldBeTrue)
			So(res.Rejected, ShouldEqual, 1)
		})

		Convey("the previous snapshot is kept", func() {
			So(len(svc.Campuses(ctx, false)), ShouldEqual, 1)
		})
	})

	Convey("Given a notifier that fails to deliver", t, func() {
		notifier := &captureNotifier{fail: true}
		svc := startTestService(t, WithNotifier(notifier))

		rows := []model.RawRow{
			evaluationRow("Pune Central", "Asha Patil", "Level 5", "Electrical fault in lab"),
		}
		res, err := svc.Ingest(ctx, rows)
		So(err, ShouldBeNil)

		Convey("the batch completes degraded", func() {
			So(res.Degraded, ShouldBeTrue)
			So(res.AlertsSent, ShouldEqual, 0)
			So(len(svc.Campuses(ctx, false)), ShouldEqual, 1)
		})

		Convey("the alert is retried on the next ingestion", func() {
			notifier.fail = false
			res2, err := svc.Ingest(ctx, rows)
			So(err, ShouldBeNil)
			So(res2.AlertsSent, ShouldEqual, 1)
			So(res2.Degraded, ShouldBeFalse)
		})
	})

	Convey("Given closed and relocated campuses", t, func() {
		svc := startTestService(t,
			WithClosedCampuses([]string{"Dharavi"}),
			WithRelocatedCampuses(map[string]string{"Sion": "Sion East"}),
		)

		rows := []model.RawRow{
			evaluationRow("Pune Central", "Asha Patil", "Level 5", ""),
			evaluationRow("Dharavi", "Ravi Kumar", "Level 3", ""),
			evaluationRow("Sion", "Meena Iyer", "Level 4", ""),
		}
		_, err := svc.Ingest(ctx, rows)
		So(err, ShouldBeNil)

		Convey("the closed campus is hidden and the relocation is marked", func() {
			campuses := svc.Campuses(ctx, false)
			So(len(campuses), ShouldEqual, 2)
			So(campuses[1].Name, ShouldEqual, "Sion")
			So(campuses[1].Status, ShouldEqual, model.CampusRelocated)
			So(campuses[1].RelocatedTo, ShouldEqual, "Sion East")
		})

		Convey("ranking by score orders campuses descending", func() {
			ranked := svc.Campuses(ctx, true)
			So(ranked[0].Name, ShouldEqual, "Pune Central")
			So(ranked[1].Name, ShouldEqual, "Sion")
		})
	})
}

func TestSnapshotPersistenceAcrossRestarts(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with a database", t, func() {
		dbPath := t.TempDir() + "/campusboard.db"

		svc := New(WithDBPath(dbPath), WithNotifier(&captureNotifier{}))
		So(svc.Start(ctx), ShouldBeNil)

		_, err := svc.Ingest(ctx, []model.RawRow{
			evaluationRow("Pune Central", "Asha Patil", "Level 5", "Roof leak above library"),
		})
		So(err, ShouldBeNil)
		svc.Stop()

		Convey("a restarted service restores the snapshot", func() {
			restarted := New(WithDBPath(dbPath), WithNotifier(&captureNotifier{}))
			So(restarted.Start(ctx), ShouldBeNil)
			defer restarted.Stop()

			campuses := restarted.Campuses(ctx, false)
			So(len(campuses), ShouldEqual, 1)
			So(campuses[0].Name, ShouldEqual, "Pune Central")
		})

		Convey("alert suppression survives the restart", func() {
			notifier := &captureNotifier{}
			restarted := New(WithDBPath(dbPath), WithNotifier(notifier))
			So(restarted.Start(ctx), ShouldBeNil)
			defer restarted.Stop()

			res, err := restarted.Ingest(ctx, []model.RawRow{
				evaluationRow("Pune Central", "Asha Patil", "Level 5", "Roof leak above library"),
			})
			So(err, ShouldBeNil)
			So(res.AlertsSent, ShouldEqual, 0)
			So(res.AlertsSuppressed, ShouldEqual, 1)
			So(len(notifier.notifications()), ShouldEqual, 0)
		})
	})
}

func TestGetStats(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startTestService(t)

		Convey("stats reflect service state before ingestion", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["persistent"], ShouldBeFalse)
			So(stats["alertLogSize"], ShouldEqual, 100)
		})

		Convey("stats carry entity counts after ingestion", func() {
			_, err := svc.Ingest(context.Background(), []model.RawRow{
				evaluationRow("Pune Central", "Asha Patil", "Level 5", ""),
			})
			So(err, ShouldBeNil)

			stats := svc.GetStats()
			So(stats["campuses"], ShouldEqual, 1)
			So(stats["resolvers"], ShouldEqual, 1)
			So(stats["evaluations"], ShouldEqual, 1)
		})
	})
}
