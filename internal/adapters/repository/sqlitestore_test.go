package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/vidyaops/campusboard/internal/domain/aggregate"
	"github.com/vidyaops/campusboard/internal/domain/model"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestFingerprintLog(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		store := openTestStore(t)

		Convey("no fingerprint is contained", func() {
			ok, err := store.Contains(ctx, "fp-1")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("appended fingerprints become visible", func() {
			So(store.Append(ctx, "fp-1", 100), ShouldBeNil)

			ok, err := store.Contains(ctx, "fp-1")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			size, err := store.Size(ctx)
			So(err, ShouldBeNil)
			So(size, ShouldEqual, 1)
		})

		Convey("removed fingerprints disappear", func() {
			So(store.Append(ctx, "fp-1", 100), ShouldBeNil)
			So(store.Remove(ctx, "fp-1"), ShouldBeNil)

			ok, err := store.Contains(ctx, "fp-1")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("append trims to the bound, oldest first", func() {
			for i := 0; i < 5; i++ {
				So(store.Append(ctx, string(rune('a'+i)), 3), ShouldBeNil)
			}

			size, err := store.Size(ctx)
			So(err, ShouldBeNil)
			So(size, ShouldEqual, 3)

			fps, err := store.Fingerprints(ctx)
			So(err, ShouldBeNil)
			So(fps, ShouldResemble, []string{"e", "d", "c"})

			ok, err := store.Contains(ctx, "a")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestSnapshotPersistence(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		store := openTestStore(t)

		Convey("loading reports not found", func() {
			_, err := store.LoadSnapshot(ctx)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("a saved snapshot round-trips", func() {
			snap := &aggregate.Snapshot{
				Campuses: []model.Campus{
					{ID: "CAM-1", Name: "Pune Central", AverageScore: 5.5, Level: "Excellent", Status: model.CampusActive},
				},
				Resolvers: []model.Resolver{
					{ID: "RES-1", Name: "Asha Patil", Email: "asha.patil@campusboard.org"},
				},
				Evaluations: []model.Evaluation{
					{ID: "EVAL-1", CampusID: "CAM-1", ResolverID: "RES-1", OverallScore: 5.5, Status: "Completed"},
				},
				GeneratedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
			}
			So(store.SaveSnapshot(ctx, snap), ShouldBeNil)

			loaded, err := store.LoadSnapshot(ctx)
			So(err, ShouldBeNil)
			So(loaded.Campuses, ShouldResemble, snap.Campuses)
			So(loaded.Resolvers, ShouldResemble, snap.Resolvers)
			So(loaded.Evaluations[0].ID, ShouldEqual, "EVAL-1")
			So(loaded.GeneratedAt.Equal(snap.GeneratedAt), ShouldBeTrue)
		})

		Convey("a second save replaces the first", func() {
			first := &aggregate.Snapshot{Campuses: []model.Campus{{ID: "CAM-1", Name: "Old"}}}
			second := &aggregate.Snapshot{Campuses: []model.Campus{{ID: "CAM-1", Name: "New"}}}
			So(store.SaveSnapshot(ctx, first), ShouldBeNil)
			So(store.SaveSnapshot(ctx, second), ShouldBeNil)

			loaded, err := store.LoadSnapshot(ctx)
			So(err, ShouldBeNil)
			So(len(loaded.Campuses), ShouldEqual, 1)
			So(loaded.Campuses[0].Name, ShouldEqual, "New")
		})
	})
}
