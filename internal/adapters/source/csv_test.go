package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestCSVSource(t *testing.T) {
	ctx := context.Background()

	Convey("Given a well-formed export", t, func() {
		path := writeCSV(t, "Campus Name,Your Name,Gratitude [Level]\nPune Central,Asha Patil,Level 5\nDharavi,Ravi Kumar,Level 3\n")

		Convey("rows map headers to cells", func() {
			rows, err := NewCSVSource(path).Rows(ctx)
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 2)
			So(rows[0]["Campus Name"], ShouldEqual, "Pune Central")
			So(rows[1]["Gratitude [Level]"], ShouldEqual, "Level 3")
		})
	})

	Convey("Given a ragged export from an older form revision", t, func() {
		path := writeCSV(t, "Campus Name,Your Name,Your Email\nPune Central,Asha Patil\n")

		Convey("missing trailing cells are simply absent from the row", func() {
			rows, err := NewCSVSource(path).Rows(ctx)
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 1)
			So(rows[0]["Your Name"], ShouldEqual, "Asha Patil")
			_, ok := rows[0]["Your Email"]
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given an empty file", t, func() {
		path := writeCSV(t, "")

		Convey("no rows are produced", func() {
			rows, err := NewCSVSource(path).Rows(ctx)
			So(err, ShouldBeNil)
			So(rows, ShouldBeEmpty)
		})
	})

	Convey("Given a missing file", t, func() {
		Convey("the open error is surfaced", func() {
			_, err := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv")).Rows(ctx)
			So(err, ShouldNotBeNil)
		})
	})
}
