package logger

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Get returns the global instance", func() {
			So(Get(), ShouldNotBeNil)
		})

		Convey("Named returns a scoped logger", func() {
			So(Named("pipeline"), ShouldNotBeNil)
		})

		Convey("logging at all levels does not panic", func() {
			ctx := context.Background()
			log := Get()
			So(func() {
				log.Debug(ctx, "debug message", String("k", "v"))
				log.Info(ctx, "info message", Int("count", 3))
				log.Warn(ctx, "warn message", Bool("flag", true))
				log.Error(ctx, "error message", Error(errors.New("boom")))
			}, ShouldNotPanic)
		})

		Convey("Sync succeeds", func() {
			So(Sync(), ShouldBeNil)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(Init(), ShouldBeNil)

		Convey("known levels parse", func() {
			So(SetLevelString("debug"), ShouldBeNil)
			So(SetLevelString("INFO"), ShouldBeNil)
			So(SetLevelString("warning"), ShouldBeNil)
			So(SetLevelString(" error "), ShouldBeNil)
		})

		Convey("empty defaults to info", func() {
			So(SetLevelString(""), ShouldBeNil)
		})

		Convey("unknown levels error", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}

func TestFieldConstructors(t *testing.T) {
	Convey("Given field constructors", t, func() {
		Convey("keys and values carry through", func() {
			So(String("a", "b"), ShouldResemble, Field{Key: "a", Value: "b"})
			So(Int("n", 7), ShouldResemble, Field{Key: "n", Value: 7})
			So(Float64("f", 5.5), ShouldResemble, Field{Key: "f", Value: 5.5})
			So(Bool("ok", true), ShouldResemble, Field{Key: "ok", Value: true})
		})

		Convey("Error uses the fixed error key", func() {
			err := errors.New("boom")
			So(Error(err).Key, ShouldEqual, "error")
			So(Error(err).Value, ShouldEqual, err)
		})
	})
}
